package layout

import "fmt"

// UnknownNameError means the name is not in the cached layout, which may be
// out of date
type UnknownNameError struct {
	Category Category
	Name     string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("unknown %s name %q, refresh the layout if it was added recently", e.Category, e.Name)
}

// UnsupportedFeatureError means the gateway did not report a feature needed
// by the operation
type UnsupportedFeatureError struct {
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("gateway feature %q is not in the layout, refresh the layout if it was enabled recently", e.Feature)
}

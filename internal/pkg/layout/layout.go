package layout

import (
	"sort"
)

// Category is a group of named devices in the layout
type Category string

const (
	Lights           Category = "lights"
	Blinds           Category = "blinds"
	Scenarios        Category = "scenarios"
	Thermoregulation Category = "thermoregulation"
)

// Gateway feature names as reported by feature_list_req
const (
	FeatureLights           = "lights"
	FeatureOpenings         = "openings"
	FeatureScenarios        = "scenarios"
	FeatureThermoregulation = "thermoregulation"
)

// Blind keeps both activation points of an opening
type Blind struct {
	OpenActID  int `json:"open_act_id"`
	CloseActID int `json:"close_act_id"`
}

// ID is the activation id used for motion commands, the gateway moves the
// blind in either direction through its open id
func (b Blind) ID() int {
	return b.OpenActID
}

// Layout maps display names to gateway activation ids
type Layout struct {
	Features         []string         `json:"features"`
	Lights           map[string]int   `json:"lights"`
	Blinds           map[string]Blind `json:"blinds"`
	Scenarios        map[string]int   `json:"scenarios"`
	Thermoregulation *int             `json:"thermoregulation,omitempty"`
}

func New() *Layout {
	return &Layout{
		Features:  []string{},
		Lights:    make(map[string]int),
		Blinds:    make(map[string]Blind),
		Scenarios: make(map[string]int),
	}
}

// Resolve returns the activation id of a named light, blind or scenario
func (l *Layout) Resolve(category Category, name string) (int, error) {
	var id int
	var ok bool

	switch category {
	case Lights:
		id, ok = l.Lights[name]
	case Blinds:
		var b Blind
		b, ok = l.Blinds[name]
		id = b.ID()
	case Scenarios:
		id, ok = l.Scenarios[name]
	case Thermoregulation:
		return l.Thermostat()
	}

	if !ok {
		return 0, &UnknownNameError{Category: category, Name: name}
	}

	return id, nil
}

// Thermostat returns the activation id of the single thermoregulation zone
func (l *Layout) Thermostat() (int, error) {
	if l.Thermoregulation == nil {
		return 0, &UnsupportedFeatureError{Feature: FeatureThermoregulation}
	}

	return *l.Thermoregulation, nil
}

// Names lists the known names of a category, sorted
func (l *Layout) Names(category Category) []string {
	var names []string

	switch category {
	case Lights:
		for n := range l.Lights {
			names = append(names, n)
		}
	case Blinds:
		for n := range l.Blinds {
			names = append(names, n)
		}
	case Scenarios:
		for n := range l.Scenarios {
			names = append(names, n)
		}
	}

	sort.Strings(names)
	return names
}

func (l *Layout) HasFeature(feature string) bool {
	for _, f := range l.Features {
		if f == feature {
			return true
		}
	}

	return false
}

func (l *Layout) fill() {
	if l.Features == nil {
		l.Features = []string{}
	}
	if l.Lights == nil {
		l.Lights = make(map[string]int)
	}
	if l.Blinds == nil {
		l.Blinds = make(map[string]Blind)
	}
	if l.Scenarios == nil {
		l.Scenarios = make(map[string]int)
	}
}

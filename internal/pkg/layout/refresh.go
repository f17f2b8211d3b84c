package layout

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jake-scott/came-domo/internal/pkg/domoapi"
	"github.com/jake-scott/came-domo/internal/pkg/logging"
	"github.com/pkg/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Source is the part of the gateway API that describes the installation
type Source interface {
	Features() ([]string, error)
	Scenarios() ([]domoapi.Scenario, error)
	Openings() ([]domoapi.Opening, error)
	Lights() ([]domoapi.Light, error)
	ThermoZone() (*domoapi.ThermoZone, error)
}

// Aliases renames raw gateway names, per feature: feature -> raw -> alias
type Aliases map[string]map[string]string

// Lookup returns the alias of a raw name. Configuration keys may have been
// lower cased on the way in, so names are matched without regard to case
// when there is no exact match.
func (a Aliases) Lookup(feature string, raw string) (string, bool) {
	names, ok := a[feature]
	if !ok {
		return "", false
	}

	if alias, ok := names[raw]; ok {
		return alias, true
	}

	for k, alias := range names {
		if strings.EqualFold(k, raw) {
			return alias, true
		}
	}

	return "", false
}

var nonPrintable = runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII || !unicode.IsPrint(r)
}))

// Normalize drops the characters of a gateway name that are not printable ASCII
func Normalize(raw string) string {
	s, _, err := transform.String(nonPrintable, raw)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(s)
}

type namer struct {
	aliases Aliases
}

// key picks the map key of a listed entry: the alias if one is configured
// under any of the feature names, else the normalized name
func (n namer) key(raw string, id int, features ...string) string {
	for _, f := range features {
		if alias, ok := n.aliases.Lookup(f, raw); ok {
			return alias
		}
	}

	if k := Normalize(raw); k != "" {
		return k
	}

	k := fmt.Sprintf("%s-%d", features[0], id)
	logging.Logger(nil).Warnf("gateway name %q has no printable characters, using %s", raw, k)
	return k
}

// Refresh builds a new layout from the gateway listings. Nothing of a
// previous layout is carried over.
func Refresh(src Source, aliases Aliases) (*Layout, error) {
	l := New()
	n := namer{aliases: aliases}

	features, err := src.Features()
	if err != nil {
		return nil, errors.Wrap(err, "listing gateway features")
	}
	l.Features = append(l.Features, features...)

	if l.HasFeature(FeatureScenarios) {
		scenarios, err := src.Scenarios()
		if err != nil {
			return nil, errors.Wrap(err, "listing scenarios")
		}

		for _, s := range scenarios {
			put(l.Scenarios, n.key(s.Name, s.ID, FeatureScenarios), s.ID, Scenarios)
		}
	}

	if l.HasFeature(FeatureOpenings) {
		openings, err := src.Openings()
		if err != nil {
			return nil, errors.Wrap(err, "listing openings")
		}

		for _, o := range openings {
			k := n.key(o.Name, o.OpenActID, FeatureOpenings, string(Blinds))
			if _, dup := l.Blinds[k]; dup {
				logging.Logger(nil).Warnf("duplicate blinds name %q, keeping the last one", k)
			}
			l.Blinds[k] = Blind{OpenActID: o.OpenActID, CloseActID: o.CloseActID}
		}
	}

	if l.HasFeature(FeatureThermoregulation) {
		zone, err := src.ThermoZone()
		if err != nil {
			logging.Logger(nil).WithError(err).Warn("no usable thermoregulation zone, thermostat commands are disabled")
		} else {
			actID := zone.ActID
			l.Thermoregulation = &actID
		}
	}

	if l.HasFeature(FeatureLights) {
		lights, err := src.Lights()
		if err != nil {
			return nil, errors.Wrap(err, "listing lights")
		}

		for _, light := range lights {
			put(l.Lights, n.key(light.Name, light.ActID, FeatureLights), light.ActID, Lights)
		}
	}

	return l, nil
}

func put(m map[string]int, key string, id int, category Category) {
	if old, dup := m[key]; dup && old != id {
		logging.Logger(nil).Warnf("duplicate %s name %q (ids %d and %d), keeping %d", category, key, old, id, id)
	}

	m[key] = id
}

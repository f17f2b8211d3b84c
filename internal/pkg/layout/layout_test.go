package layout

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jake-scott/came-domo/internal/pkg/domoapi"
)

type fakeSource struct {
	features  []string
	scenarios []domoapi.Scenario
	openings  []domoapi.Opening
	lights    []domoapi.Light
	zone      *domoapi.ThermoZone
	zoneErr   error
	calls     []string
}

func (f *fakeSource) Features() ([]string, error) {
	f.calls = append(f.calls, "features")
	return f.features, nil
}

func (f *fakeSource) Scenarios() ([]domoapi.Scenario, error) {
	f.calls = append(f.calls, "scenarios")
	return f.scenarios, nil
}

func (f *fakeSource) Openings() ([]domoapi.Opening, error) {
	f.calls = append(f.calls, "openings")
	return f.openings, nil
}

func (f *fakeSource) Lights() ([]domoapi.Light, error) {
	f.calls = append(f.calls, "lights")
	return f.lights, nil
}

func (f *fakeSource) ThermoZone() (*domoapi.ThermoZone, error) {
	f.calls = append(f.calls, "thermo")
	return f.zone, f.zoneErr
}

func fullSource() *fakeSource {
	return &fakeSource{
		features: []string{"lights", "openings", "scenarios", "thermoregulation"},
		scenarios: []domoapi.Scenario{
			{ID: 1, Name: "Lampes OFF"},
			{ID: 3, Name: "Volets fermés"},
		},
		openings: []domoapi.Opening{
			{OpenActID: 9, CloseActID: 10, Name: "Volet cuisine"},
		},
		lights: []domoapi.Light{
			{ActID: 4, Name: "Lampe sejour", Room: "Sejour"},
			{ActID: 5, Name: "Lampe s.a.m.", Room: "Sejour"},
		},
		zone: &domoapi.ThermoZone{ActID: 13, Name: "Zone", Temp: 210},
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Lampe sejour", Normalize("Lampe sejour"))
	assert.Equal(t, "Volets ferms", Normalize("Volets fermés"))
	assert.Equal(t, "Hall", Normalize(" Hall\t"))
	assert.Equal(t, "", Normalize("éàü"))
}

func TestAliases(t *testing.T) {
	a := Aliases{"lights": {"lampe sejour": "living"}}

	alias, ok := a.Lookup("lights", "Lampe sejour")
	assert.True(t, ok)
	assert.Equal(t, "living", alias)

	_, ok = a.Lookup("scenarios", "Lampe sejour")
	assert.False(t, ok)

	_, ok = Aliases(nil).Lookup("lights", "Lampe sejour")
	assert.False(t, ok)
}

func TestRefresh(t *testing.T) {
	t.Run("alias replaces the gateway name", func(t *testing.T) {
		l, err := Refresh(fullSource(), Aliases{"lights": {"Lampe sejour": "living"}})
		require.NoError(t, err)

		assert.Equal(t, 4, l.Lights["living"])
		assert.NotContains(t, l.Lights, "Lampe sejour")
		assert.Equal(t, 5, l.Lights["Lampe s.a.m."])
	})

	t.Run("without alias the normalized name is used", func(t *testing.T) {
		l, err := Refresh(fullSource(), nil)
		require.NoError(t, err)

		assert.Equal(t, 4, l.Lights["Lampe sejour"])
		assert.Equal(t, 3, l.Scenarios["Volets ferms"])
		assert.Equal(t, Blind{OpenActID: 9, CloseActID: 10}, l.Blinds["Volet cuisine"])
		require.NotNil(t, l.Thermoregulation)
		assert.Equal(t, 13, *l.Thermoregulation)
	})

	t.Run("blind aliases are accepted under either name", func(t *testing.T) {
		l, err := Refresh(fullSource(), Aliases{"blinds": {"Volet cuisine": "kitchen"}})
		require.NoError(t, err)

		id, err := l.Resolve(Blinds, "kitchen")
		require.NoError(t, err)
		assert.Equal(t, 9, id)
	})

	t.Run("only listed features are queried", func(t *testing.T) {
		src := fullSource()
		src.features = []string{"lights", "sicu"}

		l, err := Refresh(src, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"features", "lights"}, src.calls)
		assert.Empty(t, l.Blinds)
		assert.Nil(t, l.Thermoregulation)

		_, err = l.Thermostat()
		var unsupported *UnsupportedFeatureError
		assert.True(t, errors.As(err, &unsupported))
	})

	t.Run("missing thermoregulation zone keeps the other devices", func(t *testing.T) {
		src := fullSource()
		src.zone = nil
		src.zoneErr = errors.New("no thermoregulation zone in gateway listing")

		l, err := Refresh(src, nil)
		require.NoError(t, err)

		assert.Equal(t, 4, l.Lights["Lampe sejour"])
		assert.Equal(t, 1, l.Scenarios["Lampes OFF"])
		assert.Contains(t, l.Blinds, "Volet cuisine")
		assert.Nil(t, l.Thermoregulation)

		_, err = l.Thermostat()
		var unsupported *UnsupportedFeatureError
		assert.True(t, errors.As(err, &unsupported))
	})
}

func TestResolve(t *testing.T) {
	l, err := Refresh(fullSource(), Aliases{"openings": {"Volet cuisine": "kitchen"}})
	require.NoError(t, err)

	t.Run("known names", func(t *testing.T) {
		id, err := l.Resolve(Blinds, "kitchen")
		require.NoError(t, err)
		assert.Equal(t, 9, id)

		id, err = l.Resolve(Scenarios, "Lampes OFF")
		require.NoError(t, err)
		assert.Equal(t, 1, id)

		id, err = l.Resolve(Thermoregulation, "")
		require.NoError(t, err)
		assert.Equal(t, 13, id)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := l.Resolve(Blinds, "garage")

		var unknown *UnknownNameError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, Blinds, unknown.Category)
		assert.Equal(t, "garage", unknown.Name)
	})

	t.Run("names are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"Lampe s.a.m.", "Lampe sejour"}, l.Names(Lights))
	})
}

func TestStore(t *testing.T) {
	t.Run("saved layout loads back identical", func(t *testing.T) {
		l, err := Refresh(fullSource(), Aliases{"lights": {"Lampe sejour": "living"}})
		require.NoError(t, err)

		store := NewStore(filepath.Join(t.TempDir(), "layout.json"))
		require.NoError(t, store.Save(l))

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, l, loaded)
	})

	t.Run("empty layout round trips", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "layout.json"))
		require.NoError(t, store.Save(New()))

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, New(), loaded)
	})

	t.Run("save replaces the previous layout", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "layout.json"))

		first, err := Refresh(fullSource(), nil)
		require.NoError(t, err)
		require.NoError(t, store.Save(first))

		src := fullSource()
		src.features = []string{"scenarios"}
		second, err := Refresh(src, nil)
		require.NoError(t, err)
		require.NoError(t, store.Save(second))

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, loaded.Lights)
		assert.Len(t, loaded.Scenarios, 2)
	})

	t.Run("missing file is not cached", func(t *testing.T) {
		_, err := NewStore(filepath.Join(t.TempDir(), "layout.json")).Load()
		assert.True(t, errors.Is(err, ErrNotCached))
	})
}

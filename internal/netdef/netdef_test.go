// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package netdef

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dalzilio/dvn"
)

const umbrellaYAML = `
variables:
  - Weather
  - name: Forecast
    states: [sunny, cloudy, rainy]
  - name: Umbrella
    states: [leave, take]
    role: decision
  - name: Happiness
    role: utility
factors:
  - vars: [Weather]
    head: [Weather]
    values: [0.7, fin]
  - vars: [Weather, Forecast]
    head: [Forecast]
    values: [0.7, 0.15, 0.2, 0.25, fin]
  - vars: [Forecast, Umbrella]
    head: [Umbrella]
  - vars: [Weather, Umbrella]
    head: [Happiness]
    values: [100, 0, 20, 70]
`

func TestParseYAML(t *testing.T) {
	n, err := Parse([]byte(umbrellaYAML), YAML)
	require.NoError(t, err)
	require.Len(t, n.Variables, 4)
	assert.Equal(t, Variable{Name: "Weather"}, n.Variables[0])
	assert.Equal(t, dvn.Decision, n.Variables[2].Role)
	assert.Equal(t, []Value{Num(0.7), Fin()}, n.Factors[0].Values)

	fs, err := n.Build()
	require.NoError(t, err)
	cat := fs.Catalog()
	require.Equal(t, 4, fs.Len())
	factors := fs.Factors()

	assert.InDeltaSlice(t, []float64{0.7, 0.3}, factors[0].Values(), 1e-9)
	forecast := factors[1]
	assert.InDeltaSlice(t, []float64{0.7, 0.15, 0.2, 0.25, 0.1, 0.6}, forecast.Values(), 1e-9)
	assert.Equal(t, dvn.Decision, factors[2].Role(), "the role follows the head variable")
	assert.Equal(t, dvn.Utility, factors[3].Role())
	assert.Equal(t, []string{"Weather", "Umbrella"}, factors[3].Vars().Names())
	assert.Equal(t, "cloudy", cat.StateName(cat.Lookup("Forecast"), 1))

	policy, err := fs.SolveDecisionPolicy()
	require.NoError(t, err)
	res, value := policy.Resolve(dvn.ClauseOf(cat, dvn.Assignment{Var: cat.Lookup("Forecast"), State: 2}))
	assert.Equal(t, "[Umbrella=take]", res.String())
	assert.InDelta(t, 14.0, value, 1e-9)
}

func TestParseJSON(t *testing.T) {
	data := `{
		"variables": ["A", {"name": "B", "states": ["low", "mid", "high"]}],
		"factors": [
			{"vars": ["A"], "head": ["A"], "vals": [0.25, "fin"]},
			{"vars": ["A", "B"], "head": ["B"], "type": "normal", "vals": [0.2, 0.1, 0.3, 0.4, "FIN"]}
		]
	}`
	n, err := Parse([]byte(data), JSON)
	require.NoError(t, err)
	fs, err := n.Build(dvn.MaxFactorSize(64))
	require.NoError(t, err)
	f := fs.Factors()[1]
	assert.Equal(t, 6, f.Size())
	assert.InDeltaSlice(t, []float64{0.2, 0.1, 0.3, 0.4, 0.5, 0.5}, f.Values(), 1e-9)

	_, err = Parse([]byte(`{"variables": [`), JSON)
	assert.Error(t, err)
	_, err = Parse([]byte(`{"variables": ["A"], "factors": [{"vars": ["A"], "vals": [true]}]}`), JSON)
	assert.Error(t, err)
	_, err = Parse([]byte("variables: [A]\nfactors:\n  - vars: [A]\n    values: [x]\n"), YAML)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no variables", "factors: []\n"},
		{"duplicate", "variables: [A, A]\n"},
		{"unknown variable", "variables: [A]\nfactors:\n  - vars: [A, B]\n"},
		{"unknown head", "variables: [A]\nfactors:\n  - vars: [A]\n    head: [C]\n"},
		{"empty factor", "variables: [A]\nfactors:\n  - head: [A]\n"},
		{"single state", "variables:\n  - name: A\n    states: [only]\n"},
		{"duplicate states", "variables:\n  - name: A\n    states: [x, x]\n"},
		{"too many values", "variables: [A]\nfactors:\n  - vars: [A]\n    values: [0.1, 0.2, 0.3]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse([]byte(tt.yaml), YAML)
			require.NoError(t, err)
			_, err = n.Build()
			assert.ErrorIs(t, err, ErrInvalidNetwork)
		})
	}

	n, err := Parse([]byte("variables: [A]\nfactors:\n  - vars: [A, B]\n"), YAML)
	require.NoError(t, err)
	assert.ErrorIs(t, n.Validate(), dvn.ErrUnknownVariable)
}

func TestDefinition(t *testing.T) {
	n, err := Parse([]byte(umbrellaYAML), YAML)
	require.NoError(t, err)
	fs, err := n.Build()
	require.NoError(t, err)

	def := Definition(fs)
	out, err := yaml.Marshal(def)
	require.NoError(t, err)
	back, err := Parse(out, YAML)
	require.NoError(t, err)
	again, err := back.Build()
	require.NoError(t, err)

	require.Equal(t, fs.Len(), again.Len())
	for k, f := range fs.Factors() {
		g := again.Factors()[k]
		assert.Equal(t, f.Vars().Names(), g.Vars().Names())
		assert.Equal(t, f.Head().Names(), g.Head().Names())
		assert.Equal(t, f.Role(), g.Role())
		assert.InDeltaSlice(t, f.Values(), g.Values(), 1e-12)
	}
	assert.Nil(t, def.Variables[0].States, "boolean states are implicit")
	assert.Equal(t, []string{"sunny", "cloudy", "rainy"}, def.Variables[1].States)

	js, err := json.Marshal(def)
	require.NoError(t, err)
	assert.Contains(t, string(js), `"type":"utility"`)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "umbrella.yaml")
	require.NoError(t, os.WriteFile(path, []byte(umbrellaYAML), 0o600))
	n, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, n.Factors, 4)

	js, err := json.Marshal(n)
	require.NoError(t, err)
	path = filepath.Join(dir, "umbrella.json")
	require.NoError(t, os.WriteFile(path, js, 0o600))
	n, err = Load(path)
	require.NoError(t, err)
	assert.Len(t, n.Variables, 4)
	assert.Equal(t, Fin(), n.Factors[0].Values[1])

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

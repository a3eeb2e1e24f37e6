package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadence/internal/cadence/types"
)

func writeProject(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cadence.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeProject(t, `name: demo`)
	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, p.Tempo, "default tempo")
	assert.Equal(t, 1.0, p.Volume, "default volume")
	assert.Equal(t, "sine", p.Waveform, "default waveform")
	require.Len(t, p.Search, 1)
	assert.Equal(t, filepath.Dir(path), p.Search[0])
}

func TestLoadRespectsExplicitValues(t *testing.T) {
	path := writeProject(t, `
name: demo
tempo: 90
volume: 0.5
waveform: square
`)
	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90, p.Tempo)
	assert.Equal(t, 0.5, p.Volume)
	assert.Equal(t, "square", p.Waveform)
}

func TestLoadSearchAsScalarOrList(t *testing.T) {
	scalarPath := writeProject(t, `
name: demo
search: ./lib
`)
	p, err := Load(scalarPath)
	require.NoError(t, err)
	require.Len(t, p.Search, 1)
	assert.Equal(t, "./lib", p.Search[0])

	listPath := writeProject(t, `
name: demo
search:
  - ./lib
  - ./vendor
`)
	p2, err := Load(listPath)
	require.NoError(t, err)
	assert.Len(t, p2.Search, 2)
}

func TestEnvelopePresetResolution(t *testing.T) {
	path := writeProject(t, `
name: demo
envelope:
  preset: pluck
`)
	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, types.PluckEnvelope(), p.Envelope())
}

func TestEnvelopeDefaultsWhenUnset(t *testing.T) {
	path := writeProject(t, `name: demo`)
	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultEnvelope(), p.Envelope())
}

func TestResolveModuleFindsFileInSearchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bass.cad"), []byte(`let groove = C2`), 0o644))
	p := &Project{Search: StringOrList{dir}}
	resolved := p.ResolveModule("bass.cad")
	assert.Equal(t, filepath.Join(dir, "bass.cad"), resolved)
}

func TestResolveModuleFallsBackToRawPathWhenNotFound(t *testing.T) {
	p := &Project{Search: StringOrList{t.TempDir()}}
	resolved := p.ResolveModule("missing.cad")
	assert.Equal(t, "missing.cad", resolved, "want the raw path unresolved")
}

package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFileGivesFallbacks(t *testing.T) {
	p := Load(filepath.Join(t.TempDir(), "none.json"))
	assert.Equal(t, 4, p.Int(KeyLineWidth, 4))
	assert.Equal(t, 2.0, p.FloatWithFallback(KeyZoom, 2))
	assert.True(t, p.Bool(KeyShowLayers, true))
	assert.Empty(t, p.String(KeyLastDir))
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", prefsFile)
	p := Load(path)
	p.SetInt(KeyLineWidth, 6)
	p.SetFloat(KeyZoom, 8)
	p.SetString(KeyPrimary, "#FF0000")
	p.SetBool(KeyShowAssistant, false)
	require.NoError(t, p.Save())

	q := Load(path)
	assert.Equal(t, 6, q.Int(KeyLineWidth, 1))
	assert.Equal(t, 8.0, q.FloatWithFallback(KeyZoom, 1))
	assert.Equal(t, "#FF0000", q.String(KeyPrimary))
	assert.False(t, q.Bool(KeyShowAssistant, true))
}

func TestWrongTypesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"zoom":"big","showLayers":1,"lastDirectory":3}`), 0o644))
	p := Load(path)
	assert.Equal(t, 1.0, p.FloatWithFallback(KeyZoom, 1))
	assert.True(t, p.Bool(KeyShowLayers, true))
	assert.Empty(t, p.String(KeyLastDir))
}

func TestCorruptFileIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	assert.Equal(t, 3, Load(path).Int(KeyLineWidth, 3))
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, prefsFile, filepath.Base(DefaultPath()))
	assert.Equal(t, "magic-paint", filepath.Base(filepath.Dir(DefaultPath())))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebnyberg/cropview/geom"
)

func TestLoad_missingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cropctl.yaml")
	cfg := Default()
	cfg.Engine = EngineBMP
	cfg.Output.Compress = true
	cfg.Selection = SelectionOf(geom.Rc(10, 20, 30, 40))
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, geom.Rc(10, 20, 30, 40), got.Selection.Rect())
	assert.False(t, got.Selection.Empty())
}

func TestLoad_partial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cropctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: vips\nresolution: display\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, EngineVips, cfg.Engine)
	assert.Equal(t, "display", cfg.Resolution)
	assert.Equal(t, 0.65, cfg.ShadedOpacity, "unset fields keep defaults")
	assert.True(t, cfg.Selection.Empty())
}

func TestLoad_invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cropctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shaded_opacity: 3\nengine: gpu\nlog_format: xml\noutput: {quality: 0}\n"), 0o644))
	cfg, err := Load(path)
	require.Error(t, err)
	require.True(t, IsValidation(err))
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Len(t, v.Problems(), 4)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(path, []byte("engine: [\n"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
	assert.False(t, IsValidation(err))
}

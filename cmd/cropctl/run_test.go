package main

import (
	"image"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/image/bmp"

	"github.com/sebnyberg/cropview/geom"
	"github.com/sebnyberg/cropview/internal/config"
	"github.com/sebnyberg/cropview/internal/store"
)

func saveRandom(t *testing.T, path string, w, h int) *image.NRGBA {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	rand.New(rand.NewSource(int64(w * h))).Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	require.NoError(t, imaging.Save(img, path))
	return img
}

func TestRun_imaging(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	img := saveRandom(t, in, 600, 400)
	p := params{
		configPath:    filepath.Join(dir, "cropctl.yaml"),
		in:            in,
		out:           filepath.Join(dir, "out.png"),
		view:          "300x300",
		rect:          "50,50,100,100",
		preview:       filepath.Join(dir, "preview.png"),
		saveSelection: true,
	}
	cfg := config.Default()
	require.NoError(t, run(p, cfg, zaptest.NewLogger(t)))

	got, err := imaging.Open(p.out)
	require.NoError(t, err)
	assert.Equal(t, imaging.Crop(img, image.Rect(100, 100, 300, 300)).Pix, imaging.Clone(got).Pix)

	prev, err := imaging.Open(p.preview)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(300, 200), prev.Bounds().Size())

	saved, err := config.Load(p.configPath)
	require.NoError(t, err)
	assert.Equal(t, geom.Rc(50, 50, 100, 100), saved.Selection.Rect())
}

func TestRun_events(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	saveRandom(t, in, 200, 200)
	events := filepath.Join(dir, "drag.yaml")
	require.NoError(t, os.WriteFile(events, []byte(`
- {phase: down, x: 150, y: 150}
- {phase: move, x: 120, y: 100}
- {phase: move, x: 100, y: 50}
- {phase: up, x: 100, y: 50}
`), 0o644))
	p := params{in: in, out: filepath.Join(dir, "out.jpg"), events: events}
	require.NoError(t, run(p, config.Default(), zaptest.NewLogger(t)))

	got, err := imaging.Open(p.out)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(50, 100), got.Bounds().Size())
}

func TestRun_bmpStream(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "in.bmp")
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	rand.New(rand.NewSource(1)).Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	f, err := os.Create(raw)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, img))
	require.NoError(t, f.Close())
	require.NoError(t, store.Compress(raw, raw))

	cfg := config.Default()
	cfg.Engine = config.EngineBMP
	p := params{in: raw + store.Ext, out: filepath.Join(dir, "out.bmp"), view: "32x24", rect: "4,4,8,6"}
	require.NoError(t, run(p, cfg, zaptest.NewLogger(t)))

	got, err := imaging.Open(p.out)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(16, 12), got.Bounds().Size())

	// no selection: the input is copied as is
	p.rect = ""
	require.NoError(t, run(p, cfg, zaptest.NewLogger(t)))
	got, err = imaging.Open(p.out)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(64, 48), got.Bounds().Size())
}

func TestRun_vipsFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	img := saveRandom(t, in, 40, 30)
	cfg := config.Default()
	cfg.Engine = config.EngineVipsFile

	// no selection: the input is copied as is
	p := params{in: in, out: filepath.Join(dir, "whole.png")}
	require.NoError(t, run(p, cfg, zaptest.NewLogger(t)))
	got, err := imaging.Open(p.out)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, imaging.Clone(got).Pix)

	// a selection touching the far edges
	p = params{in: in, out: filepath.Join(dir, "edge.tif"), rect: "20,10,20,20"}
	require.NoError(t, run(p, cfg, zaptest.NewLogger(t)))
	got, err = imaging.Open(p.out)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(20, 20), got.Bounds().Size())

	require.NoError(t, store.Compress(in, in))
	p = params{in: in + store.Ext, out: filepath.Join(dir, "o.png")}
	assert.ErrorContains(t, run(p, cfg, zaptest.NewLogger(t)), "plain input")
}

func TestRun_errors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	saveRandom(t, in, 10, 10)
	log := zaptest.NewLogger(t)

	assert.Error(t, run(params{in: filepath.Join(dir, "missing.png"), out: filepath.Join(dir, "o.png")}, config.Default(), log))
	assert.Error(t, run(params{in: in, out: filepath.Join(dir, "o.png"), orientation: "sideways"}, config.Default(), log))
	assert.Error(t, run(params{in: in, out: filepath.Join(dir, "o.png"), view: "wide"}, config.Default(), log))
	assert.Error(t, run(params{in: in, out: filepath.Join(dir, "o.unknown"), rect: "1,1,2,2"}, config.Default(), log))
}

func TestParse(t *testing.T) {
	s, err := parseSize("375X667")
	require.NoError(t, err)
	assert.Equal(t, geom.Sz(375, 667), s)
	for _, bad := range []string{"375", "0x10", "ax10"} {
		_, err := parseSize(bad)
		assert.Error(t, err, bad)
	}

	r, err := parseRect("1, 2.5,3,4")
	require.NoError(t, err)
	assert.Equal(t, geom.Rc(1, 2.5, 3, 4), r)
	_, err = parseRect("1,2,3")
	assert.Error(t, err)
	_, err = parseRect("1,2,3,x")
	assert.Error(t, err)
}

package boundary

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebnyberg/cropview/geom"
)

var frame = geom.Sz(300, 200)

func TestShrink(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   geom.Rect
		want geom.Rect
	}{
		{"inside", geom.Rc(10, 10, 50, 50), geom.Rc(10, 10, 50, 50)},
		{"exactly on bound", geom.Rc(0, 0, 300, 200), geom.Rc(0, 0, 300, 200)},
		{"past left", geom.Rc(-20, 10, 50, 50), geom.Rc(0, 10, 30, 50)},
		{"past top", geom.Rc(10, -5, 50, 50), geom.Rc(10, 0, 50, 45)},
		{"past right", geom.Rc(280, 10, 50, 50), geom.Rc(280, 10, 20, 50)},
		{"past bottom", geom.Rc(10, 180, 50, 50), geom.Rc(10, 180, 50, 20)},
		{"past all edges", geom.Rc(-10, -10, 400, 400), geom.Rc(0, 0, 300, 200)},
		{"entirely outside", geom.Rc(350, 250, 10, 10), geom.Rc(300, 200, 0, 0)},
		{"sentinel", geom.Sentinel, geom.Rc(0, 0, 0, 0)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Shrink(tc.in, frame))
		})
	}
}

func TestTranslate(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   geom.Rect
		want geom.Rect
	}{
		{"inside", geom.Rc(10, 10, 50, 50), geom.Rc(10, 10, 50, 50)},
		{"past left", geom.Rc(-20, 10, 50, 50), geom.Rc(0, 10, 50, 50)},
		{"past top", geom.Rc(10, -5, 50, 50), geom.Rc(10, 0, 50, 50)},
		{"past right", geom.Rc(280, 10, 50, 50), geom.Rc(250, 10, 50, 50)},
		{"past bottom", geom.Rc(10, 180, 50, 50), geom.Rc(10, 150, 50, 50)},
		{"past bottom right", geom.Rc(1000, 1000, 50, 50), geom.Rc(250, 150, 50, 50)},
		{"larger than bound", geom.Rc(-5, 0, 350, 10), geom.Rc(-50, 0, 350, 10)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Translate(tc.in, frame))
		})
	}
}

func randRect(rnd *rand.Rand) geom.Rect {
	return geom.Rc(
		rnd.Float64()*800-250, rnd.Float64()*800-250,
		rnd.Float64()*400, rnd.Float64()*400,
	)
}

func TestShrink_invariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 5000; i++ {
		in := randRect(rnd)
		got := Shrink(in, frame)
		require.GreaterOrEqual(t, got.Origin.X, 0.0)
		require.GreaterOrEqual(t, got.Origin.Y, 0.0)
		require.GreaterOrEqual(t, got.Size.W, 0.0)
		require.GreaterOrEqual(t, got.Size.H, 0.0)
		require.LessOrEqual(t, got.Max().X, frame.W+1e-9)
		require.LessOrEqual(t, got.Max().Y, frame.H+1e-9)
		if in.Origin.X >= 0 && in.Origin.Y >= 0 && in.Max().X <= frame.W && in.Max().Y <= frame.H {
			require.Equal(t, in, got)
		}
	}
}

func TestTranslate_invariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(13))
	for i := 0; i < 5000; i++ {
		in := randRect(rnd)
		got := Translate(in, frame)
		require.Equal(t, in.Size, got.Size)
		if in.Size.W <= frame.W && in.Size.H <= frame.H {
			require.GreaterOrEqual(t, got.Origin.X, -1e-9)
			require.GreaterOrEqual(t, got.Origin.Y, -1e-9)
			require.LessOrEqual(t, got.Max().X, frame.W+1e-9)
			require.LessOrEqual(t, got.Max().Y, frame.H+1e-9)
		}
	}
}

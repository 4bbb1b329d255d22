package store

import (
	"bytes"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOpen(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	data := make([]byte, 1<<16)
	rnd.Read(data)
	dir := t.TempDir()

	for _, compress := range []bool{false, true} {
		w, path, err := Create(filepath.Join(dir, "out.bmp"), compress)
		require.NoError(t, err)
		assert.Equal(t, compress, IsCompressed(path))
		_, err = w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		r, err := Open(path)
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(data, got))

		// seeking works on compressed files too
		_, err = r.Seek(1000, io.SeekStart)
		require.NoError(t, err)
		buf := make([]byte, 16)
		_, err = io.ReadFull(r, buf)
		require.NoError(t, err)
		assert.Equal(t, data[1000:1016], buf)
		require.NoError(t, r.Close())
	}
}

func TestCompress(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "img.bmp")
	require.NoError(t, os.WriteFile(src, []byte("BM not really a bitmap"), 0o644))
	require.NoError(t, Compress(src, filepath.Join(dir, "img.bmp")))

	r, err := Open(filepath.Join(dir, "img.bmp.zst"))
	require.NoError(t, err)
	defer r.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "BM not really a bitmap", string(got))
}

func TestOpen_missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.zst"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

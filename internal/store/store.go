// Package store opens crop sources and creates crop outputs, transparently
// handling seekable zstd (.zst) files.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	seekable "github.com/SaveTheRbtz/zstd-seekable-format-go"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/multierr"
)

// Ext marks a seekable zstd file.
const Ext = ".zst"

// Source is an opened input. Streaming croppers seek within it.
type Source interface {
	io.ReadSeeker
	io.Closer
}

// Open opens path for reading. Files ending in .zst are decompressed on the
// fly and remain seekable.
func Open(path string) (Source, error) {
	path = filepath.Clean(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %q err, %w", path, err)
	}
	if !IsCompressed(path) {
		return f, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("new zstd decoder err, %w", err), f.Close())
	}
	r, err := seekable.NewReader(f, dec)
	if err != nil {
		dec.Close()
		return nil, multierr.Append(fmt.Errorf("open seekable zstd %q err, %w", path, err), f.Close())
	}
	return &zstSource{ReadSeeker: r, f: f, dec: dec}, nil
}

type zstSource struct {
	io.ReadSeeker
	f   *os.File
	dec *zstd.Decoder
}

func (s *zstSource) Close() error {
	var err error
	if c, ok := s.ReadSeeker.(io.Closer); ok {
		err = c.Close()
	}
	s.dec.Close()
	return multierr.Append(err, s.f.Close())
}

// IsCompressed reports whether path names a seekable zstd file.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Ext)
}

// Create creates path for writing. When compress is set, the output is
// written as seekable zstd and ".zst" is appended unless already present.
// It returns the path actually written.
func Create(path string, compress bool) (io.WriteCloser, string, error) {
	if compress && !IsCompressed(path) {
		path += Ext
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return nil, path, fmt.Errorf("create file %q err, %w", path, err)
	}
	if !compress {
		return f, path, nil
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, path, multierr.Append(fmt.Errorf("new zstd encoder err, %w", err), f.Close())
	}
	w, err := seekable.NewWriter(f, enc)
	if err != nil {
		return nil, path, multierr.Combine(fmt.Errorf("new seekable writer err, %w", err), enc.Close(), f.Close())
	}
	return &zstSink{w: w, enc: enc, f: f}, path, nil
}

type zstSink struct {
	w   io.WriteCloser
	enc *zstd.Encoder
	f   *os.File
}

func (s *zstSink) Write(p []byte) (int, error) { return s.w.Write(p) }

// Close writes the seek table and closes the file.
func (s *zstSink) Close() error {
	return multierr.Combine(s.w.Close(), s.enc.Close(), s.f.Close())
}

// Compress writes a seekable zstd copy of src to dst.
func Compress(src, dst string) (err error) {
	in, err := Open(src)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, in.Close()) }()
	out, _, err := Create(dst, true)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, out.Close()) }()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("compress %q err, %w", src, err)
	}
	return nil
}

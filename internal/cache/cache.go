package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// DefaultMaxAge is default staleness threshold of cached payloads.
const DefaultMaxAge = 24 * time.Hour

const imagesDir = "images"

// Option is custom configuration of Dir.
type Option func(d *Dir)

// Dir is local on-disk cache directory of a single source.
// Writes are atomic: content is written into temporary file and renamed,
// so concurrent writers never leave a partially written file and the last rename wins.
type Dir struct {
	root   string
	maxAge time.Duration
	now    func() time.Time
}

// NewDir returns new Dir rooted at provided path.
func NewDir(root string, maxAge time.Duration, ops ...Option) *Dir {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	dir := &Dir{
		root:   root,
		maxAge: maxAge,
		now:    time.Now,
	}

	for _, op := range ops {
		op(dir)
	}

	return dir
}

// Path returns path of cached file with provided name.
func (d *Dir) Path(name string) string {
	return filepath.Join(d.root, filepath.Clean("/"+name))
}

// ImagePath returns path of cached image with provided filename.
func (d *Dir) ImagePath(filename string) string {
	return d.Path(filepath.Join(imagesDir, filename))
}

// Fresh reports whether cached file exists and is younger than staleness threshold.
func (d *Dir) Fresh(name string) bool {
	info, err := os.Stat(d.Path(name))
	if err != nil || info.IsDir() {
		return false
	}

	return d.now().Sub(info.ModTime()) < d.maxAge
}

// Open opens cached file for reading. The caller is responsible for closing returned file.
func (d *Dir) Open(name string) (*os.File, error) {
	f, err := os.Open(d.Path(name))
	if err != nil {
		return nil, fmt.Errorf("can't open cached file: %w", err)
	}

	return f, nil
}

// Write atomically replaces cached file with content written by fill.
// Cached file is left untouched when fill fails.
func (d *Dir) Write(name string, fill func(w io.Writer) error) (err error) {
	target := d.Path(name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("can't create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("can't create temporary cache file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		_ = tmp.Close()
		return err
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("can't close temporary cache file: %w", err)
	}

	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("can't replace cached file: %w", err)
	}

	return nil
}

// WithClock sets custom time source used for staleness checks.
func WithClock(now func() time.Time) Option {
	return func(d *Dir) {
		d.now = now
	}
}

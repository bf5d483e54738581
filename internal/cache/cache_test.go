package cache_test

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestUnitDirFresh(t *testing.T) {
	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		write   bool
		modTime time.Time
		want    bool
	}{
		"missing file": {
			want: false,
		},
		"fresh file": {
			write:   true,
			modTime: now.Add(-23 * time.Hour),
			want:    true,
		},
		"stale file": {
			write:   true,
			modTime: now.Add(-24 * time.Hour),
			want:    false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := cache.NewDir(t.TempDir(), cache.DefaultMaxAge, cache.WithClock(func() time.Time { return now }))

			if tt.write {
				require.NoError(t, dir.Write("products.xml", writeString("<x/>")), "shouldn't fail writing")
				require.NoError(t, os.Chtimes(dir.Path("products.xml"), tt.modTime, tt.modTime), "can't set mtime")
			}

			assert.Equal(t, tt.want, dir.Fresh("products.xml"), "should report correct freshness")
		})
	}
}

func TestUnitDirWrite(t *testing.T) {
	dir := cache.NewDir(t.TempDir(), 0)

	require.NoError(t, dir.Write("products.xml", writeString("first")), "shouldn't fail first write")
	require.NoError(t, dir.Write("products.xml", writeString("second")), "shouldn't fail second write")

	err := dir.Write("products.xml", func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError, "should return fill error")

	assert.Equal(t, "second", readCached(t, dir, "products.xml"), "should keep last complete content")

	entries, err := os.ReadDir(filepath.Dir(dir.Path("products.xml")))
	require.NoError(t, err, "can't list cache dir")
	assert.Len(t, entries, 1, "shouldn't leave temporary files")
}

func TestUnitDirWriteImage(t *testing.T) {
	dir := cache.NewDir(t.TempDir(), 0)

	require.NoError(t, dir.Write(filepath.Join("images", "a.jpg"), writeString("jpg")), "shouldn't fail writing image")

	content, err := os.ReadFile(dir.ImagePath("a.jpg"))
	require.NoError(t, err, "should create images subdirectory")
	assert.Equal(t, "jpg", string(content), "should store image content")
}

func TestUnitDirPathEscape(t *testing.T) {
	root := t.TempDir()
	dir := cache.NewDir(root, 0)

	assert.True(t, strings.HasPrefix(dir.Path("../../etc/passwd"), root), "should keep paths inside cache root")
}

func TestUnitDirConcurrentWrites(t *testing.T) {
	dir := cache.NewDir(t.TempDir(), 0)
	writers := 8
	payloads := make([]string, writers)
	for ix := range payloads {
		payloads[ix] = strings.Repeat(fmt.Sprintf("writer-%d;", ix), 20000)
	}

	var eg errgroup.Group
	for ix := range payloads {
		payload := payloads[ix]
		eg.Go(func() error {
			return dir.Write("products.xml", func(w io.Writer) error {
				// small chunks interleave writers
				for _, chunk := range bytes.SplitAfter([]byte(payload), []byte(";")) {
					if _, err := w.Write(chunk); err != nil {
						return err
					}
				}
				return nil
			})
		})
	}
	require.NoError(t, eg.Wait(), "concurrent writes shouldn't fail")

	assert.Contains(t, payloads, readCached(t, dir, "products.xml"),
		"cached file should contain exactly one complete payload",
	)
}

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func readCached(t *testing.T, dir *cache.Dir, name string) string {
	t.Helper()

	f, err := dir.Open(name)
	require.NoError(t, err, "can't open cached file")
	defer f.Close()

	content, err := io.ReadAll(f)
	require.NoError(t, err, "can't read cached file")

	return string(content)
}

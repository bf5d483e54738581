package connector

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
)

var (
	errNoArchive      = errors.New("no zip archive found")
	errMemberNotFound = errors.New("archive member not found")
)

// downloadArchive fetches newest zip archive of remote directory and extracts configured member into cache.
// Archive names are expected to sort chronologically, the last one is the newest.
func (s *Source) downloadArchive(ctx context.Context, kind models.PayloadKind) error {
	op := "fetch " + string(kind) + " archive"
	dir := s.cred.Archive.Dir
	if dir == "" {
		dir = s.cred.Path
	}

	var files []string
	err := s.withTokenRetry(ctx, func() error {
		var err error
		files, err = s.data.List(ctx, dir)
		return err
	})
	if err != nil {
		return err
	}

	archives := slices.DeleteFunc(files, func(name string) bool {
		return !strings.EqualFold(path.Ext(name), ".zip")
	})
	if len(archives) == 0 {
		return platform.NewError(s.cred.ID, op, platform.ErrFetch, fmt.Errorf("%w in %s", errNoArchive, dir))
	}
	slices.Sort(archives)
	newest := archives[len(archives)-1]

	archiveName := string(kind) + ".zip"
	if err := s.fetchToCache(ctx, path.Join(dir, newest), archiveName); err != nil {
		return err
	}

	s.logger.Info().Str("operation", op).Str("archive", newest).Msg("archive fetched")

	if err := s.extract(archiveName, s.cred.Archive.Member, s.cacheName(kind)); err != nil {
		return platform.NewError(s.cred.ID, op, platform.ErrFetch, err)
	}
	return nil
}

// extract copies archive member into cached file.
func (s *Source) extract(archiveName, member, name string) error {
	archive, err := zip.OpenReader(s.cache.Path(archiveName))
	if err != nil {
		return fmt.Errorf("can't open archive: %w", err)
	}
	defer archive.Close()

	for _, file := range archive.File {
		if path.Base(file.Name) != member {
			continue
		}

		return s.cache.Write(name, func(w io.Writer) error {
			content, err := file.Open()
			if err != nil {
				return fmt.Errorf("can't open archive member: %w", err)
			}
			defer content.Close()

			if _, err := io.Copy(w, content); err != nil {
				return fmt.Errorf("can't extract archive member: %w", err)
			}
			return nil
		})
	}

	return fmt.Errorf("%w: %s", errMemberNotFound, member)
}

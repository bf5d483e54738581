package images

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog"
)

//go:generate mockery --name MediaStore --filename mediastore.go

// MediaStore registers image assets and assigns them to catalog entries.
type MediaStore interface {
	// FindMediaByFilename returns id of media registered under filename.
	FindMediaByFilename(ctx context.Context, filename string) (int64, bool, error)
	// RegisterMedia stores image content under filename and returns its id.
	RegisterMedia(ctx context.Context, filename string, content []byte) (int64, error)
	SetPrimaryImage(ctx context.Context, entryID, mediaID int64) error
	SetGalleryImages(ctx context.Context, entryID int64, mediaIDs []int64) error
}

// FetchFunc returns content of referenced image.
type FetchFunc func(ctx context.Context, ref string) ([]byte, error)

// Importer imports product images into media store.
type Importer struct {
	store  MediaStore
	logger zerolog.Logger
}

// NewImporter returns new Importer.
func NewImporter(store MediaStore, logger *zerolog.Logger) *Importer {
	return &Importer{
		store:  store,
		logger: logger.With().Str("component", "images").Logger(),
	}
}

// Import registers images of catalog entry and returns their media ids in reference order.
// Images already registered under the same filename are reused without fetching.
// Failures of single images are logged and skipped. First imported image becomes primary image,
// the rest becomes gallery.
func (i *Importer) Import(ctx context.Context, entryID int64, refs []string, fetch FetchFunc) ([]int64, error) {
	logger := i.logger.With().Int64("entry_id", entryID).Logger()

	ids := make([]int64, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		filename := Filename(ref)
		if filename == "" {
			continue
		}
		if _, ok := seen[filename]; ok {
			continue
		}
		seen[filename] = struct{}{}

		id, err := i.importImage(ctx, ref, filename, fetch)
		if err != nil {
			logger.Warn().Err(err).Str("image", ref).Msg("can't import image, skipping")
			continue
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return ids, nil
	}

	if err := i.store.SetPrimaryImage(ctx, entryID, ids[0]); err != nil {
		return ids, fmt.Errorf("can't set primary image: %w", err)
	}
	if err := i.store.SetGalleryImages(ctx, entryID, ids[1:]); err != nil {
		return ids, fmt.Errorf("can't set gallery images: %w", err)
	}

	return ids, nil
}

func (i *Importer) importImage(ctx context.Context, ref, filename string, fetch FetchFunc) (int64, error) {
	id, found, err := i.store.FindMediaByFilename(ctx, filename)
	if err != nil {
		return 0, fmt.Errorf("can't find media: %w", err)
	}
	if found {
		return id, nil
	}

	content, err := fetch(ctx, ref)
	if err != nil {
		return 0, fmt.Errorf("can't fetch image: %w", err)
	}

	id, err = i.store.RegisterMedia(ctx, filename, content)
	if err != nil {
		return 0, fmt.Errorf("can't register media: %w", err)
	}
	return id, nil
}

// Filename returns filename of image reference, which is base of url path for urls.
func Filename(ref string) string {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		if u, err := url.Parse(ref); err == nil {
			ref = u.Path
		}
	}

	name := path.Base("/" + ref)
	if name == "/" || name == "." {
		return ""
	}
	return name
}

package connector

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/MichalMitros/catalog-bridge/internal/images"
	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
)

// ImagesFor returns image references of product.
// API sources query images endpoint, where {sku} and {id} are replaced with product sku and native id.
// Sources with image server list its directory for files named <sku>_*.jpg.
func (s *Source) ImagesFor(ctx context.Context, sku, nativeID string) ([]string, error) {
	op := "images for " + sku
	if err := s.checkUsable(op); err != nil {
		return nil, err
	}

	if endpoint, ok := s.cred.Endpoints[models.PayloadImages]; ok {
		return s.imagesFromEndpoint(ctx, endpoint, sku, nativeID)
	}
	if s.images != nil {
		return s.imagesFromServer(ctx, sku)
	}

	return nil, nil
}

func (s *Source) imagesFromEndpoint(ctx context.Context, endpoint, sku, nativeID string) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	remotePath := strings.NewReplacer(
		"{sku}", url.PathEscape(sku),
		"{id}", url.PathEscape(nativeID),
	).Replace(endpoint)

	var payload bytes.Buffer
	err := s.withTokenRetry(ctx, func() error {
		payload.Reset()
		return s.data.Fetch(ctx, remotePath, &payload)
	})
	if err != nil {
		return nil, s.fail(err)
	}

	record, _ := s.mapping.RecordName(models.PayloadImages, s.format)
	output := make(chan models.RawRecord)
	errc := make(chan error, 1)
	go func() {
		defer close(output)
		errc <- s.decoder.Decode(ctx, &payload, record, output)
	}()

	var refs []string
	for raw := range output {
		if ref := s.mapping.Images.URL.Value(raw); ref != "" {
			refs = append(refs, ref)
		}
	}
	if err := <-errc; err != nil {
		return nil, platform.NewError(s.cred.ID, "images for "+sku, platform.ErrParse, err)
	}

	return refs, nil
}

func (s *Source) imagesFromServer(ctx context.Context, sku string) ([]string, error) {
	if err := s.connectImages(ctx); err != nil {
		return nil, err
	}

	files, err := s.images.List(ctx, s.imagesDir())
	if err != nil {
		return nil, err
	}

	prefix := strings.ToLower(sku + "_")
	refs := slices.DeleteFunc(files, func(name string) bool {
		lower := strings.ToLower(name)
		return !strings.HasPrefix(lower, prefix) || path.Ext(lower) != ".jpg"
	})
	slices.Sort(refs)

	return refs, nil
}

// FetchImage returns image content. Fetched images are cached in images subdirectory of source cache.
// Absolute http(s) references are downloaded directly, other references are fetched from image server
// or from data server when source has no separate image server.
func (s *Source) FetchImage(ctx context.Context, ref string) ([]byte, error) {
	op := "fetch image " + ref
	filename := images.Filename(ref)
	if filename == "" {
		return nil, platform.NewError(s.cred.ID, op, platform.ErrFetch, os.ErrNotExist)
	}
	cacheName := path.Join("images", filename)

	if !s.cache.Fresh(cacheName) {
		var err error
		switch {
		case isURL(ref):
			err = s.cache.Write(cacheName, func(w io.Writer) error {
				return s.web.Fetch(ctx, ref, w)
			})
		case s.images != nil:
			if err = s.connectImages(ctx); err == nil {
				err = s.cache.Write(cacheName, func(w io.Writer) error {
					return s.images.Fetch(ctx, path.Join(s.imagesDir(), ref), w)
				})
			}
		default:
			if err = s.ready(ctx); err == nil {
				err = s.withTokenRetry(ctx, func() error {
					return s.cache.Write(cacheName, func(w io.Writer) error {
						return s.data.Fetch(ctx, s.remotePath(ref), w)
					})
				})
			}
		}
		if err != nil {
			return nil, err
		}
	}

	content, err := os.ReadFile(s.cache.ImagePath(filename))
	if err != nil {
		return nil, platform.NewError(s.cred.ID, op, platform.ErrFetch, err)
	}
	return content, nil
}

func (s *Source) connectImages(ctx context.Context) error {
	s.mu.Lock()
	connected := s.imagesConnected
	s.mu.Unlock()

	if connected {
		return nil
	}
	if err := s.images.Connect(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.imagesConnected = true
	s.mu.Unlock()
	return nil
}

func (s *Source) imagesDir() string {
	if s.cred.Images != nil {
		return s.cred.Images.Path
	}
	return s.cred.Path
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

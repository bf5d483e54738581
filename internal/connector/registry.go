package connector

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/auth"
	"github.com/MichalMitros/catalog-bridge/internal/cache"
	"github.com/MichalMitros/catalog-bridge/internal/mapping"
	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Registry builds connectors of configured sources.
type Registry struct {
	creds     map[string]models.SourceCredential
	mappings  mapping.Mappings
	cacheRoot string
	tokens    auth.TokenCache
	logger    *zerolog.Logger
	ops       []Option
}

// NewRegistry returns new Registry. Options are applied to every built connector.
func NewRegistry(
	creds []models.SourceCredential,
	mappings mapping.Mappings,
	cacheRoot string,
	tokens auth.TokenCache,
	logger *zerolog.Logger,
	ops ...Option,
) *Registry {
	return &Registry{
		creds:     lo.KeyBy(creds, func(c models.SourceCredential) string { return c.ID }),
		mappings:  mappings,
		cacheRoot: cacheRoot,
		tokens:    tokens,
		logger:    logger,
		ops:       ops,
	}
}

// Enabled returns ids of enabled sources in alphabetical order.
func (r *Registry) Enabled() []string {
	ids := lo.FilterMap(lo.Values(r.creds), func(c models.SourceCredential, _ int) (string, bool) {
		return c.ID, c.Enabled
	})
	slices.Sort(ids)
	return ids
}

// Connector returns new connector of source using cache with provided staleness threshold.
// The caller is responsible for closing returned connector.
func (r *Registry) Connector(sourceID string, maxAge time.Duration) (*Source, error) {
	cred, ok := r.creds[sourceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", platform.ErrUnknownSource, sourceID)
	}
	if !cred.Enabled {
		return nil, fmt.Errorf("%w: %s", platform.ErrSourceDisabled, sourceID)
	}

	m, ok := r.mappings[sourceID]
	if !ok {
		return nil, fmt.Errorf("%w: no mapping for %s", platform.ErrUnknownSource, sourceID)
	}

	cacheDir := cred.CacheDir
	if cacheDir == "" {
		cacheDir = sourceID
	}
	dir := cache.NewDir(filepath.Join(r.cacheRoot, filepath.Clean("/"+strings.TrimSpace(cacheDir))), maxAge)

	return New(cred, m, dir, r.tokens, r.logger, r.ops...)
}

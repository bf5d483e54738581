package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MichalMitros/catalog-bridge/cmd/bridge/config"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSources = `
sources:
  - id: axpol
    kind: ftp-xml
    enabled: true
    host: ftp.axpol.com.pl
    username: ${AXPOL_USER}
    password: ${AXPOL_PASSWORD}
    cache_dir: axpol
    endpoints:
      products: axpol_product_data_PL.xml
      stocks: axpol_stocklist_pl.xml
  - id: macma
    kind: api-xml
    enabled: false
    host: http://www.macma.pl/data/webapi/pl/xml
    cache_dir: macma
    timeout: 2m
    endpoints:
      products: offer.xml
`

func TestUnitParseSources(t *testing.T) {
	t.Setenv("AXPOL_USER", "user")
	t.Setenv("AXPOL_PASSWORD", "secret")

	sources, err := config.ParseSources(strings.NewReader(validSources), 30*time.Second)

	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "user", sources[0].Username, "should expand environment variables")
	assert.Equal(t, "secret", sources[0].Password)
	assert.Equal(t, 30*time.Second, sources[0].Timeout, "should set default timeout")
	assert.Equal(t, 2*time.Minute, sources[1].Timeout, "should keep configured timeout")
	assert.Equal(t, "offer.xml", sources[1].Endpoints[models.PayloadProducts])
	assert.False(t, sources[1].Enabled)
}

func TestUnitParseSourcesErrors(t *testing.T) {
	tests := map[string]struct {
		content string
		wantErr string
	}{
		"malformed yaml": {
			content: "sources: [",
			wantErr: "can't decode sources",
		},
		"no sources": {
			content: "sources: []",
			wantErr: "invalid sources",
		},
		"unknown kind": {
			content: strings.Replace(validSources, "kind: api-xml", "kind: graphql", 1),
			wantErr: "invalid sources",
		},
		"duplicated id": {
			content: strings.Replace(validSources, "id: macma", "id: axpol", 1),
			wantErr: "invalid sources",
		},
		"unknown payload kind": {
			content: strings.Replace(validSources, "products: offer.xml", "offers: offer.xml", 1),
			wantErr: "invalid sources",
		},
		"missing host": {
			content: strings.Replace(validSources, "host: ftp.axpol.com.pl", "host: ''", 1),
			wantErr: "invalid sources",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.ParseSources(strings.NewReader(tt.content), time.Second)

			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestUnitLoadSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validSources), 0o600))

	sources, err := config.LoadSources(path, time.Second)
	require.NoError(t, err)
	assert.Len(t, sources, 2)

	_, err = config.LoadSources(filepath.Join(t.TempDir(), "missing.yaml"), time.Second)
	require.ErrorContains(t, err, "can't open sources file")
}

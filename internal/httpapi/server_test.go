package httpapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/httpapi"
	"github.com/MichalMitros/catalog-bridge/internal/httpapi/mocks"
	"github.com/MichalMitros/catalog-bridge/internal/metrics"
	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	logger  = zerolog.Nop()
	sources = []string{"axpol", "macma"}
)

func newServer(t *testing.T, cmd *mocks.Commander, operator *mocks.Operator, ops ...httpapi.Option) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(httpapi.NewServer(cmd, operator, sources, &logger, ops...).Router())
	t.Cleanup(server.Close)

	return server
}

func do(t *testing.T, method, url, body string) (int, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.TODO(), method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(respBody)
}

func TestUnitHealth(t *testing.T) {
	server := newServer(t, mocks.NewCommander(t), mocks.NewOperator(t))

	status, body := do(t, http.MethodGet, server.URL+"/health", "")

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestUnitCreateImport(t *testing.T) {
	tests := map[string]struct {
		path       string
		body       string
		setupMock  func(*mocks.Commander)
		wantStatus int
		wantBody   string
	}{
		"import source": {
			path: "/v1/sources/axpol/imports",
			setupMock: func(cmd *mocks.Commander) {
				cmd.On("SendImportCommand", mock.Anything, "axpol").Return(nil).Once()
			},
			wantStatus: http.StatusAccepted,
			wantBody:   `{"sourceId":"axpol","action":"import"}`,
		},
		"prefetch source": {
			path: "/v1/sources/macma/imports",
			body: `{"action":"prefetch"}`,
			setupMock: func(cmd *mocks.Commander) {
				cmd.On("SendPrefetchCommand", mock.Anything, "macma").Return(nil).Once()
			},
			wantStatus: http.StatusAccepted,
			wantBody:   `{"sourceId":"macma","action":"prefetch"}`,
		},
		"import all sources": {
			path: "/v1/imports",
			body: `{"action":"import"}`,
			setupMock: func(cmd *mocks.Commander) {
				cmd.On("SendImportCommand", mock.Anything, "").Return(nil).Once()
			},
			wantStatus: http.StatusAccepted,
			wantBody:   `{"action":"import"}`,
		},
		"unknown source": {
			path:       "/v1/sources/nope/imports",
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"unknown source"}`,
		},
		"invalid action": {
			path:       "/v1/sources/axpol/imports",
			body:       `{"action":"delete"}`,
			wantStatus: http.StatusBadRequest,
		},
		"malformed body": {
			path:       "/v1/sources/axpol/imports",
			body:       `{"action":`,
			wantStatus: http.StatusBadRequest,
		},
		"commander error": {
			path: "/v1/sources/axpol/imports",
			setupMock: func(cmd *mocks.Commander) {
				cmd.On("SendImportCommand", mock.Anything, "axpol").Return(assert.AnError).Once()
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"error":"can't send command"}`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := mocks.NewCommander(t)
			if tt.setupMock != nil {
				tt.setupMock(cmd)
			}
			server := newServer(t, cmd, mocks.NewOperator(t))

			status, body := do(t, http.MethodPost, server.URL+tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, status)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, body)
			}
		})
	}
}

func TestUnitTestConnection(t *testing.T) {
	tests := map[string]struct {
		files      []string
		err        error
		wantStatus int
		wantBody   string
	}{
		"listed files": {
			files:      []string{"products.xml", "stocks.xml"},
			wantStatus: http.StatusOK,
			wantBody:   `{"sourceId":"axpol","files":["products.xml","stocks.xml"]}`,
		},
		"api source without files": {
			wantStatus: http.StatusOK,
			wantBody:   `{"sourceId":"axpol","files":[]}`,
		},
		"connection error": {
			err:        platform.ErrConnection,
			wantStatus: http.StatusBadGateway,
		},
		"disabled source": {
			err:        platform.ErrSourceDisabled,
			wantStatus: http.StatusConflict,
		},
		"unexpected error": {
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			operator := mocks.NewOperator(t)
			operator.On("TestConnection", mock.Anything, "axpol").Return(tt.files, tt.err).Once()
			server := newServer(t, mocks.NewCommander(t), operator)

			status, body := do(t, http.MethodGet, server.URL+"/v1/sources/axpol/connection", "")

			assert.Equal(t, tt.wantStatus, status)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, body)
			}
		})
	}
}

func TestUnitLastRun(t *testing.T) {
	createdAt := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	finishedAt := createdAt.Add(time.Minute)

	operator := mocks.NewOperator(t)
	operator.On("LastRun", mock.Anything, "axpol").Return(&models.Run{
		ID:         3,
		SourceID:   "axpol",
		CreatedAt:  createdAt,
		FinishedAt: &finishedAt,
		IsSuccess:  lo.ToPtr(true),
		Stats:      models.ImportRunStats{Total: 4, Imported: 1, Updated: 2, Errors: 1},
	}, nil).Once()
	operator.On("LastRun", mock.Anything, "macma").Return(nil, platform.ErrNoRuns).Once()
	server := newServer(t, mocks.NewCommander(t), operator)

	status, body := do(t, http.MethodGet, server.URL+"/v1/sources/axpol/runs/last", "")
	require.Equal(t, http.StatusOK, status)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "2024-05-01T10:01:00Z", got["finishedAt"])
	assert.Equal(t, true, got["isSuccess"])
	assert.EqualValues(t, 4, got["total"])
	assert.EqualValues(t, 2, got["updated"])
	assert.NotContains(t, got, "statusMessage")

	status, _ = do(t, http.MethodGet, server.URL+"/v1/sources/macma/runs/last", "")
	assert.Equal(t, http.StatusNotFound, status, "should return not found for source without runs")
}

func TestUnitMetrics(t *testing.T) {
	m := metrics.New()
	server := newServer(t, mocks.NewCommander(t), mocks.NewOperator(t), httpapi.WithMetrics(m.Handler(), m))

	do(t, http.MethodGet, server.URL+"/health", "")
	do(t, http.MethodGet, server.URL+"/v1/sources/nope/runs/last", "")

	status, body := do(t, http.MethodGet, server.URL+"/metrics", "")

	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `catalog_bridge_http_requests_total{method="GET",route="/health",status="2xx"} 1`)
	assert.Contains(t, body, `route="/v1/sources/{source}/`, "should record route pattern instead of path")
	assert.NotContains(t, body, "nope")

	count, err := testutil.GatherAndCount(m.Registry(), "catalog_bridge_http_requests_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 2)
}

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/rs/zerolog"
)

//go:generate mockery --name TokenCache --filename tokencache.go

// defaultTokenLifetime is used when token response has no expires_in.
const defaultTokenLifetime = 24 * time.Hour

var errEmptyAccessToken = errors.New("empty access token")

// TokenCache persists tokens between runs.
type TokenCache interface {
	// Load returns cached token of source or nil when there is none.
	Load(ctx context.Context, source string) (*models.AuthToken, error)
	// Store caches token of source.
	Store(ctx context.Context, source string, token *models.AuthToken) error
}

// Option is custom configuration of Manager.
type Option func(m *Manager)

// Credentials are token endpoint credentials.
type Credentials struct {
	BaseURL  string
	Username string
	Password string
	Auth     models.TokenAuthConfig
}

// Manager acquires, caches and refreshes bearer tokens of a single source.
type Manager struct {
	source string
	creds  Credentials
	client *http.Client
	cache  TokenCache
	logger zerolog.Logger
	now    func() time.Time

	mu    sync.Mutex
	token *models.AuthToken
}

// NewManager returns new Manager.
func NewManager(
	source string,
	creds Credentials,
	client *http.Client,
	cache TokenCache,
	logger *zerolog.Logger,
	ops ...Option,
) *Manager {
	m := &Manager{
		source: source,
		creds:  creds,
		client: client,
		cache:  cache,
		logger: logger.With().Str("source", source).Str("component", "auth").Logger(),
		now:    time.Now,
	}

	for _, op := range ops {
		op(m)
	}

	return m
}

// Authenticate makes sure Manager holds valid token.
// It uses cached token when it's still valid, refreshes expired token
// and falls back to credentials login when there is nothing to refresh or refresh fails.
func (m *Manager) Authenticate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.token.Expired(m.now()) {
		return nil
	}

	if m.token == nil {
		cached, err := m.cache.Load(ctx, m.source)
		if err != nil {
			m.logger.Warn().Err(err).Msg("can't load cached token")
		}
		m.token = cached
	}

	if !m.token.Expired(m.now()) {
		return nil
	}

	return m.refreshOrLogin(ctx)
}

// Refresh replaces current token after it was rejected by API.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.refreshOrLogin(ctx)
}

// Authorize sets bearer token header, authenticating first when needed.
func (m *Manager) Authorize(ctx context.Context, req *http.Request) error {
	if err := m.Authenticate(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	req.Header.Set("Authorization", "Bearer "+m.token.AccessToken)
	m.mu.Unlock()

	return nil
}

func (m *Manager) refreshOrLogin(ctx context.Context) error {
	if m.token != nil && m.token.RefreshToken != "" {
		err := m.requestToken(ctx, "refresh", m.creds.Auth.RefreshPath, map[string]string{
			"refreshToken": m.token.RefreshToken,
		})
		if err == nil {
			return nil
		}
		m.logger.Warn().Err(err).Msg("token refresh failed, logging in again")
	}

	return m.requestToken(ctx, "login", m.creds.Auth.LoginPath, map[string]string{
		"username": m.creds.Username,
		"password": m.creds.Password,
	})
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (m *Manager) requestToken(ctx context.Context, op, endpoint string, payload map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return platform.NewError(m.source, op, platform.ErrAuth, fmt.Errorf("can't marshal request: %w", err))
	}

	url := strings.TrimSuffix(m.creds.BaseURL, "/") + "/" + strings.TrimPrefix(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return platform.NewError(m.source, op, platform.ErrAuth, fmt.Errorf("can't build http request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return platform.NewError(m.source, op, platform.ErrAuth, fmt.Errorf("can't get http response: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return platform.NewError(m.source, op, platform.ErrAuth, fmt.Errorf("unexpected response status %d", resp.StatusCode))
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return platform.NewError(m.source, op, platform.ErrAuth, fmt.Errorf("can't decode token response: %w", err))
	}

	if tokenResp.AccessToken == "" {
		return platform.NewError(m.source, op, platform.ErrAuth, errEmptyAccessToken)
	}

	lifetime := time.Duration(tokenResp.ExpiresIn) * time.Second
	if lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}

	refreshToken := tokenResp.RefreshToken
	if refreshToken == "" && m.token != nil {
		// refresh responses may omit refresh token, which stays valid then
		refreshToken = m.token.RefreshToken
	}

	m.token = &models.AuthToken{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    m.now().Add(lifetime),
	}

	if err := m.cache.Store(ctx, m.source, m.token); err != nil {
		m.logger.Warn().Err(err).Msg("can't cache token")
	}

	m.logger.Debug().
		Str("operation", op).
		Time("expiresAt", m.token.ExpiresAt).
		Msg("token acquired")

	return nil
}

// WithClock sets custom time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

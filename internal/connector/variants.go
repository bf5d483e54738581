package connector

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/auth"
	"github.com/MichalMitros/catalog-bridge/internal/cache"
	"github.com/MichalMitros/catalog-bridge/internal/decoder"
	"github.com/MichalMitros/catalog-bridge/internal/mapping"
	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/MichalMitros/catalog-bridge/internal/transport"
	"github.com/rs/zerolog"
)

// UserAgent is sent with every http request.
const UserAgent = "catalog-bridge/1.0"

// Option is custom configuration of Source.
type Option func(s *Source)

// NewFTPXMLSource returns source serving xml files from FTP server.
func NewFTPXMLSource(
	cred models.SourceCredential,
	m mapping.Mapping,
	dir *cache.Dir,
	logger *zerolog.Logger,
	ops ...Option,
) *Source {
	s := newSource(cred, m, dir, logger, models.FormatXML)
	s.fileBased = true
	s.data = transport.NewFTP(cred.ID, fileServerConfig(cred))

	return s.apply(ops)
}

// NewSFTPXMLSource returns source serving xml files from SFTP server.
func NewSFTPXMLSource(
	cred models.SourceCredential,
	m mapping.Mapping,
	dir *cache.Dir,
	logger *zerolog.Logger,
	ops ...Option,
) *Source {
	s := newSource(cred, m, dir, logger, models.FormatXML)
	s.fileBased = true
	s.data = transport.NewSFTP(cred.ID, fileServerConfig(cred), logger)

	return s.apply(ops)
}

// NewAPIXMLSource returns source serving xml or json over http with optional basic auth.
func NewAPIXMLSource(
	cred models.SourceCredential,
	m mapping.Mapping,
	dir *cache.Dir,
	logger *zerolog.Logger,
	ops ...Option,
) *Source {
	format := cred.Format
	if format == "" {
		format = models.FormatXML
	}

	s := newSource(cred, m, dir, logger, format)
	httpOps := []transport.HTTPOption{
		transport.WithRateLimit(cred.RateLimit),
		transport.WithHeaders(cred.Headers),
	}
	if cred.Username != "" {
		httpOps = append(httpOps, transport.WithAuthorizer(transport.BasicAuth{
			Username: cred.Username,
			Password: cred.Password,
		}))
	}
	s.data = transport.NewHTTP(cred.ID, httpClient(cred), cred.Host, UserAgent, httpOps...)

	return s.apply(ops)
}

// NewAPIJSONTokenSource returns source serving json over http authenticated with bearer tokens.
// Tokens are cached in tokens cache between runs.
func NewAPIJSONTokenSource(
	cred models.SourceCredential,
	m mapping.Mapping,
	dir *cache.Dir,
	tokens auth.TokenCache,
	logger *zerolog.Logger,
	ops ...Option,
) *Source {
	s := newSource(cred, m, dir, logger, models.FormatJSON)
	client := httpClient(cred)

	var authCfg models.TokenAuthConfig
	if cred.Auth != nil {
		authCfg = *cred.Auth
	}
	manager := auth.NewManager(cred.ID, auth.Credentials{
		BaseURL:  cred.Host,
		Username: cred.Username,
		Password: cred.Password,
		Auth:     authCfg,
	}, client, tokens, logger)

	s.tokens = manager
	s.data = transport.NewHTTP(cred.ID, client, cred.Host, UserAgent,
		transport.WithAuthorizer(manager),
		transport.WithRateLimit(cred.RateLimit),
		transport.WithHeaders(cred.Headers),
	)

	return s.apply(ops)
}

// New returns source variant matching credential kind.
func New(
	cred models.SourceCredential,
	m mapping.Mapping,
	dir *cache.Dir,
	tokens auth.TokenCache,
	logger *zerolog.Logger,
	ops ...Option,
) (*Source, error) {
	switch cred.Kind {
	case models.KindFTPXML:
		return NewFTPXMLSource(cred, m, dir, logger, ops...), nil
	case models.KindSFTPXML:
		return NewSFTPXMLSource(cred, m, dir, logger, ops...), nil
	case models.KindAPIXML:
		return NewAPIXMLSource(cred, m, dir, logger, ops...), nil
	case models.KindAPIJSONToken:
		return NewAPIJSONTokenSource(cred, m, dir, tokens, logger, ops...), nil
	default:
		return nil, fmt.Errorf("%w: kind %q of source %s", platform.ErrUnknownSource, cred.Kind, cred.ID)
	}
}

func newSource(
	cred models.SourceCredential,
	m mapping.Mapping,
	dir *cache.Dir,
	logger *zerolog.Logger,
	format string,
) *Source {
	s := &Source{
		cred:    cred,
		mapping: m,
		format:  format,
		cache:   dir,
		decoder: decoderFor(format),
		logger:  logger.With().Str("source", cred.ID).Str("component", "connector").Logger(),
		state:   StateUnauthenticated,
	}
	s.web = transport.NewHTTP(cred.ID, httpClient(cred), "", UserAgent)

	if cred.Images != nil {
		imagesCfg := transport.FileServerConfig{
			Host:     cred.Images.Host,
			Port:     cred.Images.Port,
			Username: cred.Images.Username,
			Password: cred.Images.Password,
			Timeout:  cred.Timeout,
		}
		if cred.Images.Protocol == "sftp" {
			s.images = transport.NewSFTP(cred.ID, imagesCfg, logger)
		} else {
			s.images = transport.NewFTP(cred.ID, imagesCfg)
		}
	}

	return s
}

func (s *Source) apply(ops []Option) *Source {
	for _, op := range ops {
		op(s)
	}
	return s
}

func decoderFor(format string) Decoder {
	if format == models.FormatJSON {
		return decoder.JSONDecoder{}
	}
	return decoder.XMLDecoder{}
}

func fileServerConfig(cred models.SourceCredential) transport.FileServerConfig {
	return transport.FileServerConfig{
		Host:        cred.Host,
		Port:        cred.Port,
		Username:    cred.Username,
		Password:    cred.Password,
		Timeout:     cred.Timeout,
		DisableEPSV: cred.DisableEPSV,
		HostKey:     cred.HostKey,
	}
}

func httpClient(cred models.SourceCredential) *http.Client {
	timeout := cred.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return transport.NewHTTPClient(timeout, cred.InsecureTLS)
}

// WithTransport sets data transport.
func WithTransport(t Transport) Option {
	return func(s *Source) {
		s.data = t
	}
}

// WithImageTransport sets image server transport.
func WithImageTransport(t Transport) Option {
	return func(s *Source) {
		s.images = t
	}
}

// WithWebTransport sets transport used for absolute image urls.
func WithWebTransport(t Transport) Option {
	return func(s *Source) {
		s.web = t
	}
}

// WithTokenManager sets token manager of token-authenticated source.
func WithTokenManager(m TokenManager) Option {
	return func(s *Source) {
		s.tokens = m
	}
}

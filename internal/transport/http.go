package transport

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"golang.org/x/time/rate"
)

// Authorizer authorizes outgoing http requests.
type Authorizer interface {
	Authorize(ctx context.Context, req *http.Request) error
}

// BasicAuth authorizes requests with basic auth credentials.
type BasicAuth struct {
	Username string
	Password string
}

// Authorize sets basic auth header.
func (a BasicAuth) Authorize(_ context.Context, req *http.Request) error {
	req.SetBasicAuth(a.Username, a.Password)
	return nil
}

// HTTPOption is custom configuration of HTTP.
type HTTPOption func(h *HTTP)

// HTTP builds http requests and fetches resources via http.
type HTTP struct {
	source     string
	client     *http.Client
	baseURL    string
	userAgent  string
	authorizer Authorizer
	limiter    *rate.Limiter
	headers    map[string]string
}

// NewHTTP returns new HTTP transport resolving relative paths against baseURL.
func NewHTTP(source string, client *http.Client, baseURL, userAgent string, ops ...HTTPOption) *HTTP {
	h := &HTTP{
		source:    source,
		client:    client,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
	}

	for _, op := range ops {
		op(h)
	}

	return h
}

// NewHTTPClient returns http client with provided timeout and optionally disabled TLS verification.
func NewHTTPClient(timeout time.Duration, insecureTLS bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in per source
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Connect is no-op, http connections are managed by http client.
func (h *HTTP) Connect(context.Context) error {
	return nil
}

// List is not supported by http transport.
func (h *HTTP) List(context.Context, string) ([]string, error) {
	return nil, platform.NewError(h.source, "list", platform.ErrFetch, ErrNotSupported)
}

// Fetch copies resource found under remotePath into sink.
// remotePath can be absolute url or path relative to base url.
func (h *HTTP) Fetch(ctx context.Context, remotePath string, sink io.Writer) error {
	url := h.resolve(remotePath)

	body, err := h.open(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	n, err := io.Copy(sink, body)
	if err != nil {
		return platform.NewError(h.source, "fetch "+url, platform.ErrFetch, fmt.Errorf("can't read response: %w", err))
	}

	if n == 0 {
		return platform.NewError(h.source, "fetch "+url, platform.ErrFetch, ErrEmptyBody)
	}

	return nil
}

// Close is no-op.
func (h *HTTP) Close() error {
	return nil
}

// open returns ReadCloser with resource fetched from provided url or error.
// The caller is responsible for closing returned ReadCloser.
func (h *HTTP) open(ctx context.Context, url string) (io.ReadCloser, error) {
	op := "fetch " + url

	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, platform.NewError(h.source, op, platform.ErrFetch, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, platform.NewError(h.source, op, platform.ErrFetch, fmt.Errorf("can't build http request: %w", err))
	}

	req.Header.Add("Accept", "application/xml, application/json, */*")
	req.Header.Add("Accept-Encoding", "gzip")
	req.Header.Add("User-Agent", h.userAgent)
	for key, value := range h.headers {
		req.Header.Set(key, value)
	}

	if h.authorizer != nil {
		if err := h.authorizer.Authorize(ctx, req); err != nil {
			return nil, platform.NewError(h.source, op, platform.ErrAuth, err)
		}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, platform.NewError(h.source, op, platform.ErrConnection, fmt.Errorf("can't get http response: %w", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		return nil, platform.NewError(h.source, op, platform.ErrFetch, &StatusError{Code: resp.StatusCode})
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch {
	case mediaType == "text/html":
		_ = resp.Body.Close()
		return nil, platform.NewError(h.source, op, platform.ErrFetch, ErrContentTypeNotSupported)
	case resp.Header.Get("Content-Encoding") == "gzip",
		mediaType == "application/gzip",
		mediaType == "application/x-gzip":
		body, err := decompressResponse(resp.Body)
		if err != nil {
			_ = resp.Body.Close()
			return nil, platform.NewError(h.source, op, platform.ErrFetch, err)
		}
		return body, nil
	default:
		return resp.Body, nil
	}
}

func (h *HTTP) resolve(remotePath string) string {
	if strings.HasPrefix(remotePath, "http://") || strings.HasPrefix(remotePath, "https://") {
		return remotePath
	}
	if remotePath == "" {
		return h.baseURL
	}
	if strings.HasPrefix(remotePath, "?") || strings.HasPrefix(remotePath, ".") {
		return h.baseURL + remotePath
	}
	return h.baseURL + "/" + strings.TrimPrefix(remotePath, "/")
}

// decompressResponse returns io.ReadCloser with decompressed http response and error.
func decompressResponse(response io.ReadCloser) (io.ReadCloser, error) {
	decompressed, err := gzip.NewReader(response)
	if err != nil {
		return nil, fmt.Errorf("can't decompress response: %w", err)
	}

	return &decompressedReadCloser{
		compressed:   response,
		decompressed: decompressed,
	}, nil
}

// decompressedReadCloser wraps decompressed Reader and compressed ReadCloser.
// It reads from decompressed Reader, but closes compressed ReadCloser.
type decompressedReadCloser struct {
	compressed   io.ReadCloser
	decompressed io.Reader
}

// Read reads uncompressed bytes from underlying Reader into p.
func (r decompressedReadCloser) Read(p []byte) (n int, err error) {
	return r.decompressed.Read(p)
}

// Close closes underlying compressed ReadCloser.
func (r decompressedReadCloser) Close() error {
	return r.compressed.Close()
}

// WithAuthorizer sets request Authorizer.
func WithAuthorizer(a Authorizer) HTTPOption {
	return func(h *HTTP) {
		h.authorizer = a
	}
}

// WithRateLimit limits requests to perSecond requests per second.
func WithRateLimit(perSecond float64) HTTPOption {
	return func(h *HTTP) {
		if perSecond <= 0 {
			return
		}
		burst := max(1, int(perSecond))
		h.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithHeaders sets additional request headers.
func WithHeaders(headers map[string]string) HTTPOption {
	return func(h *HTTP) {
		h.headers = headers
	}
}

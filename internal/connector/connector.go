package connector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/MichalMitros/catalog-bridge/internal/cache"
	"github.com/MichalMitros/catalog-bridge/internal/mapping"
	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/MichalMitros/catalog-bridge/internal/transport"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

//go:generate mockery --name Transport --filename transport.go
//go:generate mockery --name TokenManager --filename tokenmanager.go

// testListLimit is maximum number of files returned by connection test.
const testListLimit = 10

// Transport moves raw payloads from remote source.
type Transport interface {
	Connect(ctx context.Context) error
	List(ctx context.Context, dir string) ([]string, error)
	Fetch(ctx context.Context, remotePath string, sink io.Writer) error
	Close() error
}

// TokenManager acquires and refreshes bearer tokens of token-authenticated sources.
type TokenManager interface {
	Authenticate(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// Decoder decodes records named record from r into output channel.
type Decoder interface {
	Decode(ctx context.Context, r io.Reader, record string, output chan<- models.RawRecord) error
}

// State is connector lifecycle state.
type State int

// Connector states.
const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateReady
	StateFetching
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	case StateFetching:
		return "fetching"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Source is connector of a single wholesaler.
// Variants differ in transports, authentication and payload format, which are all set up by constructors.
// Source authenticates and connects lazily, so payloads served from fresh cache never touch remote.
type Source struct {
	cred    models.SourceCredential
	mapping mapping.Mapping
	format  string
	cache   *cache.Dir
	decoder Decoder
	logger  zerolog.Logger

	data   Transport
	images Transport
	web    Transport
	tokens TokenManager
	// fileBased is true for transports serving files from remote directory.
	fileBased bool

	mu              sync.Mutex
	state           State
	dataConnected   bool
	imagesConnected bool
}

// ID returns source id.
func (s *Source) ID() string {
	return s.cred.ID
}

// State returns current connector state.
func (s *Source) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Supports reports whether source serves payload kind.
func (s *Source) Supports(kind models.PayloadKind) bool {
	if kind == models.PayloadImages {
		_, hasEndpoint := s.cred.Endpoints[models.PayloadImages]
		return hasEndpoint || s.images != nil
	}

	_, hasRecord := s.mapping.RecordName(kind, s.format)
	_, hasEndpoint := s.cred.Endpoints[kind]
	return hasRecord && hasEndpoint
}

// FetchRaw returns decoded records of payload kind.
// Fresh cached payload is used without remote fetch and refetched once when it can't be parsed.
// Failed source still serves fresh cached payloads.
func (s *Source) FetchRaw(ctx context.Context, kind models.PayloadKind) ([]models.RawRecord, error) {
	op := "fetch " + string(kind)
	if !s.Supports(kind) || kind == models.PayloadImages {
		return nil, platform.NewError(s.cred.ID, op, platform.ErrFetch, transport.ErrNotSupported)
	}
	if s.State() == StateDone {
		return nil, s.checkUsable(op)
	}

	record, _ := s.mapping.RecordName(kind, s.format)
	name := s.cacheName(kind)
	logger := s.logger.With().Str("operation", op).Logger()

	if s.cache.Fresh(name) {
		records, err := s.parse(ctx, name, record)
		if err == nil {
			logger.Debug().Int("records", len(records)).Msg("using cached payload")
			return records, nil
		}
		logger.Warn().Err(err).Msg("cached payload can't be parsed, refetching")
	}

	if err := s.checkUsable(op); err != nil {
		return nil, err
	}

	if err := s.download(ctx, kind); err != nil {
		return nil, err
	}

	records, err := s.parse(ctx, name, record)
	if err != nil {
		logger.Error().Err(err).Msg("can't parse payload")
		return nil, platform.NewError(s.cred.ID, op, platform.ErrParse, err)
	}

	logger.Info().Int("records", len(records)).Msg("payload fetched")
	return records, nil
}

// Prefetch downloads every supported payload kind into cache regardless of its age.
func (s *Source) Prefetch(ctx context.Context) error {
	var errs []error
	for _, kind := range []models.PayloadKind{
		models.PayloadProducts,
		models.PayloadStocks,
		models.PayloadPrices,
		models.PayloadCategories,
	} {
		if !s.Supports(kind) {
			continue
		}
		if err := s.checkUsable("prefetch"); err != nil {
			return errors.Join(append(errs, err)...)
		}
		if err := s.download(ctx, kind); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Test checks connection to source.
// File transports list up to 10 files of remote directory, APIs fetch products endpoint without caching it.
func (s *Source) Test(ctx context.Context) ([]string, error) {
	if err := s.checkUsable("test"); err != nil {
		return nil, err
	}
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	if s.fileBased {
		var files []string
		err := s.withTokenRetry(ctx, func() error {
			var err error
			files, err = s.data.List(ctx, s.cred.Path)
			return err
		})
		if err != nil {
			return nil, s.fail(err)
		}
		return files[:min(len(files), testListLimit)], nil
	}

	endpoint := s.cred.Endpoints[models.PayloadProducts]
	err := s.withTokenRetry(ctx, func() error {
		return s.data.Fetch(ctx, endpoint, io.Discard)
	})
	if err != nil {
		return nil, s.fail(err)
	}
	return []string{endpoint}, nil
}

// Close releases transports. Source can't be used after Close.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.dataConnected {
		errs = append(errs, s.data.Close())
		s.dataConnected = false
	}
	if s.imagesConnected {
		errs = append(errs, s.images.Close())
		s.imagesConnected = false
	}
	if s.state != StateFailed {
		s.state = StateDone
	}

	return errors.Join(errs...)
}

// download fetches payload kind from remote into cache.
func (s *Source) download(ctx context.Context, kind models.PayloadKind) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	s.setState(StateFetching)
	defer s.setState(StateReady)

	var err error
	if kind == models.PayloadProducts && s.cred.Archive != nil {
		err = s.downloadArchive(ctx, kind)
	} else {
		err = s.fetchToCache(ctx, s.remotePath(s.cred.Endpoints[kind]), s.cacheName(kind))
	}
	if err != nil {
		s.logger.Error().Err(err).Str("operation", "fetch "+string(kind)).Msg("can't fetch payload")
		return s.fail(err)
	}

	return nil
}

// fetchToCache fetches remote file into cached file.
func (s *Source) fetchToCache(ctx context.Context, remotePath, name string) error {
	return s.withTokenRetry(ctx, func() error {
		return s.cache.Write(name, func(w io.Writer) error {
			return s.data.Fetch(ctx, remotePath, w)
		})
	})
}

// withTokenRetry runs fn and, for token-authenticated sources, refreshes token and retries fn exactly once
// when it failed with 401 response.
func (s *Source) withTokenRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || s.tokens == nil || !transport.IsUnauthorized(err) {
		return err
	}

	s.logger.Info().Msg("token rejected, refreshing")
	s.setState(StateAuthenticating)
	if err := s.tokens.Refresh(ctx); err != nil {
		return platform.NewError(s.cred.ID, "refresh token", platform.ErrAuth, err)
	}
	s.setState(StateFetching)

	return fn()
}

// ready authenticates and connects data transport when needed.
func (s *Source) ready(ctx context.Context) error {
	s.mu.Lock()
	state, connected := s.state, s.dataConnected
	s.mu.Unlock()

	if state == StateUnauthenticated && s.tokens != nil {
		s.setState(StateAuthenticating)
		if err := s.tokens.Authenticate(ctx); err != nil {
			return s.fail(platform.NewError(s.cred.ID, "authenticate", platform.ErrAuth, err))
		}
	}

	if !connected {
		if err := s.data.Connect(ctx); err != nil {
			s.forceState(StateFailed)
			return err
		}
		s.mu.Lock()
		s.dataConnected = true
		s.mu.Unlock()
	}

	s.setState(StateReady)
	return nil
}

func (s *Source) checkUsable(op string) error {
	switch s.State() {
	case StateFailed:
		return platform.NewError(s.cred.ID, op, platform.ErrSourceFailed, nil)
	case StateDone:
		return platform.NewError(s.cred.ID, op, platform.ErrSourceFailed, errors.New("connector closed"))
	default:
		return nil
	}
}

// fail moves source into failed state on authentication errors and returns err.
// Connection errors of single requests leave source usable for the following requests.
func (s *Source) fail(err error) error {
	if errors.Is(err, platform.ErrAuth) {
		s.forceState(StateFailed)
	}
	return err
}

func (s *Source) forceState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
}

func (s *Source) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFailed {
		return
	}
	s.state = state
}

// parse decodes cached payload.
func (s *Source) parse(ctx context.Context, name, record string) ([]models.RawRecord, error) {
	f, err := s.cache.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	output := make(chan models.RawRecord)
	var records []models.RawRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(output)
		return s.decoder.Decode(gctx, f, record, output)
	})
	g.Go(func() error {
		for raw := range output {
			records = append(records, raw)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *Source) cacheName(kind models.PayloadKind) string {
	return string(kind) + "." + s.format
}

func (s *Source) remotePath(endpoint string) string {
	if s.fileBased {
		return path.Join(s.cred.Path, endpoint)
	}
	return endpoint
}

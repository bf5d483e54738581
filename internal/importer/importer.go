package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/MichalMitros/catalog-bridge/internal/reconciler"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

//go:generate mockery --name Connector --filename connector.go
//go:generate mockery --name ConnectorFactory --filename connectorfactory.go
//go:generate mockery --name Engine --filename engine.go
//go:generate mockery --name RunStore --filename runstore.go
//go:generate mockery --name Recorder --filename recorder.go

// DefaultPrefetchTimeout limits full catalog download.
const DefaultPrefetchTimeout = 5 * time.Minute

// Connector is source connector used by single import.
type Connector interface {
	reconciler.Connector
	// Prefetch downloads all payloads of source into cache.
	Prefetch(ctx context.Context) error
	// Test checks connection and returns sample of remote files.
	Test(ctx context.Context) ([]string, error)
	Close() error
}

// ConnectorFactory builds connectors of configured sources.
type ConnectorFactory interface {
	Connector(sourceID string, maxAge time.Duration) (Connector, error)
}

// ConnectorFunc is function adapter of ConnectorFactory.
type ConnectorFunc func(sourceID string, maxAge time.Duration) (Connector, error)

// Connector calls f.
func (f ConnectorFunc) Connector(sourceID string, maxAge time.Duration) (Connector, error) {
	return f(sourceID, maxAge)
}

// Engine reconciles source products against catalog.
type Engine interface {
	Run(ctx context.Context, sourceID string, conn reconciler.Connector, opts models.ImportOptions) (models.ImportRunStats, error)
}

// Clock provides times.
type Clock interface {
	// Now returns current UTC time.
	Now() *time.Time
}

// RunStore is storage of import runs.
type RunStore interface {
	// StartRun creates new run if there is no run for provided source running.
	StartRun(ctx context.Context, sourceID string) (*models.Run, error)
	// FinishRun finishes provided run and updates its statistics.
	FinishRun(ctx context.Context, run *models.Run) error
	// LastRun returns latest run of source or platform.ErrNoRuns.
	LastRun(ctx context.Context, sourceID string) (*models.Run, error)
}

// Recorder records finished runs.
type Recorder interface {
	ObserveRun(sourceID string, stats models.ImportRunStats, success bool, duration time.Duration)
}

// Option is custom configuration of Importer.
type Option func(i *Importer)

// Importer runs imports of configured sources.
type Importer struct {
	connectors      ConnectorFactory
	engine          Engine
	runs            RunStore
	opts            models.ImportOptions
	prefetchTimeout time.Duration
	recorder        Recorder
	clock           Clock
	logger          zerolog.Logger
}

// NewImporter returns new Importer.
func NewImporter(
	connectors ConnectorFactory,
	engine Engine,
	runs RunStore,
	opts models.ImportOptions,
	logger *zerolog.Logger,
	ops ...Option,
) *Importer {
	imp := &Importer{
		connectors:      connectors,
		engine:          engine,
		runs:            runs,
		opts:            opts,
		prefetchTimeout: DefaultPrefetchTimeout,
		recorder:        nopRecorder{},
		clock:           systemClock{},
		logger:          logger.With().Str("component", "importer").Logger(),
	}

	for _, op := range ops {
		op(imp)
	}

	return imp
}

// Import imports products of source into catalog and returns finished run.
// Run is returned also when import fails, with IsSuccess false and failure reason in StatusMessage.
func (i *Importer) Import(ctx context.Context, sourceID string) (*models.Run, error) {
	conn, err := i.connectors.Connector(sourceID, i.opts.MaxAge)
	if err != nil {
		return nil, fmt.Errorf("can't start import: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			i.logger.Warn().Err(err).Str("source", sourceID).Msg("can't close connector")
		}
	}()

	// insert new run in storage.
	run, err := i.runs.StartRun(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("can't start import: %w", err)
	}
	run.SourceID = sourceID
	startedAt := lo.FromPtr(i.clock.Now())

	i.logger.Info().Str("source", sourceID).Int("run", run.ID).Msg("import started")

	stats, err := i.engine.Run(ctx, sourceID, conn, i.opts)
	run.Stats = stats
	if err != nil {
		err = fmt.Errorf("can't import products: %w", err)
	}

	// run is finished even when ctx was cancelled, otherwise it would block following imports of source
	return run, i.finishImport(context.WithoutCancel(ctx), run, startedAt, err)
}

// Prefetch downloads all payloads of source into cache.
func (i *Importer) Prefetch(ctx context.Context, sourceID string) error {
	ctx, cancel := context.WithTimeout(ctx, i.prefetchTimeout)
	defer cancel()

	conn, err := i.connectors.Connector(sourceID, i.opts.MaxAge)
	if err != nil {
		return fmt.Errorf("can't prefetch: %w", err)
	}
	defer conn.Close()

	if err := conn.Prefetch(ctx); err != nil {
		return fmt.Errorf("can't prefetch: %w", err)
	}

	i.logger.Info().Str("source", sourceID).Msg("source prefetched")

	return nil
}

// TestConnection checks connection to source and returns sample of remote files.
func (i *Importer) TestConnection(ctx context.Context, sourceID string) ([]string, error) {
	conn, err := i.connectors.Connector(sourceID, i.opts.MaxAge)
	if err != nil {
		return nil, fmt.Errorf("can't test connection: %w", err)
	}
	defer conn.Close()

	files, err := conn.Test(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't test connection: %w", err)
	}

	return files, nil
}

// LastRun returns latest run of source.
func (i *Importer) LastRun(ctx context.Context, sourceID string) (*models.Run, error) {
	run, err := i.runs.LastRun(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("can't get last run: %w", err)
	}

	return run, nil
}

func (i *Importer) finishImport(ctx context.Context, run *models.Run, startedAt time.Time, status error) error {
	if status != nil {
		run.StatusMessage = lo.ToPtr(status.Error())
	}
	run.IsSuccess = lo.ToPtr(status == nil)
	run.FinishedAt = i.clock.Now()

	i.recorder.ObserveRun(run.SourceID, run.Stats, status == nil, run.FinishedAt.Sub(startedAt))

	logger := i.logger.With().
		Str("source", run.SourceID).
		Int("run", run.ID).
		Int32("total", run.Stats.Total).
		Int32("imported", run.Stats.Imported).
		Int32("updated", run.Stats.Updated).
		Int32("skipped", run.Stats.Skipped).
		Int32("errors", run.Stats.Errors).
		Logger()
	if status != nil {
		logger.Error().Err(status).Msg("import failed")
	} else {
		logger.Info().Msg("import finished")
	}

	err := i.runs.FinishRun(ctx, run)
	if err != nil && status == nil {
		return fmt.Errorf("can't finish import: %w", err)
	}

	if err != nil && status != nil {
		return fmt.Errorf("can't finish failed import: %w (fail reason: %w)", err, status)
	}

	return status
}

type nopRecorder struct{}

func (nopRecorder) ObserveRun(string, models.ImportRunStats, bool, time.Duration) {}

// WithClock sets Importer's custom Clock.
func WithClock(c Clock) Option {
	return func(i *Importer) {
		i.clock = c
	}
}

// WithRecorder sets Recorder of finished runs.
func WithRecorder(r Recorder) Option {
	return func(i *Importer) {
		i.recorder = r
	}
}

// WithPrefetchTimeout sets limit of full catalog download.
func WithPrefetchTimeout(timeout time.Duration) Option {
	return func(i *Importer) {
		if timeout > 0 {
			i.prefetchTimeout = timeout
		}
	}
}

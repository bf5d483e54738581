package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/MichalMitros/catalog-bridge/internal/platform/rabbitmq"
	"github.com/MichalMitros/catalog-bridge/pkg/v1/commander"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

//go:generate mockery --name Importer --filename importer.go

// Importer imports source catalogs.
type Importer interface {
	Import(ctx context.Context, sourceID string) (*models.Run, error)
	Prefetch(ctx context.Context, sourceID string) error
}

// RMQHandler handles RMQ messages.
type RMQHandler struct {
	rmq      *rabbitmq.RabbitMQ
	importer Importer
	sources  []string
	logger   *zerolog.Logger
}

// NewHandler returns new RMQHandler. Commands without source id are applied to all provided sources.
func NewHandler(rmq *rabbitmq.RabbitMQ, importer Importer, sources []string, logger *zerolog.Logger) *RMQHandler {
	return &RMQHandler{
		rmq:      rmq,
		importer: importer,
		sources:  sources,
		logger:   logger,
	}
}

// Start starts consuming and handling import commands from RMQ.
func (h *RMQHandler) Start(ctx context.Context, queue string) error {
	errorsChan, err := h.rmq.Consume(ctx, queue, h.Handle)
	if err != nil {
		return err
	}

	go func() {
		for err := range errorsChan {
			h.logger.Error().
				Err(err).
				Msg("can't handle message")
		}
	}()

	return nil
}

// Handle decodes import command and executes it.
func (h *RMQHandler) Handle(ctx context.Context, message []byte) error {
	cmd, err := decodeMessage(message)
	if err != nil {
		return err
	}

	var action func(ctx context.Context, sourceID string) error
	switch cmd.Action {
	case commander.ActionImport, "":
		action = h.importSource
	case commander.ActionPrefetch:
		action = h.prefetchSource
	default:
		return fmt.Errorf("unknown command action %q", cmd.Action)
	}

	if cmd.SourceID != "" {
		return action(ctx, cmd.SourceID)
	}

	// failure of one source doesn't cancel imports of the others
	var group errgroup.Group
	for _, sourceID := range h.sources {
		sourceID := sourceID
		group.Go(func() error {
			return action(ctx, sourceID)
		})
	}

	return group.Wait()
}

func (h *RMQHandler) importSource(ctx context.Context, sourceID string) error {
	logger := h.logger.With().
		Str("source", sourceID).
		Str("operation", commander.ActionImport).
		Logger()

	logger.Debug().Msg("import started")

	run, err := h.importer.Import(ctx, sourceID)
	if err != nil {
		logger.Error().Err(err).Msg("import failed")
		return fmt.Errorf("import of %s failed: %w", sourceID, err)
	}

	logger.Debug().
		Int("runId", run.ID).
		Int32("total", run.Stats.Total).
		Msg("import finished")

	return nil
}

func (h *RMQHandler) prefetchSource(ctx context.Context, sourceID string) error {
	logger := h.logger.With().
		Str("source", sourceID).
		Str("operation", commander.ActionPrefetch).
		Logger()

	logger.Debug().Msg("prefetch started")

	if err := h.importer.Prefetch(ctx, sourceID); err != nil {
		logger.Error().Err(err).Msg("prefetch failed")
		return fmt.Errorf("prefetch of %s failed: %w", sourceID, err)
	}

	logger.Debug().Msg("prefetch finished")

	return nil
}

func decodeMessage(msg []byte) (*commander.ImportCommand, error) {
	var cmd commander.ImportCommand
	err := json.Unmarshal(msg, &cmd)
	if err != nil {
		return nil, fmt.Errorf("can't decode import command: %w", err)
	}

	return &cmd, nil
}

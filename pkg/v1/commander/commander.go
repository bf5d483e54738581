package commander

import (
	"context"
	"encoding/json"
	"fmt"
)

//go:generate mockery --name Sender --filename sender.go

// Actions of import command.
const (
	// ActionImport runs full import of source catalog.
	ActionImport = "import"
	// ActionPrefetch downloads full source catalog into cache without importing it.
	ActionPrefetch = "prefetch"
)

// Sender sends messages.
type Sender interface {
	Send(context.Context, []byte) error
}

// ImportCommander sends import commands.
type ImportCommander struct {
	sender Sender
}

// NewImportCommander returns new ImportCommander using provided sender for sending messages.
func NewImportCommander(sender Sender) ImportCommander {
	return ImportCommander{
		sender: sender,
	}
}

// SendImportCommand sends command importing source with provided id.
// Empty sourceID imports all enabled sources.
func (c ImportCommander) SendImportCommand(ctx context.Context, sourceID string) error {
	return c.send(ctx, ImportCommand{
		SourceID: sourceID,
		Action:   ActionImport,
	})
}

// SendPrefetchCommand sends command downloading catalog of source with provided id into cache.
func (c ImportCommander) SendPrefetchCommand(ctx context.Context, sourceID string) error {
	return c.send(ctx, ImportCommand{
		SourceID: sourceID,
		Action:   ActionPrefetch,
	})
}

func (c ImportCommander) send(ctx context.Context, cmd ImportCommand) error {
	cmdMsg, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("can't marshal %s command: %w", cmd.Action, err)
	}

	return c.sender.Send(ctx, cmdMsg)
}

package commander_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/MichalMitros/catalog-bridge/pkg/v1/commander"
	"github.com/MichalMitros/catalog-bridge/pkg/v1/commander/mocks"
	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnitSendImportCommand(t *testing.T) {
	sourceID := faker.Word()

	tests := map[string]struct {
		sourceID    string
		senderError error
		wantBody    string
		wantErr     error
	}{
		"ok": {
			sourceID: sourceID,
			wantBody: fmt.Sprintf(`{"sourceId":"%s","action":"import"}`, sourceID),
		},
		"all sources": {
			wantBody: `{"sourceId":"","action":"import"}`,
		},
		"sender error": {
			sourceID:    sourceID,
			senderError: assert.AnError,
			wantBody:    fmt.Sprintf(`{"sourceId":"%s","action":"import"}`, sourceID),
			wantErr:     assert.AnError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sender := mocks.NewSender(t)
			sender.On("Send", mock.Anything, []byte(tt.wantBody)).Return(tt.senderError)

			cmndr := commander.NewImportCommander(sender)
			err := cmndr.SendImportCommand(context.TODO(), tt.sourceID)

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")
		})
	}
}

func TestUnitSendPrefetchCommand(t *testing.T) {
	sourceID := faker.Word()
	body := []byte(fmt.Sprintf(`{"sourceId":"%s","action":"prefetch"}`, sourceID))

	sender := mocks.NewSender(t)
	sender.On("Send", mock.Anything, body).Return(nil).Once()

	err := commander.NewImportCommander(sender).SendPrefetchCommand(context.TODO(), sourceID)

	require.NoError(t, err)
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "career-portal.profile.created", Topic("career-portal", EventProfileCreated))
	assert.Equal(t, "file.uploaded", Topic("", EventFileUploaded))
}

func TestWatermillPublisher_DeliversEnvelope(t *testing.T) {
	logger := discardLogger()
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 1}, watermill.NewSlogLogger(logger))
	publisher := NewWatermillPublisher(pubSub, "career-portal", "", logger)
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "career-portal.profile.updated")
	require.NoError(t, err)

	require.NoError(t, publisher.Publish(ctx, EventProfileUpdated, ProfileEventData{UserID: "u1", ProfileID: 7}))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, string(EventProfileUpdated), msg.Metadata.Get("event_type"))

		var got struct {
			ID     string           `json:"id"`
			Type   EventType        `json:"type"`
			Source string           `json:"source"`
			Data   ProfileEventData `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, msg.UUID, got.ID)
		assert.Equal(t, EventProfileUpdated, got.Type)
		assert.Equal(t, DefaultSource, got.Source)
		assert.Equal(t, ProfileEventData{UserID: "u1", ProfileID: 7}, got.Data)
	case <-ctx.Done():
		t.Fatal("event was not delivered")
	}
}

func TestNewPublisher_FallsBackToChannel(t *testing.T) {
	publisher, err := NewPublisher(PublisherConfig{TopicPrefix: "test"}, discardLogger())
	require.NoError(t, err)
	defer publisher.Close()

	assert.NoError(t, publisher.Publish(context.Background(), EventUserUpdated, UserEventData{UserID: "u1"}))
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(discardLogger())
	ctx := context.Background()

	require.NoError(t, mock.Publish(ctx, EventProfileCreated, nil))
	mock.FailWith(errors.New("broker down"))
	assert.Error(t, mock.Publish(ctx, EventProfileUpdated, nil))

	assert.Equal(t, []EventType{EventProfileCreated}, mock.Types())
}

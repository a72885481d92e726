package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const DefaultSource = "career-portal"

type PublisherConfig struct {
	Brokers     []string
	TopicPrefix string
	Source      string
}

// WatermillPublisher marshals events to JSON and hands them to a watermill
// publisher on topic <prefix>.<type>.
type WatermillPublisher struct {
	publisher message.Publisher
	prefix    string
	source    string
	logger    *slog.Logger
}

// NewPublisher connects to Kafka when brokers are configured and falls back
// to an in-process channel otherwise.
func NewPublisher(cfg PublisherConfig, logger *slog.Logger) (*WatermillPublisher, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	var pub message.Publisher
	if len(cfg.Brokers) > 0 {
		kafkaPub, err := kafka.NewPublisher(kafka.PublisherConfig{
			Brokers:   cfg.Brokers,
			Marshaler: kafka.DefaultMarshaler{},
		}, wmLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}
		pub = kafkaPub
		logger.Info("Event publisher using kafka", "brokers", cfg.Brokers)
	} else {
		pub = gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger)
		logger.Info("Event publisher using in-process channel")
	}

	return NewWatermillPublisher(pub, cfg.TopicPrefix, cfg.Source, logger), nil
}

func NewWatermillPublisher(pub message.Publisher, prefix, source string, logger *slog.Logger) *WatermillPublisher {
	if source == "" {
		source = DefaultSource
	}
	return &WatermillPublisher{
		publisher: pub,
		prefix:    prefix,
		source:    source,
		logger:    logger,
	}
}

// Topic returns the broker topic for an event type.
func (p *WatermillPublisher) Topic(eventType EventType) string {
	return Topic(p.prefix, eventType)
}

func Topic(prefix string, eventType EventType) string {
	if prefix == "" {
		return string(eventType)
	}
	return prefix + "." + string(eventType)
}

func (p *WatermillPublisher) Publish(ctx context.Context, eventType EventType, data interface{}) error {
	event := NewEvent(eventType, p.source, data)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", string(eventType))
	msg.SetContext(ctx)

	topic := p.Topic(eventType)
	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", topic, err)
	}

	p.logger.Debug("Event published", "topic", topic, "event_id", event.ID)
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}

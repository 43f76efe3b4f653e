package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/recruitdesk/apiserver/internal/mq"
	"github.com/recruitdesk/apiserver/types"
)

// Appender is the storage side of the activity log.
type Appender interface {
	Append(ctx context.Context, entry types.ActivityLog) error
}

// StoreSink writes entries straight to the database.
type StoreSink struct {
	repo Appender
}

func NewStoreSink(repo Appender) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Write(ctx context.Context, entry types.ActivityLog) error {
	return s.repo.Append(ctx, entry)
}

// Publisher is the producing half of an mq backend.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// MQSink forwards entries to a broker channel for the activity consumer.
type MQSink struct {
	pub     Publisher
	channel string
}

func NewMQSink(pub Publisher, channel string) *MQSink {
	return &MQSink{pub: pub, channel: channel}
}

func (s *MQSink) Write(ctx context.Context, entry types.ActivityLog) error {
	// The id is fixed before publishing so redelivered messages insert once.
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = s.pub.Publish(ctx, s.channel, data, map[string]string{
		"action":  entry.Action,
		"user_id": entry.UserID,
	})
	return err
}

// Subscriber is the consuming half of an mq backend.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler mq.Handler) error
}

// Consume drains channel into sink until ctx ends. Malformed messages are
// logged and acknowledged; sink failures are returned so the broker redelivers.
func Consume(ctx context.Context, sub Subscriber, channel string, sink Sink) error {
	err := sub.Subscribe(ctx, channel, func(ctx context.Context, msg mq.Message) error {
		var entry types.ActivityLog
		if err := json.Unmarshal(msg.Data, &entry); err != nil {
			slog.Warn("discarding malformed activity message",
				slog.String("message_id", msg.ID),
				slog.String("error", err.Error()),
			)
			return nil
		}
		if err := sink.Write(ctx, entry); err != nil {
			return fmt.Errorf("write activity %s: %w", entry.ID, err)
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

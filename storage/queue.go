package storage

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"studybuddy-admin/config"
	"studybuddy-admin/domain"
)

// adminEvent follows the envelope consumed from the domain events queue.
type adminEvent struct {
	ID         string         `json:"id"`
	EntityID   string         `json:"entityId"`
	EntityType string         `json:"entityType"`
	Type       string         `json:"type"`
	Data       adminEventData `json:"data"`
	Time       int64          `json:"time"`
}

type adminEventData struct {
	Count int `json:"count"`
}

// QueueNotifier enqueues collection notifications as domain events.
type QueueNotifier struct {
	send func(ctx context.Context, message string) error
}

// NewNotifier returns a queue backed notifier for cfg.EventsQueue, or nil
// when no queue is configured.
func NewNotifier(cfg config.Config) (domain.Notifier, error) {
	if cfg.EventsQueue == "" {
		return nil, nil
	}
	auth, err := resolveAzureAuth(cfg)
	if err != nil {
		return nil, err
	}
	q, err := newQueueClient(auth, cfg.EventsQueue)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"queue": cfg.EventsQueue, "credentials": auth.strategy}).Debug("notifications enabled")
	return &QueueNotifier{send: func(ctx context.Context, message string) error {
		_, err := q.EnqueueMessage(ctx, message, nil)
		return err
	}}, nil
}

func (n *QueueNotifier) Notify(ctx context.Context, note domain.Notification) error {
	msg, err := encodeNotification(note)
	if err != nil {
		return err
	}
	return n.send(ctx, msg)
}

func encodeNotification(note domain.Notification) (string, error) {
	return sonic.MarshalString(adminEvent{
		ID:         uuid.NewString(),
		EntityID:   note.Collection,
		EntityType: "collection",
		Type:       note.Type,
		Data:       adminEventData{Count: note.Count},
		Time:       note.Time.UnixMilli(),
	})
}

package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"studybuddy-admin/config"
	"studybuddy-admin/domain"
)

func TestEncodeNotification(t *testing.T) {
	at := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	msg, err := encodeNotification(domain.Notification{
		Type:       domain.NotificationSeeded,
		Collection: "tasks",
		Count:      8,
		Time:       at,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var ev adminEvent
	if err := sonic.UnmarshalString(msg, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.ID == "" {
		t.Fatalf("expected an event id")
	}
	if ev.EntityType != "collection" || ev.EntityID != "tasks" || ev.Type != "collection-seeded" {
		t.Fatalf("unexpected envelope: %+v", ev)
	}
	if ev.Data.Count != 8 || ev.Time != at.UnixMilli() {
		t.Fatalf("unexpected payload: %+v", ev)
	}
}

func TestQueueNotifierSends(t *testing.T) {
	var sent []string
	n := &QueueNotifier{send: func(ctx context.Context, message string) error {
		sent = append(sent, message)
		return nil
	}}
	if err := n.Notify(context.Background(), domain.Notification{Type: domain.NotificationPurged, Collection: "events"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sent))
	}

	failing := &QueueNotifier{send: func(context.Context, string) error { return errors.New("queue down") }}
	if err := failing.Notify(context.Background(), domain.Notification{}); err == nil {
		t.Fatalf("expected send error")
	}
}

func TestNewNotifierDisabledWithoutQueue(t *testing.T) {
	n, err := NewNotifier(config.Config{})
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}
	if n != nil {
		t.Fatalf("expected no notifier when no queue is configured")
	}
}

package domain

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

type stubPrompter struct {
	answer    bool
	err       error
	questions []string
}

func (p *stubPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	p.questions = append(p.questions, question)
	return p.answer, p.err
}

type recordingNotifier struct {
	sent []Notification
	err  error
}

func (n *recordingNotifier) Notify(ctx context.Context, note Notification) error {
	n.sent = append(n.sent, note)
	return n.err
}

// orderedStore records the collection of every delete and commit.
type orderedStore struct {
	*fakeStore
	ops []string
}

func (s *orderedStore) Delete(ctx context.Context, collection, id string) error {
	s.ops = append(s.ops, "delete:"+collection)
	return s.fakeStore.Delete(ctx, collection, id)
}

func (s *orderedStore) CommitBatch(ctx context.Context, collection string, docs []Document) error {
	s.ops = append(s.ops, "commit:"+collection)
	return s.fakeStore.CommitBatch(ctx, collection, docs)
}

func fixedClock() time.Time { return time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC) }

func newTestOrchestrator(store Store, p Prompter, n Notifier) *Orchestrator {
	return NewOrchestrator(store, p, OrchestratorConfig{
		Collections:    DefaultCollections(),
		VerifyAttempts: 1,
		Notifier:       n,
		Now:            fixedClock,
	})
}

func TestOrchestratorDeclinedPurge(t *testing.T) {
	store := newFakeStore()
	store.seed("tasks", "old")
	prompter := &stubPrompter{answer: false}
	orch := newTestOrchestrator(store, prompter, nil)

	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if store.deleteCalls != 0 {
		t.Fatalf("expected no deletes, got %d", store.deleteCalls)
	}
	if len(prompter.questions) != 1 || prompter.questions[0] != PurgeQuestion {
		t.Fatalf("unexpected prompts: %v", prompter.questions)
	}
	want := []ImportCount{{"tasks", 8}, {"events", 5}, {"users", 3}}
	if !reflect.DeepEqual(summary.Imported, want) {
		t.Fatalf("imported = %v, want %v", summary.Imported, want)
	}
	if summary.Purged != nil {
		t.Fatalf("expected no purge results")
	}
	if got := len(store.docs["tasks"]); got != 9 {
		t.Fatalf("expected existing task kept plus 8 new, got %d", got)
	}
	wantStates := []State{StateConnected, StatePrompting, StateImportingTasks, StateImportingEvents, StateImportingUsers, StateDone}
	if !reflect.DeepEqual(orch.States(), wantStates) {
		t.Fatalf("states = %v, want %v", orch.States(), wantStates)
	}
}

func TestOrchestratorPurgesInOrderThenImports(t *testing.T) {
	base := newFakeStore()
	base.seed("users", "u")
	base.seed("tasks", "t")
	base.seed("events", "e")
	store := &orderedStore{fakeStore: base}
	notifier := &recordingNotifier{}
	orch := newTestOrchestrator(store, &stubPrompter{answer: true}, notifier)

	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantOps := []string{
		"delete:tasks", "delete:events", "delete:users",
		"commit:tasks", "commit:events", "commit:users",
	}
	if !reflect.DeepEqual(store.ops, wantOps) {
		t.Fatalf("ops = %v, want %v", store.ops, wantOps)
	}
	if len(summary.Purged) != 3 || summary.Purged[0].Deleted != 1 {
		t.Fatalf("unexpected purge results: %+v", summary.Purged)
	}
	if len(notifier.sent) != 6 {
		t.Fatalf("expected 6 notifications, got %d", len(notifier.sent))
	}
	if n := notifier.sent[3]; n.Type != NotificationSeeded || n.Collection != "tasks" || n.Count != 8 || !n.Time.Equal(fixedClock()) {
		t.Fatalf("unexpected notification: %+v", n)
	}
}

func TestOrchestratorImportFailureStops(t *testing.T) {
	store := newFakeStore()
	store.commitErr = errors.New("quota exceeded")
	orch := newTestOrchestrator(store, &stubPrompter{}, nil)

	summary, err := orch.Run(context.Background())
	var importErr *ImportError
	if !errors.As(err, &importErr) || importErr.Collection != "tasks" {
		t.Fatalf("expected tasks ImportError, got %v", err)
	}
	if len(store.commits) != 1 {
		t.Fatalf("later imports must not run, got %d commits", len(store.commits))
	}
	if len(summary.Imported) != 0 {
		t.Fatalf("unexpected imports: %v", summary.Imported)
	}
	states := orch.States()
	if states[len(states)-1] != StateFailed {
		t.Fatalf("expected failed state, got %v", states)
	}
}

func TestOrchestratorPurgeErrorIsNotFatal(t *testing.T) {
	store := &listFailingStore{fakeStore: newFakeStore()}
	orch := newTestOrchestrator(store, &stubPrompter{answer: true}, nil)

	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(summary.Imported) != 3 {
		t.Fatalf("imports must still run: %v", summary.Imported)
	}
}

func TestOrchestratorPromptFailure(t *testing.T) {
	store := newFakeStore()
	orch := newTestOrchestrator(store, &stubPrompter{err: errors.New("stdin closed")}, nil)
	if _, err := orch.Run(context.Background()); err == nil {
		t.Fatalf("expected prompt error")
	}
	if len(store.commits) != 0 {
		t.Fatalf("nothing must be imported after a prompt failure")
	}
}

func TestOrchestratorNotifyFailureIsIgnored(t *testing.T) {
	orch := newTestOrchestrator(newFakeStore(), &stubPrompter{}, &recordingNotifier{err: errors.New("queue down")})
	if _, err := orch.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
}

// listFailingStore fails listings but accepts writes.
type listFailingStore struct{ *fakeStore }

func (s *listFailingStore) List(ctx context.Context, collection string) ([]Document, error) {
	return nil, errors.New("list unavailable")
}

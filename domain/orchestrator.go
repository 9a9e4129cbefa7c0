package domain

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// State is a step of a seed run. A run moves forward only.
type State string

const (
	StateConnected       State = "connected"
	StatePrompting       State = "prompting"
	StatePurging         State = "purging"
	StateImportingTasks  State = "importing-tasks"
	StateImportingEvents State = "importing-events"
	StateImportingUsers  State = "importing-users"
	StateDone            State = "done"
	StateFailed          State = "failed"
)

// PurgeQuestion is asked before any existing data is deleted.
const PurgeQuestion = "Delete existing data first? (y/N)"

// Collections names the target collection of each entity kind.
type Collections struct {
	Tasks  string
	Events string
	Users  string
}

// DefaultCollections returns the collection names used by the app.
func DefaultCollections() Collections {
	return Collections{Tasks: "tasks", Events: "events", Users: "users"}
}

// ImportCount is the number of documents written to one collection.
type ImportCount struct {
	Collection string
	Count      int
}

// Summary is the outcome of a seed run.
type Summary struct {
	Purged   []PurgeResult
	Imported []ImportCount
}

// OrchestratorConfig tunes a seed run. Notifier and Now are optional.
type OrchestratorConfig struct {
	Collections    Collections
	VerifyAttempts int
	VerifyInterval time.Duration
	Notifier       Notifier
	Now            func() time.Time
}

// Orchestrator runs the interactive seed flow against an already connected store.
type Orchestrator struct {
	prompter    Prompter
	purger      Purger
	importer    Importer
	notifier    Notifier
	collections Collections
	now         func() time.Time
	states      []State
}

func NewOrchestrator(store Store, prompter Prompter, cfg OrchestratorConfig) *Orchestrator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		prompter:    prompter,
		purger:      NewPurger(store, cfg.VerifyAttempts, cfg.VerifyInterval),
		importer:    NewImporter(store),
		notifier:    cfg.Notifier,
		collections: cfg.Collections,
		now:         now,
		states:      []State{StateConnected},
	}
}

// States returns the states visited so far, in order.
func (o *Orchestrator) States() []State {
	return append([]State(nil), o.states...)
}

func (o *Orchestrator) enter(s State) {
	log.WithFields(log.Fields{"from": o.states[len(o.states)-1], "to": s}).Debug("seed state")
	o.states = append(o.states, s)
}

// Run asks whether to purge, optionally purges tasks, events and users in
// that order, then imports the sample dataset. Purge problems are logged as
// warnings; a prompt or import failure stops the run and is returned.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	o.enter(StatePrompting)
	purge, err := o.prompter.Confirm(ctx, PurgeQuestion)
	if err != nil {
		o.enter(StateFailed)
		return summary, fmt.Errorf("prompt: %w", err)
	}

	if purge {
		o.enter(StatePurging)
		for _, c := range []string{o.collections.Tasks, o.collections.Events, o.collections.Users} {
			res, err := o.purger.Purge(ctx, c)
			if err != nil {
				log.WithError(err).WithField("collection", c).Warn("purge incomplete")
			}
			summary.Purged = append(summary.Purged, res)
			o.notify(ctx, NotificationPurged, c, res.Deleted)
		}
	}

	data := SampleData(o.now())
	steps := []struct {
		state      State
		collection string
		run        func() (int, error)
	}{
		{StateImportingTasks, o.collections.Tasks, func() (int, error) {
			return o.importer.ImportTasks(ctx, o.collections.Tasks, data.Tasks)
		}},
		{StateImportingEvents, o.collections.Events, func() (int, error) {
			return o.importer.ImportEvents(ctx, o.collections.Events, data.Events)
		}},
		{StateImportingUsers, o.collections.Users, func() (int, error) {
			return o.importer.ImportUsers(ctx, o.collections.Users, data.Users)
		}},
	}
	for _, step := range steps {
		o.enter(step.state)
		n, err := step.run()
		if err != nil {
			o.enter(StateFailed)
			return summary, err
		}
		summary.Imported = append(summary.Imported, ImportCount{Collection: step.collection, Count: n})
		o.notify(ctx, NotificationSeeded, step.collection, n)
	}

	o.enter(StateDone)
	return summary, nil
}

func (o *Orchestrator) notify(ctx context.Context, typ, collection string, count int) {
	if o.notifier == nil {
		return
	}
	n := Notification{Type: typ, Collection: collection, Count: count, Time: o.now()}
	if err := o.notifier.Notify(ctx, n); err != nil {
		log.WithError(err).WithFields(log.Fields{"collection": collection, "type": typ}).Warn("notify failed")
	}
}

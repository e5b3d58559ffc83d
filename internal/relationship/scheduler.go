// Package relationship implements the rules for friend requests, blocking
// and date proposals between users.
//
// Rules are pure functions over User and Schedule snapshots. Scheduler loads
// the snapshots through a Store, evaluates the rule and persists the resulting
// UserChange values inside a single Store.WithTx call, so both sides of a
// friendship are always written together.
package relationship

import (
	"context"
	"log/slog"
)

// Scheduler exposes one method per relationship operation.
type Scheduler struct {
	store    Store
	notifier Notifier
	log      *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithNotifier sets the receiver of events emitted after successful mutations.
func WithNotifier(n Notifier) Option {
	return func(s *Scheduler) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Scheduler over store.
func New(store Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    store,
		notifier: noopNotifier{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// apply persists changes as one unit.
func (s *Scheduler) apply(ctx context.Context, changes []UserChange) error {
	return s.store.WithTx(ctx, func(tx Store) error {
		for _, c := range changes {
			if c.Empty() {
				continue
			}
			if err := tx.Users().Apply(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

// applyToActor returns the actor snapshot after the decision's changes.
func applyToActor(actor User, d decision) User {
	for _, c := range d.changes {
		if c.UserID == actor.ID {
			actor = c.ApplyTo(actor)
		}
	}
	return actor
}

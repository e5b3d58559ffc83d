package relationship

import (
	"context"
	"fmt"
	"slices"
)

// ProposeDate creates a pending date from sender to receiverID. The restaurant
// is copied by value; later edits to it do not change the proposal.
func (s *Scheduler) ProposeDate(ctx context.Context, sender User, receiverID uint, p DateProposal) (Result[Schedule], error) {
	receiver, err := s.store.Users().FindByID(ctx, receiverID)
	if err != nil {
		return Result[Schedule]{}, err
	}
	restaurant, err := s.store.Restaurants().FindByID(ctx, p.RestaurantID)
	if err != nil {
		return Result[Schedule]{}, err
	}
	if _, err := ParseDressType(string(p.DressType)); err != nil {
		return Result[Schedule]{}, err
	}

	reason, err := decideProposeDate(sender, receiver)
	if err != nil {
		return Result[Schedule]{}, err
	}
	if reason != "" {
		s.log.Info("date proposal rejected", "sender", sender.ID, "receiver", receiver.ID, "reason", reason)
		return reject[Schedule](reason), nil
	}

	sched := Schedule{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Restaurant: restaurant,
		MeetTime:   p.MeetTime,
		DressType:  p.DressType,
		Message:    p.Message,
		Status:     StatusPending,
	}
	if err := s.store.Schedules().Insert(ctx, &sched); err != nil {
		s.log.Error("failed to store date proposal", "sender", sender.ID, "receiver", receiver.ID, "error", err)
		return Result[Schedule]{}, fmt.Errorf("propose date: %w", err)
	}

	s.log.Info("date proposed", "schedule", sched.ID, "sender", sender.ID, "receiver", receiver.ID)
	s.notifier.Notify(ctx, Event{Type: EventDateProposed, UserID: receiver.ID, Email: receiver.Email, Payload: sched})
	return accept(sched), nil
}

// AcceptDate approves a pending date addressed to actor.
func (s *Scheduler) AcceptDate(ctx context.Context, actor User, scheduleID uint) (Result[Schedule], error) {
	return s.transition(ctx, actor, scheduleID, StatusApproved, EventDateApproved)
}

// RejectDate rejects a pending date addressed to actor.
func (s *Scheduler) RejectDate(ctx context.Context, actor User, scheduleID uint) (Result[Schedule], error) {
	return s.transition(ctx, actor, scheduleID, StatusRejected, EventDateRejected)
}

func (s *Scheduler) transition(ctx context.Context, actor User, scheduleID uint, to DateStatus, ev EventType) (Result[Schedule], error) {
	sched, reason, err := s.lookupActionableSchedule(ctx, actor, scheduleID)
	if err != nil {
		return Result[Schedule]{}, err
	}
	if reason != "" {
		return reject[Schedule](reason), nil
	}

	if err := s.store.Schedules().UpdateStatus(ctx, sched.ID, StatusPending, to); err != nil {
		return Result[Schedule]{}, err
	}
	sched.Status = to
	s.log.Info("date status changed", "schedule", sched.ID, "status", to)

	event := Event{Type: ev, UserID: sched.SenderID, Payload: sched}
	if sender, err := s.store.Users().FindByID(ctx, sched.SenderID); err == nil {
		event.Email = sender.Email
	}
	s.notifier.Notify(ctx, event)
	return accept(sched), nil
}

// lookupActionableSchedule loads a schedule actor may accept or reject. A
// pending schedule from a sender actor has blocked is deleted and reported
// with ReasonBlockedSender instead of being returned.
func (s *Scheduler) lookupActionableSchedule(ctx context.Context, actor User, scheduleID uint) (Schedule, Reason, error) {
	sched, err := s.store.Schedules().FindByID(ctx, scheduleID)
	if err != nil {
		return Schedule{}, "", err
	}
	reason, err := checkActionable(actor, sched)
	if err != nil {
		return Schedule{}, "", err
	}
	if reason == ReasonBlockedSender {
		if err := s.store.Schedules().Delete(ctx, sched.ID); err != nil {
			return Schedule{}, "", fmt.Errorf("discard date from blocked sender: %w", err)
		}
		s.log.Info("discarded date from blocked sender", "schedule", sched.ID, "sender", sched.SenderID, "receiver", actor.ID)
		return Schedule{}, reason, nil
	}
	return sched, "", nil
}

// ListDates returns the dates actor received with the given status. Dates
// from senders actor has blocked are never listed.
func (s *Scheduler) ListDates(ctx context.Context, actor User, status DateStatus) ([]Schedule, error) {
	dates, err := s.store.Schedules().ListForReceiver(ctx, actor.ID, status, actor.BlockedUsers)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(dates, func(d Schedule) bool {
		return actor.HasBlocked(d.SenderID)
	}), nil
}

// ListSentDates returns the dates actor proposed with the given status.
func (s *Scheduler) ListSentDates(ctx context.Context, actor User, status DateStatus) ([]Schedule, error) {
	return s.store.Schedules().ListForSender(ctx, actor.ID, status)
}

// GetDate returns a single date visible to actor as its sender or receiver.
func (s *Scheduler) GetDate(ctx context.Context, actor User, scheduleID uint) (Schedule, error) {
	sched, err := s.store.Schedules().FindByID(ctx, scheduleID)
	if err != nil {
		return Schedule{}, err
	}
	switch actor.ID {
	case sched.SenderID:
		return sched, nil
	case sched.ReceiverID:
		if actor.HasBlocked(sched.SenderID) {
			return Schedule{}, fmt.Errorf("%w: date %d", ErrNotFound, scheduleID)
		}
		return sched, nil
	}
	return Schedule{}, fmt.Errorf("%w: date %d belongs to other users", ErrUnauthorized, scheduleID)
}

package relationship

import (
	"context"
	"errors"
	"fmt"
)

// SendFriendRequest appends a request from actor to the user with targetEmail.
func (s *Scheduler) SendFriendRequest(ctx context.Context, actor User, targetEmail, message string) (Result[FriendRequest], error) {
	target, err := s.store.Users().FindByEmail(ctx, targetEmail)
	if err != nil {
		return Result[FriendRequest]{}, err
	}

	d, err := decideSendFriendRequest(actor, target, message)
	if err != nil {
		return Result[FriendRequest]{}, err
	}
	if d.reason != "" {
		s.log.Info("friend request rejected", "from", actor.ID, "to", target.ID, "reason", d.reason)
		return reject[FriendRequest](d.reason), nil
	}

	if err := s.apply(ctx, d.changes); err != nil {
		// Lost a race with a concurrent identical request.
		if errors.Is(err, ErrDuplicateRequest) {
			return reject[FriendRequest](ReasonDuplicate), nil
		}
		s.log.Error("failed to store friend request", "from", actor.ID, "to", target.ID, "error", err)
		return Result[FriendRequest]{}, fmt.Errorf("send friend request: %w", err)
	}

	req := *d.changes[0].AppendRequest
	s.log.Info("friend request sent", "from", actor.ID, "to", target.ID)
	s.notifier.Notify(ctx, Event{Type: EventFriendRequestReceived, UserID: target.ID, Email: target.Email, Payload: req})
	return accept(req), nil
}

// AcceptFriendRequest turns the pending request from requesterEmail into a
// mutual friendship. The returned payload is actor's updated snapshot.
func (s *Scheduler) AcceptFriendRequest(ctx context.Context, actor User, requesterEmail string) (Result[User], error) {
	// Check the actor's own list before touching the store.
	if err := requireRequestFrom(actor, requesterEmail); err != nil {
		return Result[User]{}, err
	}
	requester, err := s.store.Users().FindByEmail(ctx, requesterEmail)
	if err != nil {
		return Result[User]{}, err
	}

	d, err := decideAcceptFriendRequest(actor, requester)
	if err != nil {
		return Result[User]{}, err
	}
	if err := s.apply(ctx, d.changes); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error("failed to accept friend request", "user", actor.ID, "requester", requester.ID, "error", err)
		}
		return Result[User]{}, fmt.Errorf("accept friend request: %w", err)
	}

	s.log.Info("friend request accepted", "user", actor.ID, "requester", requester.ID)
	s.notifier.Notify(ctx, Event{
		Type:    EventFriendRequestAccepted,
		UserID:  requester.ID,
		Email:   requester.Email,
		Payload: FriendRequest{FromEmail: actor.Email},
	})
	return accept(applyToActor(actor, d)), nil
}

// DeclineFriendRequest drops the pending request from requesterEmail.
func (s *Scheduler) DeclineFriendRequest(ctx context.Context, actor User, requesterEmail string) (Result[User], error) {
	d, err := decideDeclineFriendRequest(actor, requesterEmail)
	if err != nil {
		return Result[User]{}, err
	}
	if err := s.apply(ctx, d.changes); err != nil {
		return Result[User]{}, fmt.Errorf("decline friend request: %w", err)
	}
	s.log.Info("friend request declined", "user", actor.ID, "requester", requesterEmail)
	return accept(applyToActor(actor, d)), nil
}

// RemoveFriend ends the friendship between actor and the user with targetEmail
// on both sides.
func (s *Scheduler) RemoveFriend(ctx context.Context, actor User, targetEmail string) (Result[User], error) {
	target, err := s.store.Users().FindByEmail(ctx, targetEmail)
	if err != nil {
		return Result[User]{}, err
	}
	d, err := decideRemoveFriend(actor, target)
	if err != nil {
		return Result[User]{}, err
	}
	if err := s.apply(ctx, d.changes); err != nil {
		s.log.Error("failed to remove friend", "user", actor.ID, "friend", target.ID, "error", err)
		return Result[User]{}, fmt.Errorf("remove friend: %w", err)
	}
	s.log.Info("friend removed", "user", actor.ID, "friend", target.ID)
	return accept(applyToActor(actor, d)), nil
}

// BlockUser adds the user with targetEmail to actor's block list.
func (s *Scheduler) BlockUser(ctx context.Context, actor User, targetEmail string) (Result[User], error) {
	target, err := s.store.Users().FindByEmail(ctx, targetEmail)
	if err != nil {
		return Result[User]{}, err
	}
	d, err := decideBlockUser(actor, target)
	if err != nil {
		return Result[User]{}, err
	}
	if err := s.apply(ctx, d.changes); err != nil {
		s.log.Error("failed to block user", "user", actor.ID, "blocked", target.ID, "error", err)
		return Result[User]{}, fmt.Errorf("block user: %w", err)
	}
	s.log.Info("user blocked", "user", actor.ID, "blocked", target.ID)
	return accept(applyToActor(actor, d)), nil
}

// UnblockUser removes the user with targetEmail from actor's block list.
// Friendships purged by the block are not restored.
func (s *Scheduler) UnblockUser(ctx context.Context, actor User, targetEmail string) (Result[User], error) {
	target, err := s.store.Users().FindByEmail(ctx, targetEmail)
	if err != nil {
		return Result[User]{}, err
	}
	d := decideUnblockUser(actor, target)
	if err := s.apply(ctx, d.changes); err != nil {
		return Result[User]{}, fmt.Errorf("unblock user: %w", err)
	}
	s.log.Info("user unblocked", "user", actor.ID, "unblocked", target.ID)
	return accept(applyToActor(actor, d)), nil
}

// ListFriendRequests returns actor's pending requests in the order received.
func (s *Scheduler) ListFriendRequests(actor User) []FriendRequest {
	out := make([]FriendRequest, len(actor.FriendRequests))
	copy(out, actor.FriendRequests)
	return out
}

// ListFriends loads the snapshots of actor's friends.
func (s *Scheduler) ListFriends(ctx context.Context, actor User) ([]User, error) {
	friends := make([]User, 0, len(actor.Friends))
	for _, id := range actor.Friends {
		u, err := s.store.Users().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		friends = append(friends, u)
	}
	return friends, nil
}

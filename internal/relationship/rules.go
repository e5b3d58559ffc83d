package relationship

import "fmt"

// decision is what a rule returns when its preconditions hold: either a
// negative reason, or the changes to persist. A decision with neither is a
// successful no-op.
type decision struct {
	reason  Reason
	changes []UserChange
}

func rejectWith(reason Reason) decision {
	return decision{reason: reason}
}

func persist(changes ...UserChange) decision {
	return decision{changes: changes}
}

// Checks run in a fixed order: block, existing friendship, duplicate request.
func decideSendFriendRequest(actor, target User, message string) (decision, error) {
	if actor.ID == target.ID {
		return decision{}, fmt.Errorf("%w: cannot send a friend request to yourself", ErrInvalidRequest)
	}
	if target.HasBlocked(actor.ID) {
		return rejectWith(ReasonBlocked), nil
	}
	if actor.IsFriend(target.ID) {
		return rejectWith(ReasonAlreadyFriends), nil
	}
	if target.HasRequestFrom(actor.Email) {
		return rejectWith(ReasonDuplicate), nil
	}
	return persist(UserChange{
		UserID:        target.ID,
		AppendRequest: &FriendRequest{FromEmail: actor.Email, Message: message},
	}), nil
}

func requireRequestFrom(actor User, email string) error {
	if !actor.HasRequestFrom(email) {
		return fmt.Errorf("%w: noSuchRequest: %s has not sent you a friend request", ErrNotFound, email)
	}
	return nil
}

func decideAcceptFriendRequest(actor, requester User) (decision, error) {
	if err := requireRequestFrom(actor, requester.Email); err != nil {
		return decision{}, err
	}
	return persist(
		UserChange{
			UserID:             actor.ID,
			RemoveRequestsFrom: []string{requester.Email},
			ConsumeRequests:    true,
			AddFriends:         []uint{requester.ID},
		},
		UserChange{
			UserID:     requester.ID,
			AddFriends: []uint{actor.ID},
		},
	), nil
}

func decideDeclineFriendRequest(actor User, email string) (decision, error) {
	if err := requireRequestFrom(actor, email); err != nil {
		return decision{}, err
	}
	return persist(UserChange{UserID: actor.ID, RemoveRequestsFrom: []string{email}, ConsumeRequests: true}), nil
}

func decideRemoveFriend(actor, target User) (decision, error) {
	if !actor.IsFriend(target.ID) {
		return decision{}, fmt.Errorf("%w: notAFriend: %s is not in your friends list", ErrNotFound, target.Email)
	}
	return persist(
		UserChange{UserID: actor.ID, RemoveFriends: []uint{target.ID}},
		UserChange{UserID: target.ID, RemoveFriends: []uint{actor.ID}},
	), nil
}

// Blocking also purges the target's pending request and any friendship in
// both directions. Already blocked is a no-op.
func decideBlockUser(actor, target User) (decision, error) {
	if actor.ID == target.ID {
		return decision{}, fmt.Errorf("%w: cannot block yourself", ErrInvalidRequest)
	}
	if actor.HasBlocked(target.ID) {
		return decision{}, nil
	}

	own := UserChange{UserID: actor.ID, AddBlocked: []uint{target.ID}}
	if actor.HasRequestFrom(target.Email) {
		own.RemoveRequestsFrom = []string{target.Email}
	}
	changes := []UserChange{own}

	// Either side listing the other is treated as a friendship so a
	// half-written pair is also cleaned up.
	if actor.IsFriend(target.ID) || target.IsFriend(actor.ID) {
		changes[0].RemoveFriends = []uint{target.ID}
		changes = append(changes, UserChange{UserID: target.ID, RemoveFriends: []uint{actor.ID}})
	}
	return persist(changes...), nil
}

func decideUnblockUser(actor, target User) decision {
	if !actor.HasBlocked(target.ID) {
		return decision{}
	}
	return persist(UserChange{UserID: actor.ID, RemoveBlocked: []uint{target.ID}})
}

// Friendship is mandatory for proposing a date.
func decideProposeDate(sender, receiver User) (Reason, error) {
	if sender.ID == receiver.ID {
		return "", fmt.Errorf("%w: cannot propose a date to yourself", ErrInvalidRequest)
	}
	if receiver.HasBlocked(sender.ID) {
		return ReasonBlocked, nil
	}
	if !receiver.IsFriend(sender.ID) {
		return ReasonNotFriends, nil
	}
	return "", nil
}

// checkActionable validates that actor may transition s. A ReasonBlockedSender
// result tells the caller to discard the schedule.
func checkActionable(actor User, s Schedule) (Reason, error) {
	if s.ReceiverID != actor.ID {
		return "", fmt.Errorf("%w: only the receiver of date %d may act on it", ErrUnauthorized, s.ID)
	}
	if s.Status != StatusPending {
		return "", fmt.Errorf("%w: date %d is %s", ErrInvalidState, s.ID, s.Status)
	}
	if actor.HasBlocked(s.SenderID) {
		return ReasonBlockedSender, nil
	}
	return "", nil
}

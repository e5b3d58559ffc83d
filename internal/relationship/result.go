package relationship

// Kind tags a Result as accepted or rejected.
type Kind string

const (
	Accepted Kind = "accepted"
	Rejected Kind = "rejected"
)

// Reason is the code attached to a rejected Result.
type Reason string

const (
	ReasonBlocked        Reason = "blocked"
	ReasonAlreadyFriends Reason = "alreadyFriends"
	ReasonDuplicate      Reason = "duplicate"
	ReasonNotFriends     Reason = "notFriends"
	ReasonBlockedSender  Reason = "blockedSender"
)

var reasonMessages = map[Reason]string{
	ReasonBlocked:        "The recipient has blocked you.",
	ReasonAlreadyFriends: "You are already friends with this user.",
	ReasonDuplicate:      "A friend request to this user is already pending.",
	ReasonNotFriends:     "You are not friends with this user, send a friend request first.",
	ReasonBlockedSender:  "The sender of this date is blocked, the proposal was discarded.",
}

// Message returns a human readable description of the reason.
func (r Reason) Message() string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return string(r)
}

// Result is the outcome of a Scheduler operation that completed without a
// failure. Rejected results carry a Reason and a zero Payload.
type Result[T any] struct {
	Kind    Kind
	Reason  Reason
	Payload T
}

// Accepted reports whether the operation took effect.
func (r Result[T]) Accepted() bool {
	return r.Kind == Accepted
}

func accept[T any](payload T) Result[T] {
	return Result[T]{Kind: Accepted, Payload: payload}
}

func reject[T any](reason Reason) Result[T] {
	return Result[T]{Kind: Rejected, Reason: reason}
}

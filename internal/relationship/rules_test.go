package relationship

import (
	"errors"
	"slices"
	"testing"
)

func TestDecideSendFriendRequestOrder(t *testing.T) {
	actor := User{ID: 1, Email: "a@example.com", Friends: []uint{2}}
	// Target has blocked the actor, is already a friend and already holds a
	// request from the actor. Block must win.
	target := User{
		ID:             2,
		Email:          "b@example.com",
		Friends:        []uint{1},
		BlockedUsers:   []uint{1},
		FriendRequests: []FriendRequest{{FromEmail: "a@example.com"}},
	}

	tests := []struct {
		name   string
		mutate func(t *User)
		want   Reason
	}{
		{"blocked beats everything", func(*User) {}, ReasonBlocked},
		{"already friends beats duplicate", func(t *User) { t.BlockedUsers = nil }, ReasonAlreadyFriends},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt := target.Clone()
			tt.mutate(&tgt)
			d, err := decideSendFriendRequest(actor, tgt, "hi")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.reason != tt.want {
				t.Fatalf("expected reason %q, got %q", tt.want, d.reason)
			}
			if len(d.changes) != 0 {
				t.Fatalf("rejected decision must not carry changes: %+v", d.changes)
			}
		})
	}

	stranger := User{ID: 1, Email: "a@example.com"}
	d, err := decideSendFriendRequest(stranger, User{ID: 2, FriendRequests: []FriendRequest{{FromEmail: "a@example.com"}}}, "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.reason != ReasonDuplicate {
		t.Fatalf("expected duplicate, got %q", d.reason)
	}
}

func TestDecideSendFriendRequestToSelf(t *testing.T) {
	u := User{ID: 7, Email: "self@example.com"}
	if _, err := decideSendFriendRequest(u, u, ""); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestDecideBlockUserPurgesRelations(t *testing.T) {
	actor := User{
		ID:             1,
		Email:          "a@example.com",
		Friends:        []uint{2, 3},
		FriendRequests: []FriendRequest{{FromEmail: "c@example.com"}, {FromEmail: "b@example.com"}, {FromEmail: "d@example.com"}},
	}
	target := User{ID: 2, Email: "b@example.com", Friends: []uint{1}}

	d, err := decideBlockUser(actor, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.changes) != 2 {
		t.Fatalf("expected changes for both users, got %d", len(d.changes))
	}

	after := applyToActor(actor, d)
	if !after.HasBlocked(2) {
		t.Fatalf("target not in block list: %+v", after.BlockedUsers)
	}
	if after.IsFriend(2) || !after.IsFriend(3) {
		t.Fatalf("unexpected friends after block: %v", after.Friends)
	}
	wantRequests := []FriendRequest{{FromEmail: "c@example.com"}, {FromEmail: "d@example.com"}}
	if !slices.Equal(after.FriendRequests, wantRequests) {
		t.Fatalf("expected requests %v, got %v", wantRequests, after.FriendRequests)
	}

	targetAfter := d.changes[1].ApplyTo(target)
	if targetAfter.IsFriend(1) {
		t.Fatalf("target still lists actor as friend")
	}
	if targetAfter.HasBlocked(1) {
		t.Fatalf("blocking must be unilateral")
	}
}

func TestDecideBlockUserIdempotent(t *testing.T) {
	actor := User{ID: 1, BlockedUsers: []uint{2}}
	d, err := decideBlockUser(actor, User{ID: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.reason != "" || len(d.changes) != 0 {
		t.Fatalf("expected no-op decision, got %+v", d)
	}
}

func TestCheckActionableOrder(t *testing.T) {
	actor := User{ID: 2, BlockedUsers: []uint{1}}

	tests := []struct {
		name    string
		sched   Schedule
		wantErr error
		want    Reason
	}{
		{"wrong receiver", Schedule{ID: 1, SenderID: 1, ReceiverID: 3, Status: StatusApproved}, ErrUnauthorized, ""},
		{"terminal", Schedule{ID: 1, SenderID: 1, ReceiverID: 2, Status: StatusRejected}, ErrInvalidState, ""},
		{"blocked sender", Schedule{ID: 1, SenderID: 1, ReceiverID: 2, Status: StatusPending}, nil, ReasonBlockedSender},
		{"actionable", Schedule{ID: 1, SenderID: 4, ReceiverID: 2, Status: StatusPending}, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, err := checkActionable(actor, tt.sched)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if reason != tt.want {
				t.Fatalf("expected reason %q, got %q", tt.want, reason)
			}
		})
	}
}

func TestUserChangeApplyToIsIdempotent(t *testing.T) {
	u := User{ID: 1, Friends: []uint{5}}
	c := UserChange{
		UserID:        1,
		AddFriends:    []uint{2, 5},
		AddBlocked:    []uint{9},
		AppendRequest: &FriendRequest{FromEmail: "x@example.com", Message: "hey"},
	}

	once := c.ApplyTo(u)
	twice := c.ApplyTo(once)

	if !slices.Equal(once.Friends, twice.Friends) || !slices.Equal(once.BlockedUsers, twice.BlockedUsers) {
		t.Fatalf("second application changed sets: %+v vs %+v", once, twice)
	}
	if len(twice.FriendRequests) != 1 {
		t.Fatalf("expected one request, got %v", twice.FriendRequests)
	}
	if len(u.Friends) != 1 {
		t.Fatalf("ApplyTo modified its input: %v", u.Friends)
	}
}

func TestParseDateStatus(t *testing.T) {
	if st, err := ParseDateStatus("approved"); err != nil || st != StatusApproved {
		t.Fatalf("expected approved, got %q, %v", st, err)
	}
	if _, err := ParseDateStatus("maybe"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if !StatusRejected.Terminal() || StatusPending.Terminal() {
		t.Fatalf("unexpected terminal classification")
	}
}

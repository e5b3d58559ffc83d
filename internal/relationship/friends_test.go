package relationship

import (
	"context"
	"errors"
	"testing"
)

func newTestScheduler(t *testing.T) (*Scheduler, *memStore, *recordingNotifier) {
	t.Helper()
	store := newMemStore()
	rec := &recordingNotifier{}
	return New(store, WithNotifier(rec)), store, rec
}

func TestFriendRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	s, store, rec := newTestScheduler(t)
	alice := store.addUser(1, "alice@example.com")
	store.addUser(2, "bob@example.com")

	res, err := s.SendFriendRequest(ctx, alice, "bob@example.com", "hi")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !res.Accepted() {
		t.Fatalf("expected accepted, got %s", res.Reason)
	}

	bob := store.user(2)
	requests := s.ListFriendRequests(bob)
	if len(requests) != 1 || requests[0].FromEmail != "alice@example.com" || requests[0].Message != "hi" {
		t.Fatalf("unexpected requests: %+v", requests)
	}

	accepted, err := s.AcceptFriendRequest(ctx, bob, "alice@example.com")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !accepted.Payload.IsFriend(1) || len(accepted.Payload.FriendRequests) != 0 {
		t.Fatalf("unexpected payload: %+v", accepted.Payload)
	}

	alice, bob = store.user(1), store.user(2)
	if !alice.IsFriend(2) || !bob.IsFriend(1) {
		t.Fatalf("friendship not symmetric: alice=%v bob=%v", alice.Friends, bob.Friends)
	}
	if len(bob.FriendRequests) != 0 {
		t.Fatalf("request not removed: %+v", bob.FriendRequests)
	}

	friends, err := s.ListFriends(ctx, bob)
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(friends) != 1 || friends[0].Email != "alice@example.com" {
		t.Fatalf("unexpected friends: %+v", friends)
	}

	if len(rec.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(rec.events))
	}
	if rec.events[0].Type != EventFriendRequestReceived || rec.events[0].UserID != 2 {
		t.Fatalf("unexpected first event: %+v", rec.events[0])
	}
	if rec.events[1].Type != EventFriendRequestAccepted || rec.events[1].UserID != 1 {
		t.Fatalf("unexpected second event: %+v", rec.events[1])
	}
}

func TestSendFriendRequestDuplicate(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestScheduler(t)
	alice := store.addUser(1, "alice@example.com")
	store.addUser(2, "bob@example.com")

	if _, err := s.SendFriendRequest(ctx, alice, "bob@example.com", "first"); err != nil {
		t.Fatalf("first send: %v", err)
	}
	res, err := s.SendFriendRequest(ctx, alice, "bob@example.com", "second")
	if err != nil {
		t.Fatalf("second send: %v", err)
	}
	if res.Accepted() || res.Reason != ReasonDuplicate {
		t.Fatalf("expected duplicate rejection, got %+v", res)
	}
	if got := store.user(2).FriendRequests; len(got) != 1 || got[0].Message != "first" {
		t.Fatalf("expected exactly the first request, got %+v", got)
	}
}

// staleStore serves user lookups from a fixed snapshot, as if another
// request had written between the read and the write.
type staleStore struct {
	*memStore
	stale User
}

func (s staleStore) Users() UserStore { return staleUsers{memUsers{s.memStore}, s.stale} }

type staleUsers struct {
	memUsers
	stale User
}

func (s staleUsers) FindByEmail(ctx context.Context, email string) (User, error) {
	if email == s.stale.Email {
		return s.stale.Clone(), nil
	}
	return s.memUsers.FindByEmail(ctx, email)
}

func TestSendFriendRequestRaceReportsDuplicate(t *testing.T) {
	ctx := context.Background()
	mem := newMemStore()
	alice := mem.addUser(1, "alice@example.com")
	bobBefore := mem.addUser(2, "bob@example.com")
	if err := mem.Users().Apply(ctx, UserChange{UserID: 2, AppendRequest: &FriendRequest{FromEmail: "alice@example.com", Message: "first"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := &recordingNotifier{}
	s := New(staleStore{memStore: mem, stale: bobBefore}, WithNotifier(rec))
	res, err := s.SendFriendRequest(ctx, alice, "bob@example.com", "second")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.Reason != ReasonDuplicate {
		t.Fatalf("expected duplicate, got %+v", res)
	}
	if got := mem.user(2).FriendRequests; len(got) != 1 || got[0].Message != "first" {
		t.Fatalf("unexpected requests: %+v", got)
	}
	if len(rec.events) != 0 {
		t.Fatalf("expected no events, got %d", len(rec.events))
	}
}

func TestSendFriendRequestBlocked(t *testing.T) {
	ctx := context.Background()
	s, store, rec := newTestScheduler(t)
	alice := store.addUser(1, "alice@example.com")
	bob := store.addUser(2, "bob@example.com")

	if _, err := s.BlockUser(ctx, bob, "alice@example.com"); err != nil {
		t.Fatalf("block: %v", err)
	}
	res, err := s.SendFriendRequest(ctx, alice, "bob@example.com", "hi")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.Reason != ReasonBlocked {
		t.Fatalf("expected blocked, got %+v", res)
	}
	if len(store.user(2).FriendRequests) != 0 {
		t.Fatalf("blocked request was stored")
	}
	if len(rec.events) != 0 {
		t.Fatalf("expected no events, got %+v", rec.events)
	}
}

func TestSendFriendRequestAlreadyFriends(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestScheduler(t)
	store.addUser(1, "alice@example.com")
	store.addUser(2, "bob@example.com")
	makeFriends(t, s, store, 1, 2)

	res, err := s.SendFriendRequest(ctx, store.user(1), "bob@example.com", "again")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.Reason != ReasonAlreadyFriends {
		t.Fatalf("expected alreadyFriends, got %+v", res)
	}
}

func TestSendFriendRequestUnknownTarget(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	alice := store.addUser(1, "alice@example.com")

	_, err := s.SendFriendRequest(context.Background(), alice, "nobody@example.com", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAcceptAndDeclineWithoutRequest(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestScheduler(t)
	store.addUser(1, "alice@example.com")
	bob := store.addUser(2, "bob@example.com")

	if _, err := s.AcceptFriendRequest(ctx, bob, "alice@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("accept: expected ErrNotFound, got %v", err)
	}
	if _, err := s.DeclineFriendRequest(ctx, bob, "alice@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("decline: expected ErrNotFound, got %v", err)
	}
}

func TestDeclineFriendRequest(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestScheduler(t)
	alice := store.addUser(1, "alice@example.com")
	carol := store.addUser(3, "carol@example.com")
	store.addUser(2, "bob@example.com")

	for _, u := range []User{alice, carol} {
		if _, err := s.SendFriendRequest(ctx, u, "bob@example.com", ""); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	res, err := s.DeclineFriendRequest(ctx, store.user(2), "alice@example.com")
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	got := store.user(2)
	if len(got.FriendRequests) != 1 || got.FriendRequests[0].FromEmail != "carol@example.com" {
		t.Fatalf("unexpected requests: %+v", got.FriendRequests)
	}
	if got.IsFriend(1) || store.user(1).IsFriend(2) {
		t.Fatalf("decline created a friendship")
	}
	if len(res.Payload.FriendRequests) != 1 {
		t.Fatalf("payload not updated: %+v", res.Payload)
	}
}

func TestRemoveFriend(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestScheduler(t)
	store.addUser(1, "alice@example.com")
	store.addUser(2, "bob@example.com")
	makeFriends(t, s, store, 1, 2)

	if _, err := s.RemoveFriend(ctx, store.user(2), "alice@example.com"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if store.user(1).IsFriend(2) || store.user(2).IsFriend(1) {
		t.Fatalf("friendship still present")
	}

	_, err := s.RemoveFriend(ctx, store.user(2), "alice@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAcceptFriendRequestRollsBack(t *testing.T) {
	ctx := context.Background()
	s, store, rec := newTestScheduler(t)
	alice := store.addUser(1, "alice@example.com")
	store.addUser(2, "bob@example.com")
	if _, err := s.SendFriendRequest(ctx, alice, "bob@example.com", "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}

	store.failApplyFor = 1
	if _, err := s.AcceptFriendRequest(ctx, store.user(2), "alice@example.com"); err == nil {
		t.Fatalf("expected error")
	}

	alice, bob := store.user(1), store.user(2)
	if alice.IsFriend(2) || bob.IsFriend(1) {
		t.Fatalf("partial friendship left behind: alice=%v bob=%v", alice.Friends, bob.Friends)
	}
	if len(bob.FriendRequests) != 1 {
		t.Fatalf("request lost on rollback: %+v", bob.FriendRequests)
	}
	if len(rec.events) != 1 {
		t.Fatalf("failed accept must not notify, got %d events", len(rec.events))
	}
}

func TestBlockUserPurgesFriendshipAndRequest(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestScheduler(t)
	store.addUser(1, "alice@example.com")
	store.addUser(2, "bob@example.com")
	store.addUser(3, "carol@example.com")
	makeFriends(t, s, store, 1, 2)
	if _, err := s.SendFriendRequest(ctx, store.user(3), "bob@example.com", ""); err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := s.BlockUser(ctx, store.user(2), "alice@example.com"); err != nil {
		t.Fatalf("block alice: %v", err)
	}
	if _, err := s.BlockUser(ctx, store.user(2), "carol@example.com"); err != nil {
		t.Fatalf("block carol: %v", err)
	}

	bob := store.user(2)
	if !bob.HasBlocked(1) || !bob.HasBlocked(3) {
		t.Fatalf("unexpected block list: %v", bob.BlockedUsers)
	}
	if bob.IsFriend(1) || store.user(1).IsFriend(2) {
		t.Fatalf("friendship survived block")
	}
	if len(bob.FriendRequests) != 0 {
		t.Fatalf("request from blocked user survived: %+v", bob.FriendRequests)
	}

	// Blocking twice is a no-op.
	res, err := s.BlockUser(ctx, bob, "alice@example.com")
	if err != nil || !res.Accepted() {
		t.Fatalf("second block: %+v %v", res, err)
	}
	if n := len(store.user(2).BlockedUsers); n != 2 {
		t.Fatalf("expected 2 blocked users, got %d", n)
	}
}

func TestUnblockUser(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestScheduler(t)
	alice := store.addUser(1, "alice@example.com")
	bob := store.addUser(2, "bob@example.com")

	if _, err := s.BlockUser(ctx, bob, "alice@example.com"); err != nil {
		t.Fatalf("block: %v", err)
	}
	res, err := s.UnblockUser(ctx, store.user(2), "alice@example.com")
	if err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if res.Payload.HasBlocked(1) || store.user(2).HasBlocked(1) {
		t.Fatalf("still blocked")
	}

	sent, err := s.SendFriendRequest(ctx, alice, "bob@example.com", "")
	if err != nil || !sent.Accepted() {
		t.Fatalf("send after unblock: %+v %v", sent, err)
	}
}

func TestBlockSelf(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	alice := store.addUser(1, "alice@example.com")

	if _, err := s.BlockUser(context.Background(), alice, "alice@example.com"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

// makeFriends runs the request/accept flow between a and b.
func makeFriends(t *testing.T, s *Scheduler, store *memStore, a, b uint) {
	t.Helper()
	ctx := context.Background()
	target := store.user(b)
	if _, err := s.SendFriendRequest(ctx, store.user(a), target.Email, ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	res, err := s.AcceptFriendRequest(ctx, store.user(b), store.user(a).Email)
	if err != nil || !res.Accepted() {
		t.Fatalf("accept: %+v %v", res, err)
	}
}

func TestAcceptWithStaleSnapshotAfterAccept(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestScheduler(t)
	alice := store.addUser(1, "alice@example.com")
	store.addUser(2, "bob@example.com")
	if _, err := s.SendFriendRequest(ctx, alice, "bob@example.com", ""); err != nil {
		t.Fatalf("send: %v", err)
	}

	stale := store.user(2)
	if _, err := s.AcceptFriendRequest(ctx, stale, "alice@example.com"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := s.RemoveFriend(ctx, store.user(2), "alice@example.com"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.AcceptFriendRequest(ctx, stale, "alice@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.user(2).IsFriend(1) || store.user(1).IsFriend(2) {
		t.Fatalf("consumed request produced a friendship")
	}
}

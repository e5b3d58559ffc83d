package relationship

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"
)

// memStore is an in-memory Store. WithTx snapshots the state and restores it
// if fn fails.
type memStore struct {
	users       map[uint]User
	restaurants map[uint]Restaurant
	schedules   map[uint]Schedule
	nextID      uint

	// failApplyFor makes Apply fail for the given user, to exercise rollback.
	failApplyFor uint
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[uint]User{},
		restaurants: map[uint]Restaurant{},
		schedules:   map[uint]Schedule{},
		nextID:      100,
	}
}

func (m *memStore) addUser(id uint, email string) User {
	u := User{ID: id, Email: email}
	m.users[id] = u
	return u
}

func (m *memStore) addRestaurant(r Restaurant) {
	m.restaurants[r.ID] = r
}

func (m *memStore) user(id uint) User {
	return m.users[id].Clone()
}

func (m *memStore) Users() UserStore             { return memUsers{m} }
func (m *memStore) Restaurants() RestaurantStore { return memRestaurants{m} }
func (m *memStore) Schedules() ScheduleStore     { return memSchedules{m} }

func (m *memStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	users := make(map[uint]User, len(m.users))
	for id, u := range m.users {
		users[id] = u.Clone()
	}
	schedules := maps.Clone(m.schedules)

	if err := fn(m); err != nil {
		m.users = users
		m.schedules = schedules
		return err
	}
	return nil
}

type memUsers struct{ m *memStore }

func (s memUsers) FindByID(_ context.Context, id uint) (User, error) {
	u, ok := s.m.users[id]
	if !ok {
		return User{}, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return u.Clone(), nil
}

func (s memUsers) FindByEmail(_ context.Context, email string) (User, error) {
	for _, u := range s.m.users {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return User{}, fmt.Errorf("%w: user %s", ErrNotFound, email)
}

func (s memUsers) Apply(_ context.Context, c UserChange) error {
	if s.m.failApplyFor != 0 && c.UserID == s.m.failApplyFor {
		return fmt.Errorf("write to user %d failed", c.UserID)
	}
	u, ok := s.m.users[c.UserID]
	if !ok {
		return fmt.Errorf("%w: user %d", ErrNotFound, c.UserID)
	}
	if c.AppendRequest != nil && u.HasRequestFrom(c.AppendRequest.FromEmail) {
		return ErrDuplicateRequest
	}
	if email, missing := c.MissingRequest(u); missing {
		return fmt.Errorf("%w: no pending request from %s", ErrNotFound, email)
	}
	s.m.users[c.UserID] = c.ApplyTo(u)
	return nil
}

type memRestaurants struct{ m *memStore }

func (s memRestaurants) FindByID(_ context.Context, id uint) (Restaurant, error) {
	r, ok := s.m.restaurants[id]
	if !ok {
		return Restaurant{}, fmt.Errorf("%w: restaurant %d", ErrNotFound, id)
	}
	return r, nil
}

type memSchedules struct{ m *memStore }

func (s memSchedules) FindByID(_ context.Context, id uint) (Schedule, error) {
	sched, ok := s.m.schedules[id]
	if !ok {
		return Schedule{}, fmt.Errorf("%w: date %d", ErrNotFound, id)
	}
	return sched, nil
}

func (s memSchedules) Insert(_ context.Context, sched *Schedule) error {
	s.m.nextID++
	sched.ID = s.m.nextID
	sched.CreatedAt = time.Now()
	s.m.schedules[sched.ID] = *sched
	return nil
}

func (s memSchedules) UpdateStatus(_ context.Context, id uint, from, to DateStatus) error {
	sched, ok := s.m.schedules[id]
	if !ok {
		return fmt.Errorf("%w: date %d", ErrNotFound, id)
	}
	if sched.Status != from {
		return fmt.Errorf("%w: date %d is %s", ErrInvalidState, id, sched.Status)
	}
	sched.Status = to
	s.m.schedules[id] = sched
	return nil
}

func (s memSchedules) Delete(_ context.Context, id uint) error {
	if _, ok := s.m.schedules[id]; !ok {
		return fmt.Errorf("%w: date %d", ErrNotFound, id)
	}
	delete(s.m.schedules, id)
	return nil
}

func (s memSchedules) list(keep func(Schedule) bool) []Schedule {
	var out []Schedule
	for _, sched := range s.m.schedules {
		if keep(sched) {
			out = append(out, sched)
		}
	}
	slices.SortFunc(out, func(a, b Schedule) int { return int(a.ID) - int(b.ID) })
	return out
}

func (s memSchedules) ListForReceiver(_ context.Context, receiverID uint, status DateStatus, exclude []uint) ([]Schedule, error) {
	return s.list(func(sched Schedule) bool {
		return sched.ReceiverID == receiverID && sched.Status == status && !slices.Contains(exclude, sched.SenderID)
	}), nil
}

func (s memSchedules) ListForSender(_ context.Context, senderID uint, status DateStatus) ([]Schedule, error) {
	return s.list(func(sched Schedule) bool {
		return sched.SenderID == senderID && sched.Status == status
	}), nil
}

// recordingNotifier keeps every event it receives.
type recordingNotifier struct {
	events []Event
}

func (r *recordingNotifier) Notify(_ context.Context, ev Event) {
	r.events = append(r.events, ev)
}

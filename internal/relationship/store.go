package relationship

import "context"

// UserStore reads user snapshots and applies set-operation changes.
// Lookups of missing users return an error wrapping ErrNotFound.
type UserStore interface {
	FindByID(ctx context.Context, id uint) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	// Apply persists c. It returns ErrDuplicateRequest when c.AppendRequest
	// conflicts with a request already stored for the same sender.
	Apply(ctx context.Context, c UserChange) error
}

// RestaurantStore reads restaurant snapshots.
type RestaurantStore interface {
	FindByID(ctx context.Context, id uint) (Restaurant, error)
}

// ScheduleStore persists scheduled dates.
type ScheduleStore interface {
	FindByID(ctx context.Context, id uint) (Schedule, error)
	// Insert stores s and fills in its ID and CreatedAt.
	Insert(ctx context.Context, s *Schedule) error
	// UpdateStatus moves a schedule from one status to another. It returns
	// ErrInvalidState if the stored status is no longer from.
	UpdateStatus(ctx context.Context, id uint, from, to DateStatus) error
	Delete(ctx context.Context, id uint) error
	ListForReceiver(ctx context.Context, receiverID uint, status DateStatus, excludeSenders []uint) ([]Schedule, error)
	ListForSender(ctx context.Context, senderID uint, status DateStatus) ([]Schedule, error)
}

// Store groups the stores the Scheduler needs. WithTx runs fn against a
// transactional view; if fn returns an error nothing it wrote is kept.
type Store interface {
	Users() UserStore
	Restaurants() RestaurantStore
	Schedules() ScheduleStore
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

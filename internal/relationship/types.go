package relationship

import (
	"fmt"
	"slices"
	"time"
)

// FriendRequest is a pending request held by its receiver.
type FriendRequest struct {
	FromEmail string `json:"email"`
	Message   string `json:"message"`
}

// User is a snapshot of a user's relationship state as of the read that
// produced it.
type User struct {
	ID             uint
	Email          string
	Disabled       bool
	Friends        []uint
	BlockedUsers   []uint
	FriendRequests []FriendRequest
}

// IsFriend reports whether id is in u's friend set.
func (u User) IsFriend(id uint) bool {
	return slices.Contains(u.Friends, id)
}

// HasBlocked reports whether u has blocked id.
func (u User) HasBlocked(id uint) bool {
	return slices.Contains(u.BlockedUsers, id)
}

// RequestIndex returns the position of the first pending request from email, or -1.
func (u User) RequestIndex(email string) int {
	return slices.IndexFunc(u.FriendRequests, func(r FriendRequest) bool {
		return r.FromEmail == email
	})
}

// HasRequestFrom reports whether a request from email is pending.
func (u User) HasRequestFrom(email string) bool {
	return u.RequestIndex(email) >= 0
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	u.Friends = slices.Clone(u.Friends)
	u.BlockedUsers = slices.Clone(u.BlockedUsers)
	u.FriendRequests = slices.Clone(u.FriendRequests)
	return u
}

// Restaurant is a value snapshot of a restaurant record.
type Restaurant struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	City         string  `json:"city"`
	OpenTableURL string  `json:"open_table_url,omitempty"`
	ReviewRating float64 `json:"review_rating"`
	PriceRating  string  `json:"price_rating"`
	Category     string  `json:"category"`
	Lat          float64 `json:"lat"`
	Long         float64 `json:"long"`
}

// DateStatus is the state of a scheduled date.
type DateStatus string

const (
	StatusPending  DateStatus = "pending"
	StatusApproved DateStatus = "approved"
	StatusRejected DateStatus = "rejected"
)

// Terminal reports whether no further transition is allowed from s.
func (s DateStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ParseDateStatus validates a status string.
func ParseDateStatus(s string) (DateStatus, error) {
	switch st := DateStatus(s); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown date status %q", ErrInvalidRequest, s)
}

// DressType is the dress code proposed for a date.
type DressType string

const (
	DressDressy        DressType = "dressy"
	DressCasual        DressType = "casual"
	DressFormal        DressType = "formal"
	DressDiscretionary DressType = "whatever"
)

// ParseDressType validates a dress type string.
func ParseDressType(s string) (DressType, error) {
	switch dt := DressType(s); dt {
	case DressDressy, DressCasual, DressFormal, DressDiscretionary:
		return dt, nil
	}
	return "", fmt.Errorf("%w: unknown dress type %q", ErrInvalidRequest, s)
}

// Schedule is a proposed date between two users.
type Schedule struct {
	ID         uint
	SenderID   uint
	ReceiverID uint
	Restaurant Restaurant
	MeetTime   time.Time
	DressType  DressType
	Message    string
	Status     DateStatus
	CreatedAt  time.Time
}

// DateProposal carries the caller-supplied fields of a new date.
type DateProposal struct {
	RestaurantID uint
	MeetTime     time.Time
	DressType    DressType
	Message      string
}

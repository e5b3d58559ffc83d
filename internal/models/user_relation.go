package models

import "time"

// Friendship is one direction of a mutual friendship. Two rows, (A,B) and
// (B,A), always exist together; they are written in the same transaction.
// The composite primary key makes adding a friend an idempotent insert.
type Friendship struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	FriendID  uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

// UserBlock records that BlockerID has blocked BlockedID. Blocking is unilateral.
type UserBlock struct {
	BlockerID uint `gorm:"primaryKey;autoIncrement:false"`
	BlockedID uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

// FriendRequest is a pending request received by ReceiverID.
// The unique index allows at most one pending request per sender email.
// ID is monotonically increasing and gives the order requests were received in.
type FriendRequest struct {
	ID         uint   `gorm:"primaryKey"`
	ReceiverID uint   `gorm:"not null;uniqueIndex:idx_friend_requests_receiver_sender"`
	FromEmail  string `gorm:"size:255;not null;uniqueIndex:idx_friend_requests_receiver_sender"`
	Message    string
	CreatedAt  time.Time
}

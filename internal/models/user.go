package models

import "gorm.io/gorm"

// Roles a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// BanReason explains why an administrator disabled an account.
type BanReason string

const (
	BanReasonBugAbusing        BanReason = "bug_abusing"
	BanReasonFoulLanguage      BanReason = "foul_language"
	BanReasonDiscretionOfAdmin BanReason = "discretion_of_admin"
	BanReasonUnknown           BanReason = "unknown"
)

// User represents an account in the system.
// Friends, blocks and pending friend requests live in their own tables
// (see user_relation.go) and reference users only by ID.
type User struct {
	gorm.Model
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'user';index"`

	// Disabled accounts are rejected by the auth middleware.
	Disabled   bool       `gorm:"not null;default:false"`
	BanReason  *BanReason `gorm:"size:50"`
	BanMessage *string
	BannerID   *uint
}

package store

import (
	"context"
	"fmt"

	"datefinder/backend/internal/models"
	"datefinder/backend/internal/relationship"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserStore maps users and their relation tables to relationship.User.
type UserStore struct{ db *gorm.DB }

// Users returns the user store bound to s.
func (s *Store) Users() relationship.UserStore { return &UserStore{db: s.DB} }

// FindByID loads the user with the given id and its relations.
func (u *UserStore) FindByID(ctx context.Context, id uint) (relationship.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return relationship.User{}, notFound(err, "user %d", id)
	}
	return u.snapshot(ctx, user)
}

// FindByEmail loads the user with exactly this email and its relations.
func (u *UserStore) FindByEmail(ctx context.Context, email string) (relationship.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return relationship.User{}, notFound(err, "user %s", email)
	}
	return u.snapshot(ctx, user)
}

// snapshot loads the relation tables of user. Friends and blocks are ordered
// by when they were added, requests by arrival.
func (u *UserStore) snapshot(ctx context.Context, user models.User) (relationship.User, error) {
	db := u.db.WithContext(ctx)
	out := relationship.User{ID: user.ID, Email: user.Email, Disabled: user.Disabled}

	if err := db.Model(&models.Friendship{}).
		Where("user_id = ?", user.ID).
		Order("created_at, friend_id").
		Pluck("friend_id", &out.Friends).Error; err != nil {
		return relationship.User{}, fmt.Errorf("load friends: %w", err)
	}
	if err := db.Model(&models.UserBlock{}).
		Where("blocker_id = ?", user.ID).
		Order("created_at, blocked_id").
		Pluck("blocked_id", &out.BlockedUsers).Error; err != nil {
		return relationship.User{}, fmt.Errorf("load blocks: %w", err)
	}

	var requests []models.FriendRequest
	if err := db.Where("receiver_id = ?", user.ID).Order("id").Find(&requests).Error; err != nil {
		return relationship.User{}, fmt.Errorf("load friend requests: %w", err)
	}
	out.FriendRequests = make([]relationship.FriendRequest, 0, len(requests))
	for _, r := range requests {
		out.FriendRequests = append(out.FriendRequests, relationship.FriendRequest{FromEmail: r.FromEmail, Message: r.Message})
	}
	return out, nil
}

// Apply writes c as keyed inserts and deletes. Inserts skip rows that already
// exist, so replaying a change is harmless. A change that consumes requests
// fails with relationship.ErrNotFound when a request is already gone.
func (u *UserStore) Apply(ctx context.Context, c relationship.UserChange) error {
	db := u.db.WithContext(ctx)

	var n int64
	if err := db.Model(&models.User{}).Where("id = ?", c.UserID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: user %d", relationship.ErrNotFound, c.UserID)
	}

	if len(c.RemoveFriends) > 0 {
		if err := db.Where("user_id = ? AND friend_id IN ?", c.UserID, c.RemoveFriends).
			Delete(&models.Friendship{}).Error; err != nil {
			return fmt.Errorf("remove friends: %w", err)
		}
	}
	if len(c.AddFriends) > 0 {
		rows := make([]models.Friendship, 0, len(c.AddFriends))
		for _, id := range c.AddFriends {
			rows = append(rows, models.Friendship{UserID: c.UserID, FriendID: id})
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return fmt.Errorf("add friends: %w", err)
		}
	}

	if len(c.RemoveBlocked) > 0 {
		if err := db.Where("blocker_id = ? AND blocked_id IN ?", c.UserID, c.RemoveBlocked).
			Delete(&models.UserBlock{}).Error; err != nil {
			return fmt.Errorf("remove blocks: %w", err)
		}
	}
	if len(c.AddBlocked) > 0 {
		rows := make([]models.UserBlock, 0, len(c.AddBlocked))
		for _, id := range c.AddBlocked {
			rows = append(rows, models.UserBlock{BlockerID: c.UserID, BlockedID: id})
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return fmt.Errorf("add blocks: %w", err)
		}
	}

	if len(c.RemoveRequestsFrom) > 0 {
		res := db.Where("receiver_id = ? AND from_email IN ?", c.UserID, c.RemoveRequestsFrom).
			Delete(&models.FriendRequest{})
		if res.Error != nil {
			return fmt.Errorf("remove friend requests: %w", res.Error)
		}
		// A concurrent accept or decline already consumed the request.
		if c.ConsumeRequests && res.RowsAffected < int64(len(c.RemoveRequestsFrom)) {
			return fmt.Errorf("%w: noSuchRequest: friend request to user %d already handled", relationship.ErrNotFound, c.UserID)
		}
	}
	if c.AppendRequest != nil {
		req := models.FriendRequest{
			ReceiverID: c.UserID,
			FromEmail:  c.AppendRequest.FromEmail,
			Message:    c.AppendRequest.Message,
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&req)
		if res.Error != nil {
			return fmt.Errorf("append friend request: %w", res.Error)
		}
		// The unique (receiver_id, from_email) index swallowed the insert.
		if res.RowsAffected == 0 {
			return relationship.ErrDuplicateRequest
		}
	}
	return nil
}

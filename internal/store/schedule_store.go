package store

import (
	"context"
	"fmt"

	"datefinder/backend/internal/models"
	"datefinder/backend/internal/relationship"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ScheduleStore persists scheduled dates.
type ScheduleStore struct{ db *gorm.DB }

// Schedules returns the schedule store bound to s.
func (s *Store) Schedules() relationship.ScheduleStore { return &ScheduleStore{db: s.DB} }

func toSchedule(d models.ScheduledDate) relationship.Schedule {
	return relationship.Schedule{
		ID:         d.ID,
		SenderID:   d.SenderID,
		ReceiverID: d.ReceiverID,
		Restaurant: relationship.Restaurant(d.Restaurant.Data()),
		MeetTime:   d.MeetTime,
		DressType:  relationship.DressType(d.DressType),
		Message:    d.Message,
		Status:     relationship.DateStatus(d.Status),
		CreatedAt:  d.CreatedAt,
	}
}

// FindByID loads the date with the given id.
func (s *ScheduleStore) FindByID(ctx context.Context, id uint) (relationship.Schedule, error) {
	var row models.ScheduledDate
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return relationship.Schedule{}, notFound(err, "date %d", id)
	}
	return toSchedule(row), nil
}

// Insert stores sched and sets its ID and CreatedAt.
func (s *ScheduleStore) Insert(ctx context.Context, sched *relationship.Schedule) error {
	row := models.ScheduledDate{
		SenderID:     sched.SenderID,
		ReceiverID:   sched.ReceiverID,
		Status:       string(sched.Status),
		RestaurantID: sched.Restaurant.ID,
		Restaurant:   datatypes.NewJSONType(models.RestaurantSnapshot(sched.Restaurant)),
		MeetTime:     sched.MeetTime,
		DressType:    string(sched.DressType),
		Message:      sched.Message,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	sched.ID = row.ID
	sched.CreatedAt = row.CreatedAt
	return nil
}

// UpdateStatus only matches rows still in status from, so two concurrent
// decisions on the same date cannot both succeed.
func (s *ScheduleStore) UpdateStatus(ctx context.Context, id uint, from, to relationship.DateStatus) error {
	res := s.db.WithContext(ctx).Model(&models.ScheduledDate{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	current, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: date %d is %s", relationship.ErrInvalidState, id, current.Status)
}

// Delete removes the date outright.
func (s *ScheduleStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.ScheduledDate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: date %d", relationship.ErrNotFound, id)
	}
	return nil
}

// ListForReceiver lists dates received with status, skipping excludeSenders.
func (s *ScheduleStore) ListForReceiver(ctx context.Context, receiverID uint, status relationship.DateStatus, excludeSenders []uint) ([]relationship.Schedule, error) {
	q := s.db.WithContext(ctx).Where("receiver_id = ? AND status = ?", receiverID, string(status))
	if len(excludeSenders) > 0 {
		q = q.Where("sender_id NOT IN ?", excludeSenders)
	}
	return s.list(q)
}

// ListForSender lists dates sent with status.
func (s *ScheduleStore) ListForSender(ctx context.Context, senderID uint, status relationship.DateStatus) ([]relationship.Schedule, error) {
	return s.list(s.db.WithContext(ctx).Where("sender_id = ? AND status = ?", senderID, string(status)))
}

func (s *ScheduleStore) list(q *gorm.DB) ([]relationship.Schedule, error) {
	var rows []models.ScheduledDate
	if err := q.Order("meet_time, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]relationship.Schedule, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSchedule(row))
	}
	return out, nil
}

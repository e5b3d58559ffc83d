package models

import (
	"time"

	"gorm.io/datatypes"
)

// ScheduledDate is a date proposal from SenderID to ReceiverID.
// It has no soft-delete column: the only removal path deletes the row outright.
type ScheduledDate struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	SenderID     uint                                   `gorm:"not null;index"`
	ReceiverID   uint                                   `gorm:"not null;index:idx_scheduled_dates_receiver_status"`
	Status       string                                 `gorm:"size:20;not null;default:'pending';index:idx_scheduled_dates_receiver_status"`
	RestaurantID uint                                   `gorm:"not null"`
	Restaurant   datatypes.JSONType[RestaurantSnapshot] `gorm:"column:restaurant_snapshot;not null"`
	MeetTime     time.Time                              `gorm:"not null"`
	DressType    string                                 `gorm:"size:20;not null"`
	Message      string
}

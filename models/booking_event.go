package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	BookingEventCreated       = "created"
	BookingEventStatusChanged = "status_changed"
)

// BookingEvent is one entry of a booking's history. Snapshot holds the booking
// as it was right after the change.
type BookingEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BookingID uint           `gorm:"not null;index" json:"bookingId"`
	Type      string         `gorm:"size:32;not null" json:"type"`
	Status    BookingStatus  `gorm:"size:20;not null" json:"status"`
	Snapshot  datatypes.JSON `json:"snapshot"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (BookingEvent) TableName() string {
	return "booking_events"
}

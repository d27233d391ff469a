package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type BookingStatus string

const (
	StatusPending  BookingStatus = "Pending"
	StatusApproved BookingStatus = "Approved"
	StatusRejected BookingStatus = "Rejected"
)

var bookingStatuses = []BookingStatus{StatusPending, StatusApproved, StatusRejected}

// ParseBookingStatus upper-cases the first character, lower-cases the rest and
// matches the result against the known labels. Surrounding whitespace is kept,
// so " approved" does not parse.
func ParseBookingStatus(text string) (BookingStatus, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	first, size := utf8.DecodeRuneInString(text)
	normalized := string(unicode.ToUpper(first)) + strings.ToLower(text[size:])

	for _, s := range bookingStatuses {
		if string(s) == normalized {
			return s, true
		}
	}
	return "", false
}

type Booking struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	BookingNumber string        `gorm:"column:booking_number;uniqueIndex;size:20;not null" json:"bookingNumber"`
	Name          string        `gorm:"size:100;not null" json:"name"`
	Email         string        `gorm:"size:100;not null" json:"email"`
	Phone         string        `gorm:"size:20;not null" json:"phone"`
	Address       string        `gorm:"size:255;not null" json:"address"`
	Service       string        `gorm:"size:100;not null" json:"service"`
	Date          string        `gorm:"size:255;not null" json:"date"`
	Time          string        `gorm:"size:255;not null" json:"time"`
	Status        BookingStatus `gorm:"size:20;not null;default:Pending" json:"status"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

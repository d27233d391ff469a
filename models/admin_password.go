package models

import "time"

// AdminPassword is one of the shared secrets that unlock the admin panel.
// Password holds a bcrypt hash and is never serialised.
type AdminPassword struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func (AdminPassword) TableName() string {
	return "admin_passwords"
}

package models

import "time"

// Patient is the deduplicated identity a booking resolves to. Records are
// created on first sight and reused as-is afterwards, never refreshed with
// newer contact details.
type Patient struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:120;not null" json:"name"`
	Phone string `gorm:"size:40;index" json:"phone"`
	Email string `gorm:"size:120;index" json:"email"`

	Notes string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

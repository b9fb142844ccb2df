package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ServiceList stores the selected services as a JSON array column.
type ServiceList []string

func (s ServiceList) Value() (driver.Value, error) {
	if s == nil {
		s = ServiceList{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *ServiceList) Scan(value any) error {
	if value == nil {
		*s = ServiceList{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported services column type %T", value)
	}

	return json.Unmarshal(raw, s)
}

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Contact snapshot taken at booking time, kept even if the linked
	// patient record changes or disappears.
	Name  string `gorm:"size:120;not null;index" json:"name"`
	Phone string `gorm:"size:40" json:"phone"`
	Email string `gorm:"size:120" json:"email"`

	Services ServiceList `gorm:"type:jsonb" json:"services"`

	Date      time.Time `gorm:"type:date;index" json:"date"`
	StartTime string    `gorm:"size:5" json:"start_time"`
	Timeslot  string    `gorm:"size:40" json:"timeslot"`

	Status string `gorm:"size:10;default:'pending'" json:"status"`

	Notes string `gorm:"type:text" json:"notes"`

	PatientID *uint    `json:"patient_id"`
	Patient   *Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package domain

import (
	"time"
)

// Role is the resolved access level of an authenticated operator.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleCaregiver     Role = "caregiver"
)

// Patient is a subject whose blood pressure is tracked.
type Patient struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Age       int
	History   string
}

// Caregiver records measurements for patients. Its name doubles as the
// login identifier, so it carries a unique index.
type Caregiver struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string `gorm:"uniqueIndex"`
	Role      string
}

// Measurement is one timestamped blood pressure reading. Immutable once
// created; its diagnosis is derived from the values on every read, never
// stored.
type Measurement struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	PatientID   uint `gorm:"index;not null"`
	Patient     Patient
	CaregiverID uint `gorm:"index;not null"`
	Caregiver   Caregiver
	Timestamp   time.Time `gorm:"index"`
	Systolic    int
	Diastolic   int
}

// Session is the ephemeral identity of one authenticated interaction.
// Not persisted; lives in the session store for the interaction's lifetime.
type Session struct {
	Token       string    `json:"token"`
	Username    string    `json:"username"`
	Role        Role      `json:"role"`
	CaregiverID uint      `json:"caregiver_id,omitempty"` // zero for administrators
	CreatedAt   time.Time `json:"created_at"`
}

// IsAdmin reports whether the session carries administrator rights.
func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdministrator
}

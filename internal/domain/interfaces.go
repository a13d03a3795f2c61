package domain

import (
	"context"
	"time"
)

// PatientService handles patient registry operations
type PatientService interface {
	AddPatient(ctx context.Context, name string, age int, history string) (*Patient, error)
	GetPatient(ctx context.Context, id uint) (*Patient, error)
	ListPatients(ctx context.Context) ([]Patient, error)
}

// CaregiverService handles caregiver registry operations
type CaregiverService interface {
	AddCaregiver(ctx context.Context, name, role string) (*Caregiver, error)
	GetByName(ctx context.Context, name string) (*Caregiver, error)
	ListCaregivers(ctx context.Context) ([]Caregiver, error)
}

// MeasurementService handles blood pressure measurement operations
type MeasurementService interface {
	AddMeasurement(ctx context.Context, patientID, caregiverID uint, ts time.Time, systolic, diastolic int) (*Measurement, error)
	ListMeasurements(ctx context.Context, patientID uint) ([]Measurement, error)
	ListMeasurementsByCaregiver(ctx context.Context, patientID, caregiverID uint) ([]Measurement, error)
	LatestMeasurement(ctx context.Context, patientID uint) (*Measurement, error)
}

// AuthService resolves login credentials to an authenticated session
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*Session, error)
	Resolve(ctx context.Context, token string) (*Session, error)
}

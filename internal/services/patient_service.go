package services

import (
	"context"
	"errors"
	"strings"

	"github.com/medtrack/bp-monitor/internal/apperrors"
	"github.com/medtrack/bp-monitor/internal/domain"
	"gorm.io/gorm"
)

// Patient age bounds mirror the operator form limits.
const (
	minPatientAge = 0
	maxPatientAge = 120
)

type PatientService struct {
	db *gorm.DB
}

func NewPatientService(db *gorm.DB) *PatientService {
	return &PatientService{
		db: db,
	}
}

// AddPatient registers a new patient. Patients are never mutated afterwards.
func (s *PatientService) AddPatient(ctx context.Context, name string, age int, history string) (*domain.Patient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("patient name is required")
	}
	if age < minPatientAge || age > maxPatientAge {
		return nil, apperrors.NewValidationError("patient age must be between 0 and 120")
	}

	patient := &domain.Patient{
		Name:    name,
		Age:     age,
		History: history,
	}

	if err := s.db.WithContext(ctx).Create(patient).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	return patient, nil
}

// GetPatient fetches one patient by id.
func (s *PatientService) GetPatient(ctx context.Context, id uint) (*domain.Patient, error) {
	var patient domain.Patient
	if err := s.db.WithContext(ctx).First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewReferentialIntegrityError("patient does not exist").WithContext("patient_id", id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &patient, nil
}

// ListPatients returns all patients ordered by id.
func (s *PatientService) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	var patients []domain.Patient
	if err := s.db.WithContext(ctx).Order("id").Find(&patients).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return patients, nil
}

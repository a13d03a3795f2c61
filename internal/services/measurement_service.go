package services

import (
	"context"
	"errors"
	"time"

	"github.com/medtrack/bp-monitor/internal/apperrors"
	"github.com/medtrack/bp-monitor/internal/domain"
	"gorm.io/gorm"
)

// Measurement value bounds mirror the operator form limits. These guard
// the boundary only; classification itself is total over all integers.
const (
	minSystolic  = 50
	maxSystolic  = 250
	minDiastolic = 30
	maxDiastolic = 150
)

type MeasurementService struct {
	db *gorm.DB
}

func NewMeasurementService(db *gorm.DB) *MeasurementService {
	return &MeasurementService{
		db: db,
	}
}

// AddMeasurement records one reading for a patient under the caregiver who
// took it. The existence checks and the insert run in one transaction, so a
// failed write leaves no partial row behind. Measurements are immutable
// once created.
func (s *MeasurementService) AddMeasurement(ctx context.Context, patientID, caregiverID uint, ts time.Time, systolic, diastolic int) (*domain.Measurement, error) {
	if systolic < minSystolic || systolic > maxSystolic {
		return nil, apperrors.NewValidationError("systolic value out of range (50-250 mmHg)")
	}
	if diastolic < minDiastolic || diastolic > maxDiastolic {
		return nil, apperrors.NewValidationError("diastolic value out of range (30-150 mmHg)")
	}
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	measurement := &domain.Measurement{
		PatientID:   patientID,
		CaregiverID: caregiverID,
		Timestamp:   ts.UTC(),
		Systolic:    systolic,
		Diastolic:   diastolic,
	}

	err := withRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&domain.Patient{}).Where("id = ?", patientID).Count(&count).Error; err != nil {
				return apperrors.NewDatabaseError(err)
			}
			if count == 0 {
				return apperrors.NewReferentialIntegrityError("patient does not exist").WithContext("patient_id", patientID)
			}

			if err := tx.Model(&domain.Caregiver{}).Where("id = ?", caregiverID).Count(&count).Error; err != nil {
				return apperrors.NewDatabaseError(err)
			}
			if count == 0 {
				return apperrors.NewReferentialIntegrityError("caregiver does not exist").WithContext("caregiver_id", caregiverID)
			}

			if err := tx.Create(measurement).Error; err != nil {
				return apperrors.NewDatabaseError(err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return measurement, nil
}

// ListMeasurements returns every reading for a patient, ascending by
// timestamp. A patient with no readings yields an empty slice.
func (s *MeasurementService) ListMeasurements(ctx context.Context, patientID uint) ([]domain.Measurement, error) {
	var measurements []domain.Measurement
	if err := s.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("timestamp ASC").
		Find(&measurements).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return measurements, nil
}

// ListMeasurementsByCaregiver is the caregiver-scoped variant: only readings
// this caregiver recorded for the patient.
func (s *MeasurementService) ListMeasurementsByCaregiver(ctx context.Context, patientID, caregiverID uint) ([]domain.Measurement, error) {
	var measurements []domain.Measurement
	if err := s.db.WithContext(ctx).
		Where("patient_id = ? AND caregiver_id = ?", patientID, caregiverID).
		Order("timestamp ASC").
		Find(&measurements).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return measurements, nil
}

// LatestMeasurement returns the reading with the maximal timestamp, or
// (nil, nil) when the patient has none. Feeds the classification for the
// current-status display.
func (s *MeasurementService) LatestMeasurement(ctx context.Context, patientID uint) (*domain.Measurement, error) {
	var measurement domain.Measurement
	err := s.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("timestamp DESC").
		First(&measurement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &measurement, nil
}

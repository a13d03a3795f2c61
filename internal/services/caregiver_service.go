package services

import (
	"context"
	"errors"
	"strings"

	"github.com/medtrack/bp-monitor/internal/apperrors"
	"github.com/medtrack/bp-monitor/internal/domain"
	"gorm.io/gorm"
)

type CaregiverService struct {
	db *gorm.DB
}

func NewCaregiverService(db *gorm.DB) *CaregiverService {
	return &CaregiverService{
		db: db,
	}
}

// AddCaregiver registers a new caregiver. The name doubles as the login
// identifier, so it must be unique among caregivers; the check runs inside
// the insert transaction and the column carries a unique index as backstop.
func (s *CaregiverService) AddCaregiver(ctx context.Context, name, role string) (*domain.Caregiver, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("caregiver name is required")
	}
	if role == "" {
		role = "Caregiver"
	}

	caregiver := &domain.Caregiver{
		Name: name,
		Role: role,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Caregiver{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return apperrors.NewDatabaseError(err)
		}
		if count > 0 {
			return apperrors.NewValidationError("caregiver name already in use").WithContext("name", name)
		}
		if err := tx.Create(caregiver).Error; err != nil {
			return apperrors.NewDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return caregiver, nil
}

// GetByName fetches a caregiver by its exact login name.
func (s *CaregiverService) GetByName(ctx context.Context, name string) (*domain.Caregiver, error) {
	var caregiver domain.Caregiver
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&caregiver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &caregiver, nil
}

// ListCaregivers returns all caregivers ordered by id.
func (s *CaregiverService) ListCaregivers(ctx context.Context) ([]domain.Caregiver, error) {
	var caregivers []domain.Caregiver
	if err := s.db.WithContext(ctx).Order("id").Find(&caregivers).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return caregivers, nil
}

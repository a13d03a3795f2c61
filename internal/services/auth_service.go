package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/medtrack/bp-monitor/internal/apperrors"
	"github.com/medtrack/bp-monitor/internal/auth"
	"github.com/medtrack/bp-monitor/internal/domain"
	"github.com/medtrack/bp-monitor/internal/logger"
	"github.com/medtrack/bp-monitor/internal/session"
	"gorm.io/gorm"
)

// AuthService resolves a credential pair to a role and opens a session.
// Resolution order: the administrator list first (username and password must
// both match), then caregivers by exact name. Caregivers carry no password
// of their own, so the password is ignored on that path. The failure message
// is the same either way.
type AuthService struct {
	caregivers *CaregiverService
	admins     *auth.Source
	sessions   session.Store
}

func NewAuthService(caregivers *CaregiverService, admins *auth.Source, sessions session.Store) *AuthService {
	return &AuthService{
		caregivers: caregivers,
		admins:     admins,
		sessions:   sessions,
	}
}

// Authenticate checks the credentials and, on success, stores and returns a
// new session. The stored state is untouched on failure.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Session, error) {
	if s.admins.Match(username, password) {
		return s.openSession(ctx, domain.Session{
			Username: username,
			Role:     domain.RoleAdministrator,
		})
	}

	caregiver, err := s.caregivers.GetByName(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAuthenticationError()
		}
		return nil, err
	}

	return s.openSession(ctx, domain.Session{
		Username:    caregiver.Name,
		Role:        domain.RoleCaregiver,
		CaregiverID: caregiver.ID,
	})
}

// Resolve returns the session behind a token, if any.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	sess, ok := s.sessions.Get(ctx, token)
	if !ok {
		return nil, apperrors.NewAuthenticationError()
	}
	return sess, nil
}

// Logout discards a session. The core models no further transitions after
// authentication; this exists for the presentation boundary's convenience.
func (s *AuthService) Logout(ctx context.Context, token string) {
	s.sessions.Delete(ctx, token)
}

func (s *AuthService) openSession(ctx context.Context, sess domain.Session) (*domain.Session, error) {
	sess.Token = uuid.NewString()
	sess.CreatedAt = time.Now().UTC()
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "SESSION_STORE", "failed to store session")
	}
	logger.Info("session opened", "username", sess.Username, "role", sess.Role)
	return &sess, nil
}

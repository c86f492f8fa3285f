package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/haise314/exam-management-system/internal/models"
	"github.com/haise314/exam-management-system/pkg/config"
	appErrors "github.com/haise314/exam-management-system/pkg/errors"
)

type authTraineeReader interface {
	FindByIDNo(ctx context.Context, idNo string) (*models.Trainee, error)
}

// AuthService handles the two local logins: trainees identify by their
// unique ID number, the admin by username plus bcrypt-hashed password.
type AuthService struct {
	trainees authTraineeReader
	admin    config.AdminConfig
	logger   *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(trainees authTraineeReader, admin config.AdminConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{trainees: trainees, admin: admin, logger: logger}
}

// TraineeLogin resolves a trainee by ID number. Inactive trainees are
// refused.
func (s *AuthService) TraineeLogin(ctx context.Context, idNo string) (*models.Trainee, error) {
	trainee, err := s.trainees.FindByIDNo(ctx, idNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "unknown ID number")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "login lookup failed")
	}
	if trainee.Status == models.TraineeStatusInactive {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "")
	}
	s.logger.Info("trainee logged in", zap.String("trainee_id", trainee.ID))
	return trainee, nil
}

// AdminLogin checks the configured admin credentials.
func (s *AuthService) AdminLogin(_ context.Context, username, password string) error {
	if username != s.admin.Username || s.admin.PasswordHash == "" {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)); err != nil {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ratotecki/smartgridlab-api/internal/dto"
	"github.com/ratotecki/smartgridlab-api/internal/models"
	"github.com/ratotecki/smartgridlab-api/internal/repository"
)

const userEntityType = "user"

var (
	// ErrBootstrapDisabled indicates the bootstrap route is not
	// available in this environment.
	ErrBootstrapDisabled = errors.New("admin bootstrap is disabled")
	// ErrEmailInUse indicates the email is already registered.
	ErrEmailInUse = errors.New("email already in use")
)

// BootstrapService creates the first administrator account. It exists
// only for development environments; production disables it entirely.
type BootstrapService interface {
	CreateAdmin(ctx context.Context, req dto.BootstrapAdminRequest, meta RequestMeta) (dto.UserResponse, error)
}

type bootstrapService struct {
	users     repository.UserRepository
	validator *validator.Validate
	recorder  ActivityRecorder
	enabled   bool
	logger    zerolog.Logger
}

// NewBootstrapService constructs the bootstrap service.
func NewBootstrapService(users repository.UserRepository, validate *validator.Validate, recorder ActivityRecorder, enabled bool, logger zerolog.Logger) BootstrapService {
	return &bootstrapService{
		users:     users,
		validator: validate,
		recorder:  recorder,
		enabled:   enabled,
		logger:    logger.With().Str("component", "bootstrap_service").Logger(),
	}
}

func (s *bootstrapService) CreateAdmin(ctx context.Context, req dto.BootstrapAdminRequest, meta RequestMeta) (dto.UserResponse, error) {
	if !s.enabled {
		return dto.UserResponse{}, ErrBootstrapDisabled
	}

	if err := s.validator.Struct(req); err != nil {
		s.recorder.Record(ctx, ActivityEntry{
			Action:     "user.create.validation_failed",
			EntityType: userEntityType,
			Details:    map[string]interface{}{"email": req.Email},
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		return dto.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		IsAdmin:      true,
	}

	// Single constrained insert; the unique index on email decides
	// duplicates instead of a read-then-write check.
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.recorder.Record(ctx, ActivityEntry{
				Action:     "user.create.email_in_use",
				EntityType: userEntityType,
				Details:    map[string]interface{}{"email": user.Email},
				IPAddress:  meta.IPAddress,
				UserAgent:  meta.UserAgent,
			})
			return dto.UserResponse{}, ErrEmailInUse
		}

		s.recorder.Record(ctx, ActivityEntry{
			Action:     "user.create.system_error",
			EntityType: userEntityType,
			Details:    map[string]interface{}{"email": user.Email, "reason": err.Error()},
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		})
		return dto.UserResponse{}, err
	}

	s.recorder.Record(ctx, ActivityEntry{
		UserID:     &user.ID,
		Action:     "user.create.success",
		EntityType: userEntityType,
		EntityID:   &user.ID,
		Details:    map[string]interface{}{"email": user.Email, "is_admin": true},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})

	return dto.NewUserResponse(user), nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ratotecki/smartgridlab-api/internal/dto"
	"github.com/ratotecki/smartgridlab-api/internal/observability"
	"github.com/ratotecki/smartgridlab-api/internal/repository"
)

var (
	// ErrInvalidCredentials covers missing credentials, unknown accounts
	// and password mismatches; callers cannot tell these apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthorized indicates valid credentials for a non-admin
	// account. This system rejects such logins outright.
	ErrNotAuthorized = errors.New("not authorized")
)

// AuthService verifies credentials and issues session tokens.
type AuthService interface {
	Authenticate(ctx context.Context, req dto.LoginRequest, meta RequestMeta) (dto.UserResponse, string, error)
}

type authService struct {
	users    repository.UserRepository
	sessions *SessionManager
	recorder ActivityRecorder
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, sessions *SessionManager, recorder ActivityRecorder, logger zerolog.Logger) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		recorder: recorder,
		logger:   logger.With().Str("component", "auth_service").Logger(),
		tracer:   otel.Tracer("github.com/ratotecki/smartgridlab-api/internal/service/auth"),
	}
}

// Authenticate looks the account up by email and verifies the password
// against the stored bcrypt hash. Every outcome is recorded in the
// activity log with a distinct tag before returning.
func (s *authService) Authenticate(ctx context.Context, req dto.LoginRequest, meta RequestMeta) (dto.UserResponse, string, error) {
	ctx, span := s.tracer.Start(ctx, "auth.authenticate")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if email == "" || req.Password == "" {
		s.recordLogin(ctx, "login.failed.missing_credentials", nil, email, meta)
		observability.LoginAttempts().WithLabelValues("missing_credentials").Inc()
		span.SetStatus(codes.Error, "missing credentials")
		return dto.UserResponse{}, "", ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordLogin(ctx, "login.failed.user_not_found", nil, email, meta)
			observability.LoginAttempts().WithLabelValues("user_not_found").Inc()
			span.SetStatus(codes.Error, "user not found")
			return dto.UserResponse{}, "", ErrInvalidCredentials
		}
		s.recordLogin(ctx, "login.failed.system_error", nil, email, meta)
		observability.LoginAttempts().WithLabelValues("system_error").Inc()
		span.RecordError(err)
		return dto.UserResponse{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordLogin(ctx, "login.failed.password_incorrect", &user.ID, email, meta)
		observability.LoginAttempts().WithLabelValues("password_incorrect").Inc()
		span.SetStatus(codes.Error, "password mismatch")
		return dto.UserResponse{}, "", ErrInvalidCredentials
	}

	if !user.IsAdmin {
		s.recordLogin(ctx, "login.failed.not_admin", &user.ID, email, meta)
		observability.LoginAttempts().WithLabelValues("not_admin").Inc()
		span.SetStatus(codes.Error, "not admin")
		return dto.UserResponse{}, "", ErrNotAuthorized
	}

	principal := Principal{UserID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin}

	token, err := s.sessions.Issue(principal)
	if err != nil {
		s.recordLogin(ctx, "login.failed.system_error", &user.ID, email, meta)
		observability.LoginAttempts().WithLabelValues("system_error").Inc()
		span.RecordError(err)
		return dto.UserResponse{}, "", err
	}

	s.recordLogin(ctx, "login.success", &user.ID, email, meta)
	observability.LoginAttempts().WithLabelValues("success").Inc()

	return dto.NewUserResponse(*user), token, nil
}

func (s *authService) recordLogin(ctx context.Context, action string, userID *uint, email string, meta RequestMeta) {
	if email == "" {
		email = "N/A"
	}
	s.recorder.Record(ctx, ActivityEntry{
		UserID:    userID,
		Action:    action,
		Details:   map[string]interface{}{"email": email},
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
}

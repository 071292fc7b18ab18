package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/studentcrm/internal/app/models"
	"github.com/yigit/studentcrm/internal/app/models/dto"
	"github.com/yigit/studentcrm/internal/app/repositories"
	"github.com/yigit/studentcrm/internal/pkg/apperrors"
	"github.com/yigit/studentcrm/internal/pkg/auth"
	"github.com/yigit/studentcrm/internal/pkg/ratelimit"
	"github.com/yigit/studentcrm/internal/pkg/validation"
)

// AuthService handles signup, login and password recovery
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtService *auth.JWTService
	limiter    ratelimit.Limiter
	logger     zerolog.Logger
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService. A nil limiter disables login throttling.
func NewAuthService(
	userRepo repositories.UserRepository,
	jwtService *auth.JWTService,
	limiter ratelimit.Limiter,
	logger zerolog.Logger,
) *AuthService {
	if limiter == nil {
		limiter = ratelimit.NoopLimiter{}
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		limiter:    limiter,
		logger:     logger.With().Str("service", "auth").Logger(),
		now:        time.Now,
	}
}

// Signup registers a new account. Password and security answer are hashed
// separately; a taken email fails with ErrEmailAlreadyExists and leaves the
// stored account untouched.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := checkSecrets([]string{"password", "securityAnswer"}, req.Password, normalizeAnswer(req.SecurityAnswer)); err != nil {
		return nil, err
	}
	email := validation.NormalizeEmail(req.Email)

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	answerHash, err := auth.HashPassword(normalizeAnswer(req.SecurityAnswer))
	if err != nil {
		return nil, fmt.Errorf("error hashing security answer: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(req.Name),
		Email:              email,
		Contact:            strings.TrimSpace(req.Contact),
		PasswordHash:       passwordHash,
		SecurityQuestion:   strings.TrimSpace(req.SecurityQuestion),
		SecurityAnswerHash: answerHash,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			s.logger.Info().Str("email", email).Msg("Signup rejected, email already registered")
		}
		return nil, err
	}

	s.logger.Info().Str("userId", user.ID).Msg("User registered")
	return dto.NewUserResponse(user), nil
}

// Login checks credentials and issues an access token. Unknown email and
// wrong password fail identically with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	email := validation.NormalizeEmail(req.Email)

	allowed, retryAfter, err := s.limiter.Allowed(ctx, email)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Login limiter unavailable, allowing attempt")
	} else if !allowed {
		return nil, apperrors.NewCustomError(apperrors.ErrTooManyAttempts, "Too many failed login attempts, try again later").
			WithDetails(map[string]interface{}{"retryAfterSeconds": int(retryAfter.Seconds())})
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		// keep response time independent of whether the account exists
		auth.CheckPassword(s.fallbackHash(), req.Password)
		s.recordFailure(ctx, email)
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.recordFailure(ctx, email)
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to reset login attempts")
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	s.logger.Info().Str("userId", user.ID).Msg("User logged in")
	return &dto.LoginResponse{
		Message:   "Login successful",
		User:      dto.NewUserResponse(user),
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
	}, nil
}

// ForgotPassword replaces the password when the security answer matches.
// Unknown email is ErrUserNotFound, a wrong answer ErrInvalidSecurityAnswer;
// neither changes stored state.
func (s *AuthService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	if err := checkSecrets([]string{"securityAnswer", "newPassword"}, normalizeAnswer(req.SecurityAnswer), req.NewPassword); err != nil {
		return err
	}
	email := validation.NormalizeEmail(req.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.SecurityAnswerHash, normalizeAnswer(req.SecurityAnswer)) {
		s.logger.Info().Str("userId", user.ID).Msg("Password reset rejected, wrong security answer")
		return apperrors.ErrInvalidSecurityAnswer
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.Info().Str("userId", user.ID).Msg("Password reset")
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record login attempt")
	}
}

// fallbackHash is compared against when the account does not exist.
func (s *AuthService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		hash, err := auth.HashPassword(uuid.NewString())
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to build fallback hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func checkSecrets(names []string, values ...string) error {
	if name, tooLong := validation.TooLongSecret(names, values...); tooLong {
		return apperrors.NewValidationError(fmt.Sprintf("%s must be at most %d bytes", name, validation.SecretMaxBytes))
	}
	return nil
}

// normalizeAnswer trims surrounding whitespace; case is significant.
func normalizeAnswer(answer string) string {
	return strings.TrimSpace(answer)
}

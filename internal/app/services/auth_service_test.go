package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentcrm/internal/app/models/dto"
	"github.com/yigit/studentcrm/internal/app/repositories"
	"github.com/yigit/studentcrm/internal/pkg/apperrors"
	"github.com/yigit/studentcrm/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

// countingLimiter blocks after max recorded failures.
type countingLimiter struct {
	max      int
	failures map[string]int
	err      error
}

func newCountingLimiter(max int) *countingLimiter {
	return &countingLimiter{max: max, failures: map[string]int{}}
}

func (l *countingLimiter) Allowed(_ context.Context, key string) (bool, time.Duration, error) {
	if l.err != nil {
		return false, 0, l.err
	}
	if l.failures[key] >= l.max {
		return false, time.Minute, nil
	}
	return true, 0, nil
}

func (l *countingLimiter) RecordFailure(_ context.Context, key string) error {
	l.failures[key]++
	return nil
}

func (l *countingLimiter) Reset(_ context.Context, key string) error {
	delete(l.failures, key)
	return nil
}

func newTestAuthService(limiter *countingLimiter) (*AuthService, *repositories.MemoryUserRepository) {
	users := repositories.NewMemoryUserRepository()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "studentcrm-test",
	})
	if limiter == nil {
		return NewAuthService(users, jwtService, nil, zerolog.Nop()), users
	}
	return NewAuthService(users, jwtService, limiter, zerolog.Nop()), users
}

func signupRequest() *dto.SignupRequest {
	return &dto.SignupRequest{
		Name:             "Asha",
		Email:            "Asha@Example.com",
		Contact:          "98765",
		Password:         "secret1",
		SecurityQuestion: "First school?",
		SecurityAnswer:   "St. Mary",
	}
}

func TestSignup(t *testing.T) {
	svc, users := newTestAuthService(nil)
	ctx := context.Background()

	user, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.NotEmpty(t, user.ID)

	stored, err := users.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, auth.CheckPassword(stored.PasswordHash, "secret1"))
	assert.True(t, auth.CheckPassword(stored.SecurityAnswerHash, "St. Mary"))
	assert.Equal(t, "First school?", stored.SecurityQuestion)
}

func TestSignup_DuplicateEmailKeepsHash(t *testing.T) {
	svc, users := newTestAuthService(nil)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	before, err := users.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)

	again := signupRequest()
	again.Email = "ASHA@example.com"
	again.Password = "different1"
	_, err = svc.Signup(ctx, again)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	after, err := users.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newTestAuthService(nil)
	tests := []struct {
		name   string
		mutate func(*dto.SignupRequest)
	}{
		{"bad email", func(r *dto.SignupRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *dto.SignupRequest) { r.Password = "12345" }},
		{"missing answer", func(r *dto.SignupRequest) { r.SecurityAnswer = "" }},
		{"missing name", func(r *dto.SignupRequest) { r.Name = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := signupRequest()
			tt.mutate(req)
			_, err := svc.Signup(context.Background(), req)
			var verrs validator.ValidationErrors
			assert.True(t, errors.As(err, &verrs), "got %v", err)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(nil)
	ctx := context.Background()
	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	claims, err := svc.jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "asha@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_Throttled(t *testing.T) {
	limiter := newCountingLimiter(2)
	svc, _ := newTestAuthService(limiter)
	ctx := context.Background()
	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	bad := &dto.LoginRequest{Email: "asha@example.com", Password: "wrong-password"}
	for i := 0; i < 2; i++ {
		_, err = svc.Login(ctx, bad)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "asha@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrTooManyAttempts, "even the right password is refused while blocked")

	var custom *apperrors.CustomError
	require.True(t, errors.As(err, &custom))
	assert.Equal(t, 60, custom.Details["retryAfterSeconds"])
}

func TestLogin_SuccessResetsFailures(t *testing.T) {
	limiter := newCountingLimiter(3)
	svc, _ := newTestAuthService(limiter)
	ctx := context.Background()
	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "asha@example.com", Password: "wrong-password"})
	require.Error(t, err)
	assert.Equal(t, 1, limiter.failures["asha@example.com"])

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Zero(t, limiter.failures["asha@example.com"])
}

func TestLogin_LimiterFailureAllowsAttempt(t *testing.T) {
	limiter := newCountingLimiter(1)
	limiter.err = errors.New("redis down")
	svc, _ := newTestAuthService(limiter)
	ctx := context.Background()
	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "asha@example.com", Password: "secret1"})
	assert.NoError(t, err)
}

func TestForgotPassword(t *testing.T) {
	svc, users := newTestAuthService(nil)
	ctx := context.Background()
	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	before, err := users.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)

	err = svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{
		Email: "asha@example.com", SecurityAnswer: "wrong", NewPassword: "newpass1",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidSecurityAnswer)
	unchanged, err := users.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, unchanged.PasswordHash)

	err = svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{
		Email: "ghost@example.com", SecurityAnswer: "St. Mary", NewPassword: "newpass1",
	})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	err = svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{
		Email: "asha@example.com", SecurityAnswer: " St. Mary ", NewPassword: "newpass1",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "asha@example.com", Password: "newpass1"})
	assert.NoError(t, err)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "asha@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLongSecretsAreRejected(t *testing.T) {
	svc, users := newTestAuthService(nil)
	ctx := context.Background()
	long := strings.Repeat("x", 73)

	req := signupRequest()
	req.Password = long
	_, err := svc.Signup(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	req = signupRequest()
	req.SecurityAnswer = long
	_, err = svc.Signup(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	before, err := users.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)

	err = svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{
		Email: "asha@example.com", SecurityAnswer: "St. Mary", NewPassword: long,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{
		Email: "asha@example.com", SecurityAnswer: long, NewPassword: "newpass1",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	after, err := users.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
}

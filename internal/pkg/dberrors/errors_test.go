package dberrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/studentcrm/internal/pkg/apperrors"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	assert.True(t, IsDuplicateConstraintError(err, "users_email_key"))
	assert.False(t, IsDuplicateConstraintError(err, "other_key"))
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("noop", nil))

	deadline := Wrap("find", fmt.Errorf("query: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, deadline, context.DeadlineExceeded)
	assert.NotErrorIs(t, deadline, apperrors.ErrStorage)

	failed := Wrap("find", errors.New("syntax error"))
	assert.ErrorIs(t, failed, apperrors.ErrStorage)
	assert.Contains(t, failed.Error(), "find")

	down := Wrap("connect", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})
	assert.ErrorIs(t, down, apperrors.ErrStorageUnavailable)
}

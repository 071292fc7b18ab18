package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/yigit/studentcrm/internal/app/models/dto"
	"github.com/yigit/studentcrm/internal/pkg/apperrors"
)

// HandleAPIError maps err onto a status code and the standard error body
func HandleAPIError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	var custom *apperrors.CustomError
	hasCustom := errors.As(err, &custom)

	// message prefers the CustomError text over the fallback
	message := func(fallback string) string {
		if hasCustom && custom.Message != "" {
			return custom.Message
		}
		return fallback
	}
	respond := func(status int, code dto.ErrorCode, msg string) {
		detail := dto.NewErrorDetail(code, msg)
		if hasCustom && len(custom.Details) > 0 {
			detail.WithDetails(custom.Details)
		}
		c.JSON(status, dto.NewErrorResponse(detail))
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		respond(http.StatusBadRequest, dto.ErrorCodeValidationFailed, message("Validation failed"))
	case errors.Is(err, apperrors.ErrStudentNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound, message("Student not found"))
	case errors.Is(err, apperrors.ErrUserNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound, message("User not found"))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound, message("Resource not found"))
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, message("Email already exists"))
	case errors.Is(err, apperrors.ErrConflict):
		respond(http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, message("Resource already exists"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(http.StatusBadRequest, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrInvalidSecurityAnswer):
		respond(http.StatusBadRequest, dto.ErrorCodeInvalidAnswer, "Incorrect security answer")
	case errors.Is(err, apperrors.ErrTooManyAttempts):
		if hasCustom {
			if secs, ok := custom.Details["retryAfterSeconds"].(int); ok && secs > 0 {
				c.Header("Retry-After", strconv.Itoa(secs))
			}
		}
		respond(http.StatusTooManyRequests, dto.ErrorCodeTooManyAttempts, message("Too many failed attempts"))
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Authentication required")
	case errors.Is(err, context.DeadlineExceeded):
		logFailure(c, err, "Request timed out")
		respond(http.StatusGatewayTimeout, dto.ErrorCodeTimeout, "Request timed out")
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		logFailure(c, err, "Storage unavailable")
		respond(http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Storage unavailable")
	case errors.Is(err, apperrors.ErrStorage):
		logFailure(c, err, "Storage failure")
		respond(http.StatusInternalServerError, dto.ErrorCodeDatabaseError, "Storage failure")
	default:
		logFailure(c, err, "Unhandled error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}

// logFailure logs server-side failures through the request logger. Storage
// causes stay in the log and never reach the response body.
func logFailure(c *gin.Context, err error, msg string) {
	zerolog.Ctx(c.Request.Context()).Error().Err(err).
		Str("path", c.Request.URL.Path).
		Msg(msg)
}

// NotFoundHandler answers unmatched routes
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Route not found")))
	}
}

// MethodNotAllowedHandler answers known routes called with the wrong method
func MethodNotAllowedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeMethodNotAllowed, "Method not allowed")))
	}
}

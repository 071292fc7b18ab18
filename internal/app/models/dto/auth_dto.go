package dto

import (
	"time"

	"github.com/yigit/studentcrm/internal/app/models"
)

// SignupRequest represents a new account registration
type SignupRequest struct {
	Name             string `json:"name" binding:"required" validate:"required"`
	Email            string `json:"email" binding:"required,email" validate:"required,email"`
	Contact          string `json:"contact"`
	Password         string `json:"password" binding:"required,min=6" validate:"required,min=6"`
	SecurityQuestion string `json:"securityQuestion" binding:"required" validate:"required"`
	SecurityAnswer   string `json:"securityAnswer" binding:"required" validate:"required"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// ForgotPasswordRequest resets a password by answering the security question
type ForgotPasswordRequest struct {
	Email          string `json:"email" binding:"required,email" validate:"required,email"`
	SecurityAnswer string `json:"securityAnswer" binding:"required" validate:"required"`
	NewPassword    string `json:"newPassword" binding:"required,min=6" validate:"required,min=6"`
}

// UserResponse represents basic user information, never any hash
type UserResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Contact          string    `json:"contact,omitempty"`
	SecurityQuestion string    `json:"securityQuestion"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewUserResponse maps a stored user onto its public view
func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Contact:          u.Contact,
		SecurityQuestion: u.SecurityQuestion,
		CreatedAt:        u.CreatedAt,
	}
}

// SignupResponse is returned with 201 on signup
type SignupResponse struct {
	Message string        `json:"message"`
	User    *UserResponse `json:"user"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Message   string        `json:"message"`
	User      *UserResponse `json:"user"`
	Token     string        `json:"token"`
	TokenType string        `json:"tokenType" example:"Bearer"`
	ExpiresIn int           `json:"expiresIn"`
}

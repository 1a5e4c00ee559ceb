package dto

import (
	"time"

	model "feeportal_backend/internals/features/users/auth/model"
)

/* ===================== Requests ===================== */

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
	// Role the client is signing in as; "student" unless an existing
	// admin account matches.
	Role string `json:"role" validate:"omitempty,oneof=admin student"`
}

type PasswordLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

/* ===================== Responses ===================== */

type UserResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
	// Set when the login linked a student profile to this account.
	StudentID string `json:"student_id,omitempty"`
}

func FromUserModel(u *model.User) UserResponse {
	return UserResponse{
		UserID: u.UserID.String(),
		Name:   u.UserName,
		Email:  u.UserEmail,
		Role:   u.UserRole,
	}
}

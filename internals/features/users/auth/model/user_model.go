package model

import (
	"time"

	"github.com/google/uuid"

	"feeportal_backend/internals/constants"
)

type User struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey" json:"user_id"`

	UserName  string `gorm:"column:user_name;type:varchar(128);not null" json:"user_name"`
	UserEmail string `gorm:"column:user_email;type:varchar(255);not null;uniqueIndex" json:"user_email"`
	UserRole  string `gorm:"column:user_role;type:varchar(16);not null" json:"user_role"`

	// Google subject claim; set for federated sign-ins
	UserGoogleSub *string `gorm:"column:user_google_sub;type:varchar(64)" json:"-"`

	// bcrypt hash; only bootstrap admin accounts carry one
	UserPasswordHash *string `gorm:"column:user_password_hash" json:"-"`

	CreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UpdatedAt time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.UserRole == constants.RoleAdmin }

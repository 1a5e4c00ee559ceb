package model

import (
	"time"

	"gorm.io/gorm"
)

// TokenBlacklist holds access tokens revoked by logout until they expire.
type TokenBlacklist struct {
	TokenID        uint           `gorm:"column:token_id;primaryKey;autoIncrement" json:"token_id"`
	TokenValue     string         `gorm:"column:token_value;not null;index" json:"-"`
	TokenExpiresAt time.Time      `gorm:"column:token_expires_at;not null;index" json:"token_expires_at"`
	TokenCreatedAt time.Time      `gorm:"column:token_created_at;autoCreateTime" json:"token_created_at"`
	TokenDeletedAt gorm.DeletedAt `gorm:"column:token_deleted_at;index" json:"-"`
}

func (TokenBlacklist) TableName() string { return "token_blacklist" }

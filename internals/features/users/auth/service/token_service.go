package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	model "feeportal_backend/internals/features/users/auth/model"
)

const TokenTTL = 24 * time.Hour

// TokenService issues and revokes the access tokens the auth middleware
// validates. Claims carry exactly what request handling needs: subject,
// role and display name.
type TokenService struct {
	secret  []byte
	ttl     time.Duration
	nowFunc func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: TokenTTL, nowFunc: time.Now}
}

func (s *TokenService) Issue(u *model.User) (string, time.Time, error) {
	now := s.nowFunc()
	expiresAt := now.Add(s.ttl)

	claims := jwt.MapClaims{
		"sub":  u.UserID.String(),
		"role": u.UserRole,
		"name": u.UserName,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Revoke blacklists a token until its natural expiry; the cleanup
// scheduler removes the row afterwards.
func (s *TokenService) Revoke(ctx context.Context, db *gorm.DB, token string, expiresAt time.Time) error {
	if expiresAt.IsZero() {
		expiresAt = s.nowFunc().Add(s.ttl)
	}
	entry := model.TokenBlacklist{
		TokenValue:     token,
		TokenExpiresAt: expiresAt,
	}
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

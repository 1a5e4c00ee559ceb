package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"feeportal_backend/internals/constants"
	model "feeportal_backend/internals/features/users/auth/model"
)

type stubVerifier struct {
	claims *GoogleClaims
	err    error
}

func (s *stubVerifier) Verify(ctx context.Context, idToken string) (*GoogleClaims, error) {
	return s.claims, s.err
}

func TestLoginWithGoogleRejectsBadToken(t *testing.T) {
	svc := NewAuthService(nil, &stubVerifier{err: ErrInvalidIDToken})

	_, err := svc.LoginWithGoogle(context.Background(), "garbage", "")
	assert.ErrorIs(t, err, ErrInvalidIDToken)
}

func TestLoginWithGoogleRequiresEmailClaim(t *testing.T) {
	svc := NewAuthService(nil, &stubVerifier{claims: &GoogleClaims{Sub: "g-123", Name: "No Email"}})

	_, err := svc.LoginWithGoogle(context.Background(), "token", "")
	assert.ErrorIs(t, err, ErrInvalidIDToken)
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pass")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")))
}

func TestTokenServiceIssue(t *testing.T) {
	svc := NewTokenService("test-secret")
	user := &model.User{
		UserID:   uuid.New(),
		UserName: "Asha Verma",
		UserRole: constants.RoleStudent,
	}

	token, expiresAt, err := svc.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), expiresAt, 5*time.Second)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, user.UserID.String(), claims["sub"])
	assert.Equal(t, constants.RoleStudent, claims["role"])
	assert.Equal(t, "Asha Verma", claims["name"])
}

func TestTokenServiceRejectsTamperedSecret(t *testing.T) {
	svc := NewTokenService("issuer-secret")
	user := &model.User{UserID: uuid.New(), UserRole: constants.RoleAdmin}

	token, _, err := svc.Issue(user)
	require.NoError(t, err)

	_, err = jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

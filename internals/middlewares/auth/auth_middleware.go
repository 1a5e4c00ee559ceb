package auth

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"feeportal_backend/internals/configs"
	authModel "feeportal_backend/internals/features/users/auth/model"
)

// AuthMiddleware validates the bearer token (or the access_token cookie,
// so the printable receipt page works from a plain browser navigation),
// rejects blacklisted tokens and stores the caller identity in locals.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		// blacklist check, once per request
		if c.Locals("token_checked") == nil {
			var existing authModel.TokenBlacklist
			if err := db.WithContext(c.UserContext()).
				Where("token_value = ? AND token_deleted_at IS NULL", tokenString).
				First(&existing).Error; err == nil {
				log.Println("[WARNING] Token found in blacklist")
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Println("[ERROR] DB error during blacklist check:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
			c.Locals("token_checked", true)
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secretKey), nil
		}); err != nil {
			log.Println("[ERROR] Token parse failed:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		role, _ := claims["role"].(string)
		name, _ := claims["name"].(string)

		c.Locals("user_id", sub)
		c.Locals("userRole", role)
		c.Locals("userName", name)
		c.Locals("raw_token", tokenString)
		c.Locals("token_exp", tokenExpiry(claims))

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if tok := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); tok != "" {
			return tok, nil
		}
	}
	if tok := c.Cookies("access_token"); tok != "" {
		return tok, nil
	}
	return "", errors.New("Unauthorized - Missing token")
}

// validateTokenExpiry allows a small leeway for clock skew
func validateTokenExpiry(claims jwt.MapClaims, leeway time.Duration) error {
	exp, ok := claims["exp"].(float64)
	if !ok {
		return errors.New("missing exp claim")
	}
	if time.Now().Add(-leeway).After(time.Unix(int64(exp), 0)) {
		return errors.New("token expired")
	}
	return nil
}

func tokenExpiry(claims jwt.MapClaims) time.Time {
	if exp, ok := claims["exp"].(float64); ok {
		return time.Unix(int64(exp), 0)
	}
	return time.Now()
}

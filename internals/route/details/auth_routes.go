package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	mw "feeportal_backend/internals/middlewares"
	authMiddleware "feeportal_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB, c Controllers) {
	auth := app.Group("/auth", mw.LoginRateLimiter())

	auth.Post("/login", c.Auth.LoginPassword)
	auth.Post("/login/google", c.Auth.LoginGoogle)
	auth.Get("/google/url", c.Auth.GoogleAuthURL)
	auth.Get("/google/callback", c.Auth.GoogleCallback)

	// token-bound endpoints
	session := app.Group("/auth", authMiddleware.AuthMiddleware(db))
	session.Post("/logout", c.Auth.Logout)
	session.Get("/me", c.Auth.Me)
}

package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "feeportal_backend/internals/helpers"
	"feeportal_backend/internals/helpers/authz"

	"feeportal_backend/internals/features/users/auth/dto"
	model "feeportal_backend/internals/features/users/auth/model"
	"feeportal_backend/internals/features/users/auth/service"

	studentModel "feeportal_backend/internals/features/school/students/model"
)

type AuthController struct {
	DB       *gorm.DB
	Auth     *service.AuthService
	Tokens   *service.TokenService
	OAuth    *service.OAuthService
	validate *validator.Validate
}

func NewAuthController(db *gorm.DB, auth *service.AuthService, tokens *service.TokenService, oauth *service.OAuthService) *AuthController {
	return &AuthController{
		DB:       db,
		Auth:     auth,
		Tokens:   tokens,
		OAuth:    oauth,
		validate: validator.New(),
	}
}

/* =========================================================
   POST /auth/login/google
========================================================= */

func (ctl *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	outcome, err := ctl.Auth.LoginWithGoogle(c.UserContext(), req.IDToken, req.Role)
	if err != nil {
		return ctl.loginError(c, err)
	}
	return ctl.issueAndRespond(c, outcome)
}

/* =========================================================
   GET /auth/google/url
   GET /auth/google/callback
========================================================= */

func (ctl *AuthController) GoogleAuthURL(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Missing state")
	}
	return helper.Success(c, "OK", fiber.Map{"auth_url": ctl.OAuth.AuthURL(state)})
}

func (ctl *AuthController) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Missing authorization code")
	}

	idToken, err := ctl.OAuth.ExchangeCode(c.UserContext(), code)
	if err != nil {
		log.Printf("[ERROR] oauth code exchange: %v", err)
		return helper.Error(c, fiber.StatusUnauthorized, "Google sign-in failed")
	}

	outcome, err := ctl.Auth.LoginWithGoogle(c.UserContext(), idToken, c.Query("role"))
	if err != nil {
		return ctl.loginError(c, err)
	}
	return ctl.issueAndRespond(c, outcome)
}

/* =========================================================
   POST /auth/login
========================================================= */

func (ctl *AuthController) LoginPassword(c *fiber.Ctx) error {
	var req dto.PasswordLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	outcome, err := ctl.Auth.LoginWithPassword(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return ctl.loginError(c, err)
	}
	return ctl.issueAndRespond(c, outcome)
}

/* =========================================================
   POST /api/u/logout
========================================================= */

func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals("raw_token").(string)
	if token == "" {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	expiresAt, _ := c.Locals("token_exp").(time.Time)

	if err := ctl.Tokens.Revoke(c.UserContext(), ctl.DB, token, expiresAt); err != nil {
		log.Printf("[ERROR] revoke token: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to log out")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return helper.Success(c, "Logged out", nil)
}

/* =========================================================
   GET /api/u/me
========================================================= */

func (ctl *AuthController) Me(c *fiber.Ctx) error {
	actor, err := authz.FromFiber(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user model.User
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&user, "user_id = ?", actor.UserID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Account not found")
	}

	resp := fiber.Map{"user": dto.FromUserModel(&user)}

	var student studentModel.Student
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&student, "student_user_id = ?", actor.UserID).Error; err == nil {
		resp["student"] = student
	}
	return helper.Success(c, "OK", resp)
}

/* =========================================================
   internals
========================================================= */

func (ctl *AuthController) issueAndRespond(c *fiber.Ctx, outcome *service.LoginOutcome) error {
	token, expiresAt, err := ctl.Tokens.Issue(outcome.User)
	if err != nil {
		log.Printf("[ERROR] issue token for %s: %v", outcome.User.UserEmail, err)
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to sign in")
	}

	// cookie copy so the printable receipt page works in a plain tab
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return helper.Success(c, "Signed in", dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        dto.FromUserModel(outcome.User),
		StudentID:   outcome.StudentID,
	})
}

func (ctl *AuthController) loginError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidIDToken):
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid Google ID token")
	case errors.Is(err, service.ErrInvalidCredentials):
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrAdminSelfSignup), errors.Is(err, service.ErrRoleMismatch):
		return helper.Error(c, fiber.StatusForbidden, "This account cannot sign in as admin")
	case errors.Is(err, service.ErrNoEnrollment):
		return helper.Error(c, fiber.StatusForbidden, "No enrollment found for this email")
	default:
		log.Printf("[ERROR] login: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Sign-in failed, please try again")
	}
}

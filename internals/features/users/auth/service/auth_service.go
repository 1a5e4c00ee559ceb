package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"feeportal_backend/internals/constants"
	helper "feeportal_backend/internals/helpers"

	model "feeportal_backend/internals/features/users/auth/model"
	studentModel "feeportal_backend/internals/features/school/students/model"
)

const (
	// Budget for the whole sign-in, including the profile lookup retries.
	loginTimeout = 30 * time.Second

	profileLookupAttempts = 3
	profileLookupDelay    = time.Second
)

var (
	ErrInvalidIDToken     = errors.New("invalid Google ID token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRoleMismatch       = errors.New("account exists with a different role")
	ErrAdminSelfSignup    = errors.New("admin accounts cannot be created by signing in")
	ErrNoEnrollment       = errors.New("no enrollment found for this email")
)

/* =========================================================
   Google ID token verification
========================================================= */

type GoogleClaims struct {
	Sub   string
	Email string
	Name  string
}

// IDTokenVerifier abstracts the Google token check so login logic is
// testable without Google's certificate endpoint.
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleClaims, error)
}

type googleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) IDTokenVerifier {
	return &googleVerifier{clientID: clientID}
}

func (g *googleVerifier) Verify(ctx context.Context, idToken string) (*GoogleClaims, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.clientID}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidIDToken, err)
	}
	return &GoogleClaims{Sub: claimSet.Sub, Email: claimSet.Email, Name: claimSet.Name}, nil
}

/* =========================================================
   AuthService
========================================================= */

type AuthService struct {
	DB       *gorm.DB
	Verifier IDTokenVerifier
}

func NewAuthService(db *gorm.DB, verifier IDTokenVerifier) *AuthService {
	return &AuthService{DB: db, Verifier: verifier}
}

type LoginOutcome struct {
	User *model.User
	// StudentID is set when this login linked (or re-found) a student
	// profile for the account.
	StudentID string
}

// LoginWithGoogle verifies the ID token, then finds or creates the local
// account. First-time student sign-ins are linked to the enrollment
// record carrying the same parent email; the link is written at most
// once and never stolen from another account. Requesting the admin role
// only works for accounts that are already admins.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken, requestedRole string) (*LoginOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	claims, err := s.Verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: token carries no email", ErrInvalidIDToken)
	}

	if requestedRole == "" {
		requestedRole = constants.RoleStudent
	}

	// The account row can lag the identity provider right after signup,
	// so the lookup retries with backoff before concluding "new user".
	user, err := helper.RetryWithBackoff(ctx, profileLookupAttempts, profileLookupDelay,
		func(ctx context.Context) (*model.User, error) {
			return s.findOrCreateGoogleUser(ctx, claims, requestedRole)
		})
	if err != nil {
		return nil, err
	}

	if requestedRole == constants.RoleAdmin && !user.IsAdmin() {
		return nil, ErrRoleMismatch
	}

	outcome := &LoginOutcome{User: user}
	if user.UserRole == constants.RoleStudent {
		outcome.StudentID = s.linkStudentProfile(ctx, user)
	}
	return outcome, nil
}

func (s *AuthService) findOrCreateGoogleUser(ctx context.Context, claims *GoogleClaims, requestedRole string) (*model.User, error) {
	var user model.User
	err := s.DB.WithContext(ctx).First(&user, "user_email = ?", claims.Email).Error
	if err == nil {
		if user.UserGoogleSub == nil {
			sub := claims.Sub
			if uerr := s.DB.WithContext(ctx).Model(&user).
				Update("user_google_sub", sub).Error; uerr == nil {
				user.UserGoogleSub = &sub
			}
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if requestedRole == constants.RoleAdmin {
		// admins are provisioned out of band, never via sign-in
		return nil, ErrAdminSelfSignup
	}

	// a fresh student account only makes sense when an enrollment
	// carries this parent email
	var enrollments int64
	if cerr := s.DB.WithContext(ctx).Model(&studentModel.Student{}).
		Where("student_parent_email = ?", claims.Email).
		Count(&enrollments).Error; cerr != nil {
		return nil, cerr
	}
	if enrollments == 0 {
		return nil, ErrNoEnrollment
	}

	sub := claims.Sub
	user = model.User{
		UserName:      claims.Name,
		UserEmail:     claims.Email,
		UserRole:      constants.RoleStudent,
		UserGoogleSub: &sub,
	}
	if cerr := s.DB.WithContext(ctx).Create(&user).Error; cerr != nil {
		if helper.IsUniqueViolation(cerr) {
			// lost a signup race for the same email; read the winner
			var existing model.User
			if ferr := s.DB.WithContext(ctx).First(&existing, "user_email = ?", claims.Email).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, cerr
	}
	return &user, nil
}

// linkStudentProfile attaches the first unlinked enrollment whose parent
// email matches the account. A failure here only costs the dashboard
// link, never the login, so it is logged and swallowed.
func (s *AuthService) linkStudentProfile(ctx context.Context, user *model.User) string {
	var linked studentModel.Student
	if err := s.DB.WithContext(ctx).
		First(&linked, "student_user_id = ?", user.UserID).Error; err == nil {
		return linked.StudentID
	}

	var candidate studentModel.Student
	err := s.DB.WithContext(ctx).
		Where("student_parent_email = ? AND student_user_id IS NULL", user.UserEmail).
		Order("student_id ASC").
		First(&candidate).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[WARN] student link lookup for %s: %v", user.UserEmail, err)
		}
		return ""
	}

	// the IS NULL guard makes the claim set-once under concurrency
	res := s.DB.WithContext(ctx).Model(&studentModel.Student{}).
		Where("student_id = ? AND student_user_id IS NULL", candidate.StudentID).
		Update("student_user_id", user.UserID)
	if res.Error != nil {
		log.Printf("[WARN] student link write for %s: %v", user.UserEmail, res.Error)
		return ""
	}
	if res.RowsAffected == 0 {
		return ""
	}
	return candidate.StudentID
}

/* =========================================================
   Password login (bootstrap admin accounts)
========================================================= */

func (s *AuthService) LoginWithPassword(ctx context.Context, email, password string) (*LoginOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	var user model.User
	if err := s.DB.WithContext(ctx).First(&user, "user_email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.UserPasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.UserPasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	outcome := &LoginOutcome{User: &user}
	if user.UserRole == constants.RoleStudent {
		outcome.StudentID = s.linkStudentProfile(ctx, &user)
	}
	return outcome, nil
}

// HashPassword is shared with seeding.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

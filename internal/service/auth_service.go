package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"alcyxob/marathon-trainer/internal/domain"
	"alcyxob/marathon-trainer/internal/repository"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidRole          = errors.New("role must be runner or coach")
	ErrMissingCredentials   = errors.New("name, email and password are required")
	ErrDefaultsForCoach     = errors.New("training defaults only apply to runners")
	ErrUserNotFound         = errors.New("user not found")
)

// Registration is the input of AuthService.Register.
type Registration struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	// Optional; runners only.
	Defaults *domain.RunnerDefaults
}

type AuthService interface {
	Register(ctx context.Context, reg Registration) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateRunnerDefaults(ctx context.Context, runnerID primitive.ObjectID, defaults domain.RunnerDefaults) (*domain.User, error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, reg Registration) (*domain.User, error) {
	email := normalizeEmail(reg.Email)
	if reg.Name == "" || email == "" || reg.Password == "" {
		return nil, ErrMissingCredentials
	}
	if reg.Role != domain.RoleRunner && reg.Role != domain.RoleCoach {
		return nil, ErrInvalidRole
	}
	if reg.Defaults != nil {
		if reg.Role != domain.RoleRunner {
			return nil, ErrDefaultsForCoach
		}
		if err := reg.Defaults.Validate(); err != nil {
			return nil, err
		}
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         reg.Name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         reg.Role,
		Defaults:     reg.Defaults,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// The unique index catches a registration racing this one.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID
	log.Printf("INFO: Registered %s %s", user.Role, userID.Hex())

	user.PasswordHash = ""
	return user, nil
}

// GetUser returns the account without its password hash.
func (s *authService) GetUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateRunnerDefaults replaces the training defaults of a runner account.
func (s *authService) UpdateRunnerDefaults(ctx context.Context, runnerID primitive.ObjectID, defaults domain.RunnerDefaults) (*domain.User, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateRunnerDefaults(ctx, runnerID, defaults); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, runnerID)
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		err = ErrMissingCredentials
		return
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "marathon-trainer",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}

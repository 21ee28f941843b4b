package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"imageshare/internal/config"
	"imageshare/internal/logger"
	"imageshare/internal/models"
	"imageshare/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Domain errors for auth flows.
var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrInvalidRole   = errors.New("invalid role")
	ErrUserNotFound  = errors.New("user not found")
)

// Bootstrap credentials for the first-run admin account. Known weak
// point: only active when no admin exists and bootstrap is enabled.
const (
	rootAdminUsername = "admin"
	rootAdminPassword = "admin123"
)

// AuthService owns user records and identity tokens.
type AuthService struct {
	users repository.Users
	cfg   *config.Config
	log   *logger.Logger
}

func NewAuthService(users repository.Users, cfg *config.Config, log *logger.Logger) *AuthService {
	return &AuthService{users: users, cfg: cfg, log: log}
}

// Claims defines JWT claims carrying the request identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// CreateUser hashes the password and persists a new user. Username
// uniqueness is enforced by a pre-check, so the returned conflict error
// is advisory rather than atomic.
func (s *AuthService) CreateUser(ctx context.Context, username, password, role string) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	u, err := s.users.Create(ctx, username, hash, role)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// ValidateCredentials returns the matching user only when both the
// username and password check out; any failure yields (nil, nil) so an
// unknown username is indistinguishable from a wrong password.
func (s *AuthService) ValidateCredentials(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	u.PasswordHash = ""
	return u, nil
}

// UpdateUser re-checks username uniqueness against other users, rehashes
// the password when provided, and always stamps updated_at.
func (s *AuthService) UpdateUser(ctx context.Context, id string, patch UserPatch) (*models.User, error) {
	repoPatch := repository.UserPatch{}

	if patch.Username != "" {
		other, err := s.users.GetByUsername(ctx, patch.Username)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, ErrUsernameTaken
		}
		repoPatch.Username = &patch.Username
	}
	if patch.Password != "" {
		hash, err := hashPassword(patch.Password)
		if err != nil {
			return nil, fmt.Errorf("invalid password: %w", err)
		}
		repoPatch.PasswordHash = &hash
	}
	if patch.Role != "" {
		if !models.ValidRole(patch.Role) {
			return nil, ErrInvalidRole
		}
		repoPatch.Role = &patch.Role
	}

	if err := s.users.Update(ctx, id, repoPatch); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}

func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func (s *AuthService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *AuthService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// CreateToken issues a signed token embedding the identity, valid for
// seven days.
func (s *AuthService) CreateToken(identity models.Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(config.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   identity.ID,
		Username: identity.Username,
		Role:     identity.Role,
	})
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// VerifyToken returns the embedded identity, or nil for any token that
// fails signature or expiry checks. The cause is logged, never surfaced.
func (s *AuthService) VerifyToken(accessToken string) *models.Identity {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		if s.log != nil {
			s.log.Infow("token_verify_failed", "err", err)
		}
		return nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil
	}
	return &models.Identity{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}
}

// EnsureRootAdmin creates the bootstrap admin account when no
// admin-role user exists yet. Intended for first-run only.
func (s *AuthService) EnsureRootAdmin(ctx context.Context) error {
	if !s.cfg.BootstrapAdmin {
		return nil
	}

	n, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return nil
	}

	if _, err := s.CreateUser(ctx, rootAdminUsername, rootAdminPassword, models.RoleAdmin); err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	if s.log != nil {
		s.log.Warnw("bootstrap admin account created; change the password",
			"username", rootAdminUsername)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

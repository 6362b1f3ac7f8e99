package auth

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/revenue-management/internal/access"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// User is the authenticated principal loaded by AuthMiddleware.
type User struct {
	ID              int64    `json:"id"`
	Email           string   `json:"email"`
	Name            string   `json:"name"`
	IsSuperuser     bool     `json:"is_superuser"`
	Groups          []string `json:"groups,omitempty"`
	ClientProfileID *int64   `json:"client_profile_id,omitempty"`
}

// Identity converts the user into the input of the access policy. A nil user is unauthenticated.
func (u *User) Identity() *access.Identity {
	if u == nil {
		return nil
	}
	id := &access.Identity{
		UserID:        u.ID,
		Authenticated: true,
		IsSuperuser:   u.IsSuperuser,
		Groups:        append([]string(nil), u.Groups...),
	}
	if u.ClientProfileID != nil {
		id.ClientProfileID = *u.ClientProfileID
	}
	return id
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserWithGroups(ctx context.Context, userID int64) (*User, error)
}

type RepositoryAPI interface {
	GetPasswordForUsername(ctx context.Context, email string) (passwordHash string, userID int64, err error)
	GetUserWithGroups(ctx context.Context, userID int64) (*User, error)
}

// TokenGenerator creates and validates signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID int64, email string) (string, error)
	GenerateRefreshToken(userID int64, email string) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims represents JWT token claims
type Claims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
	ErrUserNotFound       = errors.New("user not found")
)

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

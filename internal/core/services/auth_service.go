package services

import (
	"context"
	"errors"
	"time"

	"confbot/internal/core/domain"
	"confbot/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the gateway session token payload. The token only wraps the
// numeric identity the transport assigned; there is no credential check.
type Claims struct {
	Identity domain.Identity `json:"identity"`
	Handle   string          `json:"handle,omitempty"`
	jwt.RegisteredClaims
}

// AuthService resolves roles from the store and issues/validates the
// gateway's session tokens.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Role resolves the identity's role, defaulting to guest on a lookup miss.
func (s *AuthService) Role(ctx context.Context, identity domain.Identity) (domain.Role, error) {
	return s.users.LookupRole(ctx, identity)
}

// Authorize reports whether the identity's role is one of required. It
// performs no mutation and no side effect beyond the lookup.
func (s *AuthService) Authorize(ctx context.Context, identity domain.Identity, required ...domain.Role) (bool, error) {
	role, err := s.users.LookupRole(ctx, identity)
	if err != nil {
		return false, err
	}
	for _, r := range required {
		if role == r {
			return true, nil
		}
	}
	return false, nil
}

// GenerateToken issues a session token for the given identity.
func (s *AuthService) GenerateToken(identity domain.Identity, handle string) (string, error) {
	claims := &Claims{
		Identity: identity,
		Handle:   handle,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

var _ ports.AuthService = (*AuthService)(nil)

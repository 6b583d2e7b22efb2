package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/infrastructure/config"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing id in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

const defaultTokenLifetime = 24 * time.Hour

// Claims carry the staff id, role and display name. The JSON names are what
// the frontend decodes.
type Claims struct {
	jwt.RegisteredClaims
	StaffID  string `json:"id"`
	RoleName string `json:"role"`
	Name     string `json:"name"`

	staff uuid.UUID
}

// Staff is the parsed staff id. Only set on claims returned by ValidateToken.
func (c *Claims) Staff() uuid.UUID { return c.staff }

func (c *Claims) Role() identity.Role { return identity.Role(c.RoleName) }

func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// RemainingTTL is how long the token stays valid after now, never negative.
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(c.ExpiresAt.Sub(now), 0)
}

func (c *Claims) check() error {
	if c.StaffID == "" {
		return ErrMissingUserID
	}
	id, err := uuid.Parse(c.StaffID)
	if err != nil || !c.Role().IsValid() {
		return ErrInvalidClaims
	}
	c.staff = id
	return nil
}

type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// JWTService signs and verifies HS256 session tokens.
type JWTService struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
	now      func() time.Time
}

type JWTOption func(*JWTService)

// WithClock replaces time.Now for issuing and verifying tokens.
func WithClock(now func() time.Time) JWTOption {
	return func(s *JWTService) { s.now = now }
}

func NewJWTService(cfg config.JWTConfig, opts ...JWTOption) *JWTService {
	s := &JWTService{
		secret:   []byte(cfg.Secret),
		lifetime: cfg.Expiration,
		issuer:   cfg.Issuer,
		now:      time.Now,
	}
	if s.lifetime <= 0 {
		s.lifetime = defaultTokenLifetime
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *JWTService) Expiration() time.Duration {
	return s.lifetime
}

func (s *JWTService) GenerateToken(staffID uuid.UUID, role identity.Role, name string) (*IssuedToken, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.lifetime)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   staffID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		StaffID:  staffID.String(),
		RoleName: string(role),
		Name:     name,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	}
	if err := claims.check(); err != nil {
		return nil, err
	}
	return claims, nil
}

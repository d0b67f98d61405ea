package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the token cannot be verified.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// SessionConfig holds session token configuration.
type SessionConfig struct {
	SecretKey            string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	Issuer               string
}

// DefaultSessionConfig returns the default session configuration. The
// secret key must come from the environment in any real deployment.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SecretKey:            "dev-only-secret-change-me",
		AccessTokenDuration:  30 * time.Minute,
		RefreshTokenDuration: 30 * 24 * time.Hour,
		Issuer:               "premium-todolist",
	}
}

// SessionClaims are the custom claims carried in session tokens.
type SessionClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies session tokens.
type SessionManager struct {
	config SessionConfig
}

// NewSessionManager creates a SessionManager with the given config.
func NewSessionManager(config SessionConfig) *SessionManager {
	return &SessionManager{config: config}
}

// GenerateAccessToken issues an access token for the user.
func (m *SessionManager) GenerateAccessToken(userID, email string) (string, error) {
	return m.generate(userID, email, "access", m.config.AccessTokenDuration)
}

// GenerateRefreshToken issues a refresh token for the user.
func (m *SessionManager) GenerateRefreshToken(userID, email string) (string, error) {
	return m.generate(userID, email, "refresh", m.config.RefreshTokenDuration)
}

func (m *SessionManager) generate(userID, email, tokenType string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// Validate parses and verifies a token of either type.
func (m *SessionManager) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateAccessToken verifies an access token.
func (m *SessionManager) ValidateAccessToken(tokenString string) (*SessionClaims, error) {
	claims, err := m.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "access" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateRefreshToken verifies a refresh token.
func (m *SessionManager) ValidateRefreshToken(tokenString string) (*SessionClaims, error) {
	claims, err := m.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AccessTokenDuration returns the access token lifetime in seconds.
func (m *SessionManager) AccessTokenDuration() int64 {
	return int64(m.config.AccessTokenDuration.Seconds())
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
)

// MinSecretLength is the shortest accepted HMAC signing secret.
const MinSecretLength = 32

// SessionTokenService signs and verifies the cookie that points at a server-side session.
type SessionTokenService interface {
	// IssueToken returns a signed token naming sessionID that expires at expiresAt.
	IssueToken(ctx context.Context, sessionID string, expiresAt time.Time) (string, error)

	// ParseToken verifies the token and returns the session id it names.
	// Returns ErrExpiredToken or ErrInvalidToken on failure.
	ParseToken(ctx context.Context, token string) (string, error)
}

type hmacSessionTokenService struct {
	signingKey []byte
	timeFunc   func() time.Time
	clockSkew  time.Duration
}

// Ensure hmacSessionTokenService implements SessionTokenService interface
var _ SessionTokenService = (*hmacSessionTokenService)(nil)

// NewSessionTokenService creates an HS256 SessionTokenService.
func NewSessionTokenService(secret string) (SessionTokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d characters", MinSecretLength)
	}
	return &hmacSessionTokenService{
		signingKey: []byte(secret),
		timeFunc:   time.Now,
		clockSkew:  30 * time.Second,
	}, nil
}

// IssueToken implements SessionTokenService.IssueToken
func (s *hmacSessionTokenService) IssueToken(
	ctx context.Context,
	sessionID string,
	expiresAt time.Time,
) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(s.timeFunc()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign session token", "error", err)
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ParseToken implements SessionTokenService.ParseToken
func (s *hmacSessionTokenService) ParseToken(ctx context.Context, tokenString string) (string, error) {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return "", ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(s.timeFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug("session token expired")
			return "", ErrExpiredToken
		}
		log.Debug("session token rejected", "error", err)
		return "", ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

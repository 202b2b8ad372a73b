package adminauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	redrepo "github.com/Segsoto/EstafadoresCR/internal/repo/redis"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired")
	ErrUnavailable    = errors.New("admin auth is unavailable")
)

type SessionStore interface {
	Create(ctx context.Context, sid, username string, idle time.Duration) error
	Touch(ctx context.Context, sid string, idle time.Duration) (string, error)
	Delete(ctx context.Context, sid string) error
}

// Service authenticates the single configured moderator account and
// tracks its sessions in redis. Tokens are only half the story: a
// valid signature with an expired session is still rejected.
type Service struct {
	username    string
	password    string
	secret      []byte
	sessions    SessionStore
	idleTimeout time.Duration
	configured  bool
}

type Claims struct {
	Username string
	SID      string
}

type tokenClaims struct {
	Username string `json:"username"`
	SID      string `json:"sid"`
	jwt.RegisteredClaims
}

func NewService(username, password, jwtSecret string, idleTimeout time.Duration, sessions SessionStore) *Service {
	secret := strings.TrimSpace(jwtSecret)
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Minute
	}
	return &Service{
		username:    strings.TrimSpace(username),
		password:    password,
		secret:      []byte(secret),
		sessions:    sessions,
		idleTimeout: idleTimeout,
		configured:  secret != "" && password != "" && sessions != nil,
	}
}

func (s *Service) IsConfigured() bool {
	return s != nil && s.configured
}

// Login checks the credentials and issues a signed access token bound
// to a fresh session.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if !s.IsConfigured() {
		return "", ErrUnavailable
	}

	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return "", ErrUnauthorized
	}

	sid := uuid.NewString()
	if err := s.sessions.Create(ctx, sid, s.username, s.idleTimeout); err != nil {
		return "", fmt.Errorf("create admin session: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Username: s.username,
		SID:      sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return signed, nil
}

func (s *Service) ValidateAccessToken(ctx context.Context, accessToken string) (Claims, error) {
	if !s.IsConfigured() {
		return Claims{}, ErrUnavailable
	}

	claims, err := s.parse(accessToken)
	if err != nil {
		return Claims{}, ErrUnauthorized
	}

	username, err := s.sessions.Touch(ctx, claims.SID, s.idleTimeout)
	if err != nil {
		if errors.Is(err, redrepo.ErrAdminSessionNotFound) {
			return Claims{}, ErrSessionExpired
		}
		return Claims{}, fmt.Errorf("touch admin session: %w", err)
	}
	if username != claims.Username {
		return Claims{}, ErrUnauthorized
	}
	return claims, nil
}

func (s *Service) Logout(ctx context.Context, accessToken string) error {
	if !s.IsConfigured() {
		return ErrUnavailable
	}

	claims, err := s.parse(accessToken)
	if err != nil {
		return ErrUnauthorized
	}
	return s.sessions.Delete(ctx, claims.SID)
}

func (s *Service) parse(accessToken string) (Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, ErrUnauthorized
	}
	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return Claims{}, ErrUnauthorized
	}
	if strings.TrimSpace(tc.Username) == "" || strings.TrimSpace(tc.SID) == "" {
		return Claims{}, ErrUnauthorized
	}
	return Claims{
		Username: strings.TrimSpace(tc.Username),
		SID:      strings.TrimSpace(tc.SID),
	}, nil
}

package auth

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"

	adminUserID = "1"
	adminName   = "HR Admin"
)

// UserContext is the authenticated principal attached to a request.
type UserContext struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	RoleName string `json:"role"`
}

type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserContext `json:"user"`
}

// Service authenticates against a single configured admin account.
type Service struct {
	email        string
	passwordHash string
	secret       string
	ttl          time.Duration
}

func NewService(email, password, secret string, ttl time.Duration) (*Service, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &Service{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: hash,
		secret:       secret,
		ttl:          ttl,
	}, nil
}

func (s *Service) Login(email, password string) (Session, error) {
	if strings.ToLower(strings.TrimSpace(email)) != s.email {
		return Session{}, ErrInvalidCredentials
	}
	if err := CheckPassword(s.passwordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	user := UserContext{UserID: adminUserID, Email: s.email, Name: adminName, RoleName: RoleAdmin}
	token, err := GenerateToken(s.secret, Claims{UserID: user.UserID, Email: user.Email, Name: user.Name, RoleName: user.RoleName}, s.ttl)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: time.Now().Add(s.ttl), User: user}, nil
}

// Authenticate validates a bearer token and returns its principal.
func (s *Service) Authenticate(token string) (UserContext, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return UserContext{}, ErrInvalidToken
	}
	return UserContext{UserID: claims.UserID, Email: claims.Email, Name: claims.Name, RoleName: claims.RoleName}, nil
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "super-secret"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	claims := Claims{UserID: "u1", Email: "admin@hr.com", Name: "HR Admin", RoleName: RoleAdmin}

	token, err := GenerateToken(secret, claims, time.Hour)
	require.NoError(t, err)

	parsed, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, parsed.UserID)
	assert.Equal(t, claims.Email, parsed.Email)
	assert.Equal(t, claims.RoleName, parsed.RoleName)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", Claims{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("secret-b", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1"}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

func TestServiceLogin(t *testing.T) {
	svc, err := NewService("admin@hr.com", "password", "test-secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "admin@hr.com", password: "password"},
		{name: "email is case insensitive", email: " Admin@HR.com ", password: "password"},
		{name: "wrong password", email: "admin@hr.com", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "someone@hr.com", password: "password", wantErr: ErrInvalidCredentials},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			session, err := svc.Login(tc.email, tc.password)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, session.Token)
			assert.Equal(t, RoleAdmin, session.User.RoleName)

			user, err := svc.Authenticate(session.Token)
			require.NoError(t, err)
			assert.Equal(t, session.User, user)
		})
	}
}

func TestServiceAuthenticateRejectsGarbage(t *testing.T) {
	svc, err := NewService("admin@hr.com", "password", "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = svc.Authenticate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

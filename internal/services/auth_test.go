package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"alfredoptarigan/career-pilot/internal/models"
	"alfredoptarigan/career-pilot/internal/repositories"
)

const testSecret = "test-secret-with-enough-bytes-for-hs256"

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	users := repositories.NewUserRepository(newTestDB(t))
	return NewAuthService(users, testSecret, time.Hour, bcrypt.MinCost, zap.NewNop())
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	user, token, err := svc.Register(ctx, models.RegisterRequest{Username: " jane ", Email: "jane@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "jane", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.NotEmpty(t, token)

	loggedIn, token, err := svc.Login(ctx, models.LoginRequest{Email: "jane@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	principal, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.False(t, principal.IsAdmin())
}

func TestAuth_LoginFailures(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, _, err := svc.Register(ctx, models.RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, models.LoginRequest{Email: "jane@example.com", Password: "wrong-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	req := models.RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "correct-horse"}
	_, _, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuth_AuthenticateRejects(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	user, _, err := svc.Register(ctx, models.RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	other := NewAuthService(repositories.NewUserRepository(newTestDB(t)), "another-secret", time.Hour, bcrypt.MinCost, zap.NewNop())
	forged, err := other.GenerateToken(user)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: user.ID,
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":     "",
		"garbage":   "not.a.token",
		"wrong key": forged,
		"expired":   expiredToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestAuth_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	require.NoError(t, svc.EnsureAdmin(ctx, "", ""))
	require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "admin-password"))
	// idempotent
	require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "other-password"))

	admin, token, err := svc.Login(ctx, models.LoginRequest{Email: "root@example.com", Password: "admin-password"})
	require.NoError(t, err)
	assert.Equal(t, "root", admin.Username)

	principal, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.True(t, principal.IsAdmin())
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maher-jaber/rh-altra-api/internal/models"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

type authStoreStub struct {
	user       *models.User
	lastLogins int
	newHash    string
}

func (s *authStoreStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, sql.ErrNoRows
	}
	return s.user, nil
}

func (s *authStoreStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.user, nil
}

func (s *authStoreStub) UpdatePassword(ctx context.Context, id, hash string) error {
	s.newHash = hash
	return nil
}

func (s *authStoreStub) UpdateLastLogin(ctx context.Context, id string) error {
	s.lastLogins++
	return nil
}

func newAuthFixture(t *testing.T, active bool) (*AuthService, *authStoreStub) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	store := &authStoreStub{user: &models.User{
		ID:           "emp-1",
		Email:        "emp1@example.com",
		PasswordHash: string(hash),
		FullName:     "Employee One",
		Role:         models.RoleEmployee,
		Active:       active,
	}}
	svc := NewAuthService(store, nil, nil, AuthConfig{
		Secret:        "test-signing-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "rh-altra-api",
	})
	return svc, store
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, store := newAuthFixture(t, true)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "emp1@example.com",
		Password: "s3cret!",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, "emp-1", resp.User.ID)
	require.Equal(t, 1, store.lastLogins)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "emp-1", claims.UserID)
	require.Equal(t, models.RoleEmployee, claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "emp1@example.com",
		Password: "wrong",
	})
	requireCode(t, err, appErrors.ErrInvalidCredentials.Code)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc, _ := newAuthFixture(t, false)
	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "emp1@example.com",
		Password: "s3cret!",
	})
	requireCode(t, err, appErrors.ErrInactiveAccount.Code)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	// The two token kinds are distinguished by audience; an access token must
	// not be accepted on the refresh endpoint.
	svc, _ := newAuthFixture(t, true)
	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "emp1@example.com",
		Password: "s3cret!",
	})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: resp.AccessToken})
	requireCode(t, err, appErrors.ErrUnauthorized.Code)

	rotated, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)
}

func TestValidateTokenRejectsRefreshToken(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "emp1@example.com",
		Password: "s3cret!",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.RefreshToken)
	requireCode(t, err, appErrors.ErrUnauthorized.Code)
}

func TestChangePasswordVerifiesOldOne(t *testing.T) {
	svc, store := newAuthFixture(t, true)

	err := svc.ChangePassword(context.Background(), "emp-1", models.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "brand-new",
	})
	requireCode(t, err, appErrors.ErrForbidden.Code)
	require.Empty(t, store.newHash)

	err = svc.ChangePassword(context.Background(), "emp-1", models.ChangePasswordRequest{
		OldPassword: "s3cret!",
		NewPassword: "brand-new",
	})
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.newHash), []byte("brand-new")))
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/goliter/classsight-api/internal/models"
	appErrors "github.com/goliter/classsight-api/pkg/errors"
)

type mockAccountRepo struct {
	accounts map[string]*models.Account
	tokens   map[string]*models.RefreshToken
	revoked  []string
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{
		accounts: make(map[string]*models.Account),
		tokens:   make(map[string]*models.RefreshToken),
	}
}

func (m *mockAccountRepo) FindByAccount(ctx context.Context, account string, role models.UserRole) (*models.Account, error) {
	for _, acc := range m.accounts {
		if acc.Account == account && acc.Role == role {
			return acc, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) Create(ctx context.Context, acc *models.Account) error {
	if acc.ID == "" {
		acc.ID = "acc-" + acc.Account
	}
	m.accounts[acc.ID] = acc
	return nil
}

func (m *mockAccountRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if acc, ok := m.accounts[id]; ok {
		acc.PasswordHash = passwordHash
	}
	return nil
}

func (m *mockAccountRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockAccountRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := m.tokens[token]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, t := range m.tokens {
		if t.ID == id {
			t.Revoked = true
			t.RevokedAt = &revokedAt
		}
	}
	m.revoked = append(m.revoked, id)
	return nil
}

func (m *mockAccountRepo) RevokeAccountRefreshTokens(ctx context.Context, accountID string) error {
	for _, t := range m.tokens {
		if t.AccountID == accountID {
			t.Revoked = true
		}
	}
	return nil
}

func newAuthFixture() (*AuthService, *mockAccountRepo) {
	repo := newMockAccountRepo()
	svc := NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "classsight-test",
	})
	return svc, repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture()

	info, err := svc.Register(context.Background(), models.RegisterRequest{Account: "S001", Password: "secret1", Role: models.NewRoleCode(models.RoleStudent)})
	require.NoError(t, err)
	assert.Equal(t, "S001", info.Account)
	assert.Equal(t, models.RoleStudent, info.Role)

	result, err := svc.Login(context.Background(), models.LoginRequest{Account: "S001", Password: "secret1", Role: models.NewRoleCode(models.RoleStudent)})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "S001", result.Account.Account)

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "S001", claims.Account)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), models.RegisterRequest{Account: "S001", Password: "secret1", Role: models.NewRoleCode(models.RoleStudent)})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), models.RegisterRequest{Account: "S001", Password: "secret1", Role: models.NewRoleCode(models.RoleStudent)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), models.RegisterRequest{Account: "S001", Password: "secret1", Role: models.NewRoleCode(models.RoleStudent)})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{Account: "S001", Password: "wrong-pass", Role: models.NewRoleCode(models.RoleStudent)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginUnknownAccountLooksLikeWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Login(context.Background(), models.LoginRequest{Account: "nobody", Password: "secret1", Role: models.NewRoleCode(models.RoleStudent)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, repo := newAuthFixture()

	_, err := svc.Register(context.Background(), models.RegisterRequest{Account: "S001", Password: "secret1", Role: models.NewRoleCode(models.RoleStudent)})
	require.NoError(t, err)
	login, err := svc.Login(context.Background(), models.LoginRequest{Account: "S001", Password: "secret1", Role: models.NewRoleCode(models.RoleStudent)})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The used token is revoked and cannot be replayed.
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestChangePasswordRevokesTokens(t *testing.T) {
	svc, repo := newAuthFixture()

	info, err := svc.Register(context.Background(), models.RegisterRequest{Account: "S001", Password: "secret1", Role: models.NewRoleCode(models.RoleStudent)})
	require.NoError(t, err)
	login, err := svc.Login(context.Background(), models.LoginRequest{Account: "S001", Password: "secret1", Role: models.NewRoleCode(models.RoleStudent)})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), info.ID, models.ChangePasswordRequest{
		OldPassword: "secret1",
		NewPassword: "changed1",
	})
	require.NoError(t, err)

	assert.True(t, repo.tokens[login.RefreshToken].Revoked)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.accounts[info.ID].PasswordHash), []byte("changed1")))

	_, err = svc.Login(context.Background(), models.LoginRequest{Account: "S001", Password: "secret1", Role: models.NewRoleCode(models.RoleStudent)})
	require.Error(t, err)
}

func TestChangePasswordWrongOldPassword(t *testing.T) {
	svc, _ := newAuthFixture()

	info, err := svc.Register(context.Background(), models.RegisterRequest{Account: "S001", Password: "secret1", Role: models.NewRoleCode(models.RoleStudent)})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), info.ID, models.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "changed1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

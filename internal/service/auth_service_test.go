package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/scholara/scholara-api/internal/models"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
)

type mockAuthRepo struct {
	users   map[string]*models.User
	tokens  map[string]*models.RefreshToken
	classes map[string]int64
}

func newMockAuthRepo() *mockAuthRepo {
	return &mockAuthRepo{
		users:   make(map[string]*models.User),
		tokens:  make(map[string]*models.RefreshToken),
		classes: make(map[string]int64),
	}
}

func (m *mockAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	copy := *token
	m.tokens[token.Token] = &copy
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := m.tokens[token]; ok {
		copy := *t
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, t := range m.tokens {
		if t.ID == id {
			t.Revoked = true
		}
	}
	return nil
}

func (m *mockAuthRepo) AssignedClass(ctx context.Context, userID string, role models.UserRole) (*int64, error) {
	if classID, ok := m.classes[userID]; ok {
		return &classID, nil
	}
	return nil, nil
}

func authConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "scholara",
	}
}

func seedUser(repo *mockAuthRepo, id, username, password string, role models.UserRole) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	repo.users[id] = &models.User{
		ID:           id,
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Test User",
		Role:         role,
		Active:       true,
	}
}

func TestAuthServiceLoginCarriesRoleAndClass(t *testing.T) {
	repo := newMockAuthRepo()
	seedUser(repo, "student-1", "ada", "correcthorse", models.RoleStudent)
	repo.classes["student-1"] = 7

	svc := NewAuthService(repo, validator.New(), zap.NewNop(), authConfig())
	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "ada", Password: "correcthorse"})
	require.NoError(t, err)
	require.NotNil(t, resp.User.ClassID)
	assert.Equal(t, int64(7), *resp.User.ClassID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "student-1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	require.NotNil(t, claims.ClassID)
	assert.Equal(t, int64(7), *claims.ClassID)
}

func TestAuthServiceLoginRejectsBadPassword(t *testing.T) {
	repo := newMockAuthRepo()
	seedUser(repo, "student-1", "ada", "correcthorse", models.RoleStudent)

	svc := NewAuthService(repo, validator.New(), zap.NewNop(), authConfig())
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ada", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginRejectsInactive(t *testing.T) {
	repo := newMockAuthRepo()
	seedUser(repo, "teacher-1", "grace", "correcthorse", models.RoleTeacher)
	repo.users["teacher-1"].Active = false

	svc := NewAuthService(repo, validator.New(), zap.NewNop(), authConfig())
	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "grace", Password: "correcthorse"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo := newMockAuthRepo()
	seedUser(repo, "admin-1", "root", "correcthorse", models.RoleAdmin)

	svc := NewAuthService(repo, validator.New(), zap.NewNop(), authConfig())
	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "root", Password: "correcthorse"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)

	// the revoked token must not be usable again
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newMockAuthRepo(), validator.New(), zap.NewNop(), authConfig())
	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

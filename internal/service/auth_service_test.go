package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
	appErrors "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/errors"
)

type stubInspectorStore struct {
	byEmail    map[string]*models.InspectorAccount
	lastLogins map[string]time.Time
}

func newStubInspectorStore() *stubInspectorStore {
	return &stubInspectorStore{
		byEmail:    make(map[string]*models.InspectorAccount),
		lastLogins: make(map[string]time.Time),
	}
}

func (s *stubInspectorStore) FindByEmail(_ context.Context, email string) (*models.InspectorAccount, error) {
	a, ok := s.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (s *stubInspectorStore) FindByID(_ context.Context, id string) (*models.InspectorAccount, error) {
	for _, a := range s.byEmail {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubInspectorStore) UpdateLastLogin(_ context.Context, id string, ts time.Time) error {
	s.lastLogins[id] = ts
	return nil
}

func (s *stubInspectorStore) ListRoster(_ context.Context) ([]models.Inspector, error) {
	roster := make([]models.Inspector, 0, len(s.byEmail))
	for _, a := range s.byEmail {
		roster = append(roster, a.Roster())
	}
	return roster, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *stubInspectorStore) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("orchard-gate"), bcrypt.MinCost)
	require.NoError(t, err)

	store := newStubInspectorStore()
	store.byEmail["dana@tallgrass.farm"] = &models.InspectorAccount{
		ID:           "ins-1",
		Email:        "dana@tallgrass.farm",
		FullName:     "Dana Reyes",
		PasswordHash: string(hash),
		CanInspect:   true,
		Active:       true,
	}
	svc := NewAuthService(store, nil, nil, AuthConfig{
		TokenSecret: "unit-test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "farm-inspection-api",
	})
	return svc, store
}

func TestLoginSuccess(t *testing.T) {
	svc, store := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "dana@tallgrass.farm",
		Password: "orchard-gate",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "Dana Reyes", resp.Inspector.Name)
	assert.True(t, resp.Inspector.CanInspect)
	assert.Contains(t, store.lastLogins, "ins-1")
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "dana@tallgrass.farm",
		Password: "wrong",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@tallgrass.farm",
		Password: "orchard-gate",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, store := newTestAuthService(t)
	store.byEmail["dana@tallgrass.farm"].Active = false

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "dana@tallgrass.farm",
		Password: "orchard-gate",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInsufficientPermissions.Code, appErr.Code)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "dana@tallgrass.farm",
		Password: "orchard-gate",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ins-1", claims.InspectorID)
	assert.Equal(t, "dana@tallgrass.farm", claims.Email)
	assert.True(t, claims.CanInspect)
	assert.Equal(t, "farm-inspection-api", claims.Issuer)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc, store := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "dana@tallgrass.farm",
		Password: "orchard-gate",
	})
	require.NoError(t, err)

	other := NewAuthService(store, nil, nil, AuthConfig{TokenSecret: "different-secret"})
	_, err = other.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

package middleware

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adscribe/internal/models"
)

// stubTenantRepo implements repository.TenantRepository over a fixed tenant
type stubTenantRepo struct {
	tenant *models.Tenant
}

func (s *stubTenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	return nil
}

func (s *stubTenantRepo) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	if s.tenant != nil && s.tenant.ID == id {
		return s.tenant, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubTenantRepo) GetByShopDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	return nil, sql.ErrNoRows
}

func (s *stubTenantRepo) GetByAPIKeyHash(ctx context.Context, hash string) (*models.Tenant, error) {
	if s.tenant != nil && s.tenant.APIKeyHash == hash {
		return s.tenant, nil
	}
	return nil, sql.ErrNoRows
}

func testTenant() *models.Tenant {
	return &models.Tenant{
		ID:         "tenant-1",
		ShopDomain: "acme.myshopify.com",
		Name:       "Acme",
		APIKeyHash: HashAPIKey("ask_test-key"),
	}
}

func signToken(t *testing.T, secret []byte, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func newAuthedHandler(repo *stubTenantRepo, secret []byte, captured **models.Tenant) http.Handler {
	log := logrus.New()
	log.SetOutput(io.Discard)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = TenantFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	return Auth(log, NewJWTStrategy(secret, repo), NewAPIKeyStrategy(repo))(next)
}

func TestAuthWithValidJWT(t *testing.T) {
	secret := []byte("test-secret")
	repo := &stubTenantRepo{tenant: testTenant()}

	var captured *models.Tenant
	handler := newAuthedHandler(repo, secret, &captured)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, secret, "tenant-1"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "tenant-1", captured.ID)
}

func TestAuthWithValidAPIKey(t *testing.T) {
	repo := &stubTenantRepo{tenant: testTenant()}

	var captured *models.Tenant
	handler := newAuthedHandler(repo, []byte("test-secret"), &captured)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts", nil)
	req.Header.Set("X-API-Key", "ask_test-key")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "tenant-1", captured.ID)
}

func TestAuthRejectsMissingCredential(t *testing.T) {
	repo := &stubTenantRepo{tenant: testTenant()}

	var captured *models.Tenant
	handler := newAuthedHandler(repo, []byte("test-secret"), &captured)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, captured)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestAuthRejectsForgedToken(t *testing.T) {
	repo := &stubTenantRepo{tenant: testTenant()}

	var captured *models.Tenant
	handler := newAuthedHandler(repo, []byte("test-secret"), &captured)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, []byte("wrong-secret"), "tenant-1"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, captured)
}

func TestAuthRejectsUnknownAPIKey(t *testing.T) {
	repo := &stubTenantRepo{tenant: testTenant()}

	var captured *models.Tenant
	handler := newAuthedHandler(repo, []byte("test-secret"), &captured)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts", nil)
	req.Header.Set("X-API-Key", "ask_not-the-key")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsTokenForUnknownTenant(t *testing.T) {
	secret := []byte("test-secret")
	repo := &stubTenantRepo{tenant: testTenant()}

	var captured *models.Tenant
	handler := newAuthedHandler(repo, secret, &captured)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, secret, "ghost-tenant"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

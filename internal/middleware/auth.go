package middleware

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"adscribe/internal/models"
	"adscribe/internal/repository"
)

type ctxKey string

const ctxKeyTenant ctxKey = "adscribe.tenant"

// TenantFromContext returns the authenticated tenant for the request,
// or nil when the request was not authenticated.
func TenantFromContext(ctx context.Context) *models.Tenant {
	if t, ok := ctx.Value(ctxKeyTenant).(*models.Tenant); ok {
		return t
	}
	return nil
}

// WithTenant stores the authenticated tenant on the context. Exported
// for handler tests.
func WithTenant(ctx context.Context, tenant *models.Tenant) context.Context {
	return context.WithValue(ctx, ctxKeyTenant, tenant)
}

// Strategy resolves a tenant from an incoming request, or reports that
// the request carries no credential it understands.
type Strategy interface {
	Resolve(r *http.Request) (*models.Tenant, error)
}

// ErrNoCredential means the strategy found nothing to authenticate with
var ErrNoCredential = errors.New("no credential presented")

// JWTStrategy authenticates session tokens. The tenant ID comes from
// the verified subject claim, never from a client-supplied header.
type JWTStrategy struct {
	secret  []byte
	tenants repository.TenantRepository
}

// NewJWTStrategy creates a JWT session strategy
func NewJWTStrategy(secret []byte, tenants repository.TenantRepository) *JWTStrategy {
	return &JWTStrategy{secret: secret, tenants: tenants}
}

func (s *JWTStrategy) Resolve(r *http.Request) (*models.Tenant, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, ErrNoCredential
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return nil, errors.New("session token has no subject")
	}

	tenant, err := s.tenants.GetByID(r.Context(), subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("session token references unknown tenant")
		}
		return nil, fmt.Errorf("failed to resolve tenant: %w", err)
	}

	return tenant, nil
}

// APIKeyStrategy authenticates the X-API-Key header by hashed lookup
type APIKeyStrategy struct {
	tenants repository.TenantRepository
}

// NewAPIKeyStrategy creates an API key strategy
func NewAPIKeyStrategy(tenants repository.TenantRepository) *APIKeyStrategy {
	return &APIKeyStrategy{tenants: tenants}
}

func (s *APIKeyStrategy) Resolve(r *http.Request) (*models.Tenant, error) {
	key := r.Header.Get("X-API-Key")
	if key == "" {
		return nil, ErrNoCredential
	}

	tenant, err := s.tenants.GetByAPIKeyHash(r.Context(), HashAPIKey(key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("unknown API key")
		}
		return nil, fmt.Errorf("failed to resolve tenant: %w", err)
	}

	return tenant, nil
}

// HashAPIKey returns the stored form of an API key
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Auth returns middleware that authenticates the request with the
// first strategy that finds a credential, and stores the tenant on
// the context. Requests with no usable credential get 401.
func Auth(log *logrus.Logger, strategies ...Strategy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, strategy := range strategies {
				tenant, err := strategy.Resolve(r)
				if errors.Is(err, ErrNoCredential) {
					continue
				}
				if err != nil {
					log.WithError(err).Warn("authentication failed")
					writeUnauthorized(w)
					return
				}

				next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenant)))
				return
			}

			writeUnauthorized(w)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Authentication required"}}`))
}

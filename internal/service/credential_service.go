package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"adscribe/internal/crypto"
	"adscribe/internal/models"
	"adscribe/internal/repository"
)

// Credential carries a tenant's decrypted access token and platform
// account identifiers. The token never leaves this package encrypted.
type Credential struct {
	AccessToken string
	AdAccountID string
	PageID      string
}

// CredentialStore resolves a tenant's decrypted platform credentials
type CredentialStore interface {
	GetActiveCredential(ctx context.Context, tenantID string, p models.Platform) (*Credential, error)
}

// CredentialService implements CredentialStore over the integrations
// table with AES-GCM token decryption.
type CredentialService struct {
	integrationRepo repository.IntegrationRepository
	cipher          *crypto.TokenCipher
}

// NewCredentialService creates a new credential service
func NewCredentialService(integrationRepo repository.IntegrationRepository, cipher *crypto.TokenCipher) *CredentialService {
	return &CredentialService{
		integrationRepo: integrationRepo,
		cipher:          cipher,
	}
}

// GetActiveCredential fetches and decrypts the tenant's credentials for
// a platform. Returns NotConnectedError when no active integration exists.
func (s *CredentialService) GetActiveCredential(ctx context.Context, tenantID string, p models.Platform) (*Credential, error) {
	integration, err := s.integrationRepo.GetActive(ctx, tenantID, p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotConnectedError{Platform: p}
		}
		return nil, fmt.Errorf("failed to load %s integration: %w", p, err)
	}

	token, err := s.cipher.Decrypt(integration.AccessTokenEnc)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt %s access token: %w", p, err)
	}

	cred := &Credential{
		AccessToken: token,
		AdAccountID: integration.AdAccountID,
	}
	if integration.PageID != nil {
		cred.PageID = *integration.PageID
	}

	return cred, nil
}

// Connect encrypts and stores a tenant's platform credentials
func (s *CredentialService) Connect(ctx context.Context, tenantID string, p models.Platform, accessToken, adAccountID string, pageID *string) (*models.Integration, error) {
	if accessToken == "" {
		return nil, &ValidationError{Message: "access_token is required"}
	}
	if adAccountID == "" {
		return nil, &ValidationError{Message: "ad_account_id is required"}
	}

	enc, err := s.cipher.Encrypt(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	integration := &models.Integration{
		TenantID:       tenantID,
		Platform:       p,
		AccessTokenEnc: enc,
		AdAccountID:    adAccountID,
		PageID:         pageID,
	}
	if err := integration.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.integrationRepo.Upsert(ctx, integration); err != nil {
		return nil, fmt.Errorf("failed to store integration: %w", err)
	}

	return integration, nil
}

// Disconnect soft-deactivates the tenant's platform integration
func (s *CredentialService) Disconnect(ctx context.Context, tenantID string, p models.Platform) error {
	err := s.integrationRepo.Deactivate(ctx, tenantID, p)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotConnectedError{Platform: p}
	}
	return err
}

// Status reports whether the tenant has an active integration for a platform
func (s *CredentialService) Status(ctx context.Context, tenantID string, p models.Platform) (*models.Integration, error) {
	integration, err := s.integrationRepo.GetActive(ctx, tenantID, p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotConnectedError{Platform: p}
	}
	return integration, err
}

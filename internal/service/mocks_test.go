package service

import (
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"adscribe/internal/models"
	"adscribe/internal/platform"
	"adscribe/internal/repository"
)

// newTestLogger returns a logger that discards output
func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func strPtr(s string) *string {
	return &s
}

// NewTestTenant creates a tenant for tests
func NewTestTenant() *models.Tenant {
	return &models.Tenant{
		ID:         "tenant-1",
		ShopDomain: "acme.myshopify.com",
		Name:       "Acme",
		Plan:       "free",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// NewTestDraft creates a submittable draft for tests
func NewTestDraft() *models.AdDraft {
	return &models.AdDraft{
		ID:            "draft-1",
		TenantID:      "tenant-1",
		Title:         "Summer Sale",
		Copy:          "Everything 20% off this week only.",
		ImageURLs:     []string{"https://cdn.example.com/sale.jpg"},
		CampaignID:    "camp-1",
		ProductHandle: strPtr("summer-tee"),
		Status:        models.DraftStatusDraft,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// MockTenantRepository mocks repository.TenantRepository
type MockTenantRepository struct {
	CreateFunc          func(ctx context.Context, tenant *models.Tenant) error
	GetByIDFunc         func(ctx context.Context, id string) (*models.Tenant, error)
	GetByShopDomainFunc func(ctx context.Context, domain string) (*models.Tenant, error)
	GetByAPIKeyHashFunc func(ctx context.Context, hash string) (*models.Tenant, error)

	Calls map[string]int // Track method calls
}

func NewMockTenantRepository() *MockTenantRepository {
	return &MockTenantRepository{Calls: make(map[string]int)}
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tenant)
	}
	return nil
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return NewTestTenant(), nil
}

func (m *MockTenantRepository) GetByShopDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	m.Calls["GetByShopDomain"]++
	if m.GetByShopDomainFunc != nil {
		return m.GetByShopDomainFunc(ctx, domain)
	}
	return NewTestTenant(), nil
}

func (m *MockTenantRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*models.Tenant, error) {
	m.Calls["GetByAPIKeyHash"]++
	if m.GetByAPIKeyHashFunc != nil {
		return m.GetByAPIKeyHashFunc(ctx, hash)
	}
	return NewTestTenant(), nil
}

// MockDraftRepository mocks repository.DraftRepository
type MockDraftRepository struct {
	CreateFunc          func(ctx context.Context, draft *models.AdDraft) error
	GetByIDFunc         func(ctx context.Context, tenantID, id string) (*models.AdDraft, error)
	ListFunc            func(ctx context.Context, tenantID string, filters repository.DraftFilters) ([]*models.AdDraft, int, error)
	UpdateCopyFunc      func(ctx context.Context, tenantID, id, title, copy string) error
	DeleteFunc          func(ctx context.Context, tenantID, id string) error
	MarkSubmittingFunc  func(ctx context.Context, tenantID, id string) (bool, error)
	CommitSubmittedFunc func(ctx context.Context, tenantID, id string, result repository.SubmitOutcome) error
	CommitFailedFunc    func(ctx context.Context, tenantID, id, errorMessage string, errorCode *string) error

	Calls map[string]int // Track method calls

	// Captured arguments from the most recent commit calls
	LastOutcome      *repository.SubmitOutcome
	LastErrorMessage string
	LastErrorCode    *string
}

func NewMockDraftRepository() *MockDraftRepository {
	return &MockDraftRepository{Calls: make(map[string]int)}
}

func (m *MockDraftRepository) Create(ctx context.Context, draft *models.AdDraft) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, draft)
	}
	draft.ID = "draft-1"
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = time.Now()
	return nil
}

func (m *MockDraftRepository) GetByID(ctx context.Context, tenantID, id string) (*models.AdDraft, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenantID, id)
	}
	return NewTestDraft(), nil
}

func (m *MockDraftRepository) List(ctx context.Context, tenantID string, filters repository.DraftFilters) ([]*models.AdDraft, int, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, tenantID, filters)
	}
	return []*models.AdDraft{NewTestDraft()}, 1, nil
}

func (m *MockDraftRepository) UpdateCopy(ctx context.Context, tenantID, id, title, copy string) error {
	m.Calls["UpdateCopy"]++
	if m.UpdateCopyFunc != nil {
		return m.UpdateCopyFunc(ctx, tenantID, id, title, copy)
	}
	return nil
}

func (m *MockDraftRepository) Delete(ctx context.Context, tenantID, id string) error {
	m.Calls["Delete"]++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tenantID, id)
	}
	return nil
}

func (m *MockDraftRepository) MarkSubmitting(ctx context.Context, tenantID, id string) (bool, error) {
	m.Calls["MarkSubmitting"]++
	if m.MarkSubmittingFunc != nil {
		return m.MarkSubmittingFunc(ctx, tenantID, id)
	}
	return true, nil
}

func (m *MockDraftRepository) CommitSubmitted(ctx context.Context, tenantID, id string, result repository.SubmitOutcome) error {
	m.Calls["CommitSubmitted"]++
	m.LastOutcome = &result
	if m.CommitSubmittedFunc != nil {
		return m.CommitSubmittedFunc(ctx, tenantID, id, result)
	}
	return nil
}

func (m *MockDraftRepository) CommitFailed(ctx context.Context, tenantID, id, errorMessage string, errorCode *string) error {
	m.Calls["CommitFailed"]++
	m.LastErrorMessage = errorMessage
	m.LastErrorCode = errorCode
	if m.CommitFailedFunc != nil {
		return m.CommitFailedFunc(ctx, tenantID, id, errorMessage, errorCode)
	}
	return nil
}

// MockCredentialStore mocks CredentialStore
type MockCredentialStore struct {
	GetActiveCredentialFunc func(ctx context.Context, tenantID string, p models.Platform) (*Credential, error)

	Calls map[string]int
}

func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{Calls: make(map[string]int)}
}

func (m *MockCredentialStore) GetActiveCredential(ctx context.Context, tenantID string, p models.Platform) (*Credential, error) {
	m.Calls["GetActiveCredential"]++
	if m.GetActiveCredentialFunc != nil {
		return m.GetActiveCredentialFunc(ctx, tenantID, p)
	}
	return &Credential{
		AccessToken: "token-123",
		AdAccountID: "123456789",
		PageID:      "987654321",
	}, nil
}

// MockPlatformClient mocks platform.Client and records every request
type MockPlatformClient struct {
	UploadImageFunc    func(ctx context.Context, req platform.UploadImageRequest) (*platform.UploadImageResponse, error)
	CreateCreativeFunc func(ctx context.Context, req platform.CreateCreativeRequest) (*platform.CreateCreativeResponse, error)
	CreateAdSetFunc    func(ctx context.Context, req platform.CreateAdSetRequest) (*platform.CreateAdSetResponse, error)
	CreateAdFunc       func(ctx context.Context, req platform.CreateAdRequest) (*platform.CreateAdResponse, error)

	Calls map[string]int

	// Captured requests
	UploadRequests   []platform.UploadImageRequest
	CreativeRequests []platform.CreateCreativeRequest
	AdSetRequests    []platform.CreateAdSetRequest
	AdRequests       []platform.CreateAdRequest
}

func NewMockPlatformClient() *MockPlatformClient {
	return &MockPlatformClient{Calls: make(map[string]int)}
}

func (m *MockPlatformClient) UploadImage(ctx context.Context, req platform.UploadImageRequest) (*platform.UploadImageResponse, error) {
	m.Calls["UploadImage"]++
	m.UploadRequests = append(m.UploadRequests, req)
	if m.UploadImageFunc != nil {
		return m.UploadImageFunc(ctx, req)
	}
	return &platform.UploadImageResponse{ImageHash: "hash-abc"}, nil
}

func (m *MockPlatformClient) CreateCreative(ctx context.Context, req platform.CreateCreativeRequest) (*platform.CreateCreativeResponse, error) {
	m.Calls["CreateCreative"]++
	m.CreativeRequests = append(m.CreativeRequests, req)
	if m.CreateCreativeFunc != nil {
		return m.CreateCreativeFunc(ctx, req)
	}
	return &platform.CreateCreativeResponse{CreativeID: "creative-1"}, nil
}

func (m *MockPlatformClient) CreateAdSet(ctx context.Context, req platform.CreateAdSetRequest) (*platform.CreateAdSetResponse, error) {
	m.Calls["CreateAdSet"]++
	m.AdSetRequests = append(m.AdSetRequests, req)
	if m.CreateAdSetFunc != nil {
		return m.CreateAdSetFunc(ctx, req)
	}
	return &platform.CreateAdSetResponse{AdSetID: "adset-1"}, nil
}

func (m *MockPlatformClient) CreateAd(ctx context.Context, req platform.CreateAdRequest) (*platform.CreateAdResponse, error) {
	m.Calls["CreateAd"]++
	m.AdRequests = append(m.AdRequests, req)
	if m.CreateAdFunc != nil {
		return m.CreateAdFunc(ctx, req)
	}
	return &platform.CreateAdResponse{AdID: "ad-1"}, nil
}

// RemoteCalls returns the total number of platform calls made
func (m *MockPlatformClient) RemoteCalls() int {
	return m.Calls["UploadImage"] + m.Calls["CreateCreative"] + m.Calls["CreateAdSet"] + m.Calls["CreateAd"]
}

// notFoundDraftRepo is a GetByIDFunc that simulates a foreign or
// missing draft: the tenant-scoped read finds nothing.
func notFoundDraftRepo() *MockDraftRepository {
	repo := NewMockDraftRepository()
	repo.GetByIDFunc = func(ctx context.Context, tenantID, id string) (*models.AdDraft, error) {
		return nil, sql.ErrNoRows
	}
	return repo
}

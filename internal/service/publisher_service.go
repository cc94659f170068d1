package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"adscribe/internal/models"
	"adscribe/internal/platform"
	"adscribe/internal/repository"
)

// Pipeline step names, used as the "step" field on every log event
const (
	stepCredentials = "resolve_credentials"
	stepUpload      = "upload_image"
	stepCreative    = "create_creative"
	stepAdSet       = "create_adset"
	stepAd          = "create_ad"
	stepCommit      = "commit"
)

// PublisherConfig holds the conservative defaults applied to every ad
// set the publisher creates. Spend never starts automatically: objects
// are created paused and stay paused until the user activates them.
type PublisherConfig struct {
	// DailyBudget in the ad account's minor currency units
	DailyBudget int
	// Countries for default geo targeting
	Countries []string
}

// PublisherService drives an ad draft through the platform submission
// pipeline: claim the draft, resolve credentials, upload the image,
// create the creative, the ad set and the ad, then commit the outcome.
// Steps run strictly in order; the first failure stops the pipeline and
// is persisted before being returned to the caller.
type PublisherService struct {
	tenantRepo repository.TenantRepository
	draftRepo  repository.DraftRepository
	creds      CredentialStore
	client     platform.Client
	log        *logrus.Logger

	dailyBudget int
	countries   []string
}

// NewPublisherService creates a new publisher service
func NewPublisherService(
	tenantRepo repository.TenantRepository,
	draftRepo repository.DraftRepository,
	creds CredentialStore,
	client platform.Client,
	log *logrus.Logger,
	cfg PublisherConfig,
) *PublisherService {
	dailyBudget := cfg.DailyBudget
	if dailyBudget <= 0 {
		dailyBudget = 1000
	}
	countries := cfg.Countries
	if len(countries) == 0 {
		countries = []string{"US"}
	}

	return &PublisherService{
		tenantRepo:  tenantRepo,
		draftRepo:   draftRepo,
		creds:       creds,
		client:      client,
		log:         log,
		dailyBudget: dailyBudget,
		countries:   countries,
	}
}

// SubmitResult is returned on a successful submission
type SubmitResult struct {
	DraftID            string `json:"draft_id"`
	PlatformAdID       string `json:"platform_ad_id"`
	PlatformAdSetID    string `json:"platform_adset_id"`
	PlatformCreativeID string `json:"platform_creative_id"`
	Message            string `json:"message"`
}

// Submit publishes a draft to the tenant's connected ad platform.
//
// The draft moves draft -> submitting -> submitted, or -> failed with
// retry bookkeeping; a failed draft may be submitted again. A submitted
// draft is immutable and resubmission is rejected.
func (s *PublisherService) Submit(ctx context.Context, tenantID, draftID string) (*SubmitResult, error) {
	// Resolve tenant and draft; the draft read is tenant-scoped so a
	// foreign draft ID is indistinguishable from a missing one.
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "tenant", ID: tenantID}
		}
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	draft, err := s.draftRepo.GetByID(ctx, tenantID, draftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "draft", ID: draftID}
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	if draft.Status == models.DraftStatusSubmitted {
		return nil, &AlreadySubmittedError{DraftID: draftID}
	}

	// Claim the draft before any remote call. The conditional update is
	// the mutual exclusion point: a concurrent Submit loses the claim
	// and stops here, and a crash mid-pipeline leaves a durable
	// "submitting" marker instead of an ambiguous draft state.
	claimed, err := s.draftRepo.MarkSubmitting(ctx, tenantID, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim draft for submission: %w", err)
	}
	if !claimed {
		return nil, &SubmitInFlightError{DraftID: draftID}
	}

	log := s.log.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"draft_id":  draftID,
	})

	outcome, err := s.runPipeline(ctx, log, tenant, draft)
	if err != nil {
		s.commitFailure(ctx, log, tenantID, draftID, err)
		return nil, err
	}

	// Terminal success is one atomic update: status, the three platform
	// IDs and submitted_at land together or not at all.
	if err := s.draftRepo.CommitSubmitted(ctx, tenantID, draftID, *outcome); err != nil {
		log.WithField("step", stepCommit).WithError(err).Error("failed to persist submitted state")
		return nil, fmt.Errorf("ad was created but persisting the result failed: %w", err)
	}

	log.WithFields(logrus.Fields{
		"step":        stepCommit,
		"ad_id":       outcome.AdID,
		"adset_id":    outcome.AdSetID,
		"creative_id": outcome.CreativeID,
	}).Info("draft submitted")

	return &SubmitResult{
		DraftID:            draftID,
		PlatformAdID:       outcome.AdID,
		PlatformAdSetID:    outcome.AdSetID,
		PlatformCreativeID: outcome.CreativeID,
		Message:            "Ad created in paused state. Review and activate it in your ads manager.",
	}, nil
}

// runPipeline executes the remote steps in their fixed order. A later
// step is never attempted after an earlier one fails, and nothing is
// retried within a single run; retry is a new Submit call.
func (s *PublisherService) runPipeline(ctx context.Context, log *logrus.Entry, tenant *models.Tenant, draft *models.AdDraft) (*repository.SubmitOutcome, error) {
	log.WithField("step", stepCredentials).Info("resolving platform credentials")
	cred, err := s.creds.GetActiveCredential(ctx, tenant.ID, models.PlatformFacebook)
	if err != nil {
		return nil, err
	}
	if cred.PageID == "" {
		return nil, &MissingIdentifierError{Platform: models.PlatformFacebook, Identifier: "page_id"}
	}

	log.WithField("step", stepUpload).Info("uploading creative asset")
	upload, err := s.client.UploadImage(ctx, platform.UploadImageRequest{
		AccessToken: cred.AccessToken,
		AdAccountID: cred.AdAccountID,
		ImageURL:    draft.ImageURL(),
	})
	if err != nil {
		var fetchErr *platform.FetchError
		if errors.As(err, &fetchErr) {
			return nil, &AssetFetchError{URL: fetchErr.URL, Err: err}
		}
		return nil, &UploadError{Err: err}
	}

	log.WithField("step", stepCreative).Info("creating ad creative")
	creative, err := s.client.CreateCreative(ctx, platform.CreateCreativeRequest{
		AccessToken: cred.AccessToken,
		AdAccountID: cred.AdAccountID,
		Name:        draft.Title,
		Title:       draft.Title,
		Body:        draft.Copy,
		ImageHash:   upload.ImageHash,
		Link:        tenant.ProductURL(draft.ProductHandle),
		PageID:      cred.PageID,
	})
	if err != nil {
		return nil, &CreativeError{Err: err}
	}

	log.WithField("step", stepAdSet).Info("creating paused ad set")
	adSet, err := s.client.CreateAdSet(ctx, platform.CreateAdSetRequest{
		AccessToken: cred.AccessToken,
		AdAccountID: cred.AdAccountID,
		CampaignID:  draft.CampaignID,
		Name:        draft.Title + " Ad Set",
		DailyBudget: s.dailyBudget,
		Countries:   s.countries,
		Status:      platform.StatusPaused,
	})
	if err != nil {
		return nil, &AdCreationError{Object: "ad set", Err: err}
	}

	log.WithField("step", stepAd).Info("creating paused ad")
	ad, err := s.client.CreateAd(ctx, platform.CreateAdRequest{
		AccessToken: cred.AccessToken,
		AdAccountID: cred.AdAccountID,
		Name:        draft.Title,
		AdSetID:     adSet.AdSetID,
		CreativeID:  creative.CreativeID,
		Status:      platform.StatusPaused,
	})
	if err != nil {
		return nil, &AdCreationError{Object: "ad", Err: err}
	}

	return &repository.SubmitOutcome{
		AdID:        ad.AdID,
		AdSetID:     adSet.AdSetID,
		CreativeID:  creative.CreativeID,
		SubmittedAt: time.Now().UTC(),
	}, nil
}

// commitFailure persists the terminal failure state with bookkeeping.
// A persistence error here is logged but never masks the pipeline
// error the caller is about to receive.
func (s *PublisherService) commitFailure(ctx context.Context, log *logrus.Entry, tenantID, draftID string, cause error) {
	message := cause.Error()
	var codePtr *string
	if pe := PlatformCause(cause); pe != nil {
		message = pe.Message
		code := strconv.Itoa(pe.Code)
		codePtr = &code
	}

	if err := s.draftRepo.CommitFailed(ctx, tenantID, draftID, message, codePtr); err != nil {
		log.WithField("step", stepCommit).WithError(err).Error("failed to persist failed submission state")
	}

	log.WithField("step", stepCommit).WithError(cause).Warn("draft submission failed")
}

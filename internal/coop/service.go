package coop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vendygo/vendygo-backend/pkg/db/models"
	"github.com/vendygo/vendygo-backend/pkg/enums"
	pkgerrors "github.com/vendygo/vendygo-backend/pkg/errors"
	"github.com/vendygo/vendygo-backend/pkg/logger"
	"github.com/vendygo/vendygo-backend/pkg/pagination"
)

// deadlineSoonWindow flags campaigns closing within a day.
const deadlineSoonWindow = 24 * time.Hour

// feedVendorName attributes participant rows created by the feed worker.
const feedVendorName = "Community buy feed"

var nowFunc = time.Now

// Service defines the co-op ledger behavior needed by controllers and the feed worker.
type Service interface {
	ListCampaigns(ctx context.Context, params pagination.Params) (*CampaignPage, error)
	GetCampaign(ctx context.Context, id uuid.UUID) (*CampaignDTO, error)
	Join(ctx context.Context, campaignID, userID uuid.UUID, quantity int) (*JoinReceipt, error)
	ApplyExternalCommitment(ctx context.Context, campaignID uuid.UUID, delta int) (int, error)
	MyContributions(ctx context.Context, userID uuid.UUID) (*ContributionSummary, error)
	CreateCampaign(ctx context.Context, wholesalerID uuid.UUID, req CreateCampaignRequest) (*CampaignDTO, error)
	ListByWholesaler(ctx context.Context, wholesalerID uuid.UUID) ([]CampaignDTO, error)
	OpenCampaignIDs(ctx context.Context) ([]uuid.UUID, error)
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.CoopCampaign, error)
	List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.CoopCampaign, error)
	ListOpen(ctx context.Context) ([]models.CoopCampaign, error)
	ListByWholesaler(ctx context.Context, wholesalerID uuid.UUID) ([]models.CoopCampaign, error)
	Create(ctx context.Context, campaign *models.CoopCampaign) error
	Commit(ctx context.Context, params CommitParams) (*models.CoopCampaign, error)
	ListContributions(ctx context.Context, userID uuid.UUID) ([]models.CoopContribution, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	repo  repository
	users userFinder
	logg  *logger.Logger
}

// ServiceParams bundles the dependencies required to build a coop service.
type ServiceParams struct {
	Repo     repository
	UserRepo userFinder
	Logger   *logger.Logger
}

// NewService constructs a coop service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("coop repository is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{
		repo:  params.Repo,
		users: params.UserRepo,
		logg:  params.Logger,
	}, nil
}

// Progress reports campaign completion against the minimum order as a
// percentage, capped at 100 and rounded to one decimal place.
func Progress(c *models.CoopCampaign) float64 {
	if c == nil || c.MinimumOrder <= 0 {
		return 0
	}
	ratio := decimal.NewFromInt(int64(c.CurrentCommitted)).
		Div(decimal.NewFromInt(int64(c.MinimumOrder))).
		Mul(decimal.NewFromInt(100))
	capped := decimal.Min(ratio, decimal.NewFromInt(100))
	result, _ := capped.Round(1).Float64()
	return result
}

// IsDeadlineSoon reports whether the campaign closes within 24 hours of now.
func IsDeadlineSoon(c *models.CoopCampaign, now time.Time) bool {
	if c == nil {
		return false
	}
	remaining := c.Deadline.Sub(now)
	return remaining > 0 && remaining <= deadlineSoonWindow
}

// SavingsForQuantity returns quantity times the retail/wholesale spread in cents.
func SavingsForQuantity(c *models.CoopCampaign, quantity int) int64 {
	if c == nil || quantity <= 0 {
		return 0
	}
	return int64(quantity) * (c.RetailPriceCents - c.WholesalePriceCents)
}

func (s *service) ListCampaigns(ctx context.Context, params pagination.Params) (*CampaignPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	campaigns, err := s.repo.List(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list campaigns")
	}

	nextCursor := ""
	if len(campaigns) > limit {
		campaigns = campaigns[:limit]
		last := campaigns[len(campaigns)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	now := nowFunc()
	dtos := make([]CampaignDTO, 0, len(campaigns))
	for i := range campaigns {
		dtos = append(dtos, campaignToDTO(&campaigns[i], now))
	}
	return &CampaignPage{Campaigns: dtos, NextCursor: nextCursor}, nil
}

func (s *service) GetCampaign(ctx context.Context, id uuid.UUID) (*CampaignDTO, error) {
	campaign, err := s.findCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := campaignToDTO(campaign, nowFunc())
	return &dto, nil
}

func (s *service) Join(ctx context.Context, campaignID, userID uuid.UUID, quantity int) (*JoinReceipt, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}

	campaign, err := s.findCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	now := nowFunc()
	if now.After(campaign.Deadline) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "campaign deadline has passed")
	}
	if campaign.CurrentCommitted+quantity > campaign.MaxCapacity {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "campaign capacity exceeded")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	contribution := int64(quantity) * campaign.WholesalePriceCents
	committed, err := s.repo.Commit(ctx, CommitParams{
		CampaignID:        campaignID,
		VendorName:        user.BusinessName,
		Quantity:          quantity,
		ContributionCents: contribution,
		UserID:            &userID,
	})
	if err != nil {
		return nil, s.mapCommitError(err)
	}

	if s.logg != nil {
		ctx = s.logg.WithCampaignID(ctx, campaignID.String())
		s.logg.Info(ctx, "campaign join committed")
	}

	return &JoinReceipt{
		CampaignID:        committed.ID,
		CampaignName:      committed.Name,
		Quantity:          quantity,
		Unit:              committed.Unit,
		ContributionCents: contribution,
		SavingsCents:      SavingsForQuantity(committed, quantity),
	}, nil
}

// ApplyExternalCommitment records a feed-driven commitment. The delta is
// clamped to the campaign's remaining headroom; full or expired campaigns
// absorb nothing. Returns the quantity actually applied.
func (s *service) ApplyExternalCommitment(ctx context.Context, campaignID uuid.UUID, delta int) (int, error) {
	if delta <= 0 {
		return 0, nil
	}

	campaign, err := s.findCampaign(ctx, campaignID)
	if err != nil {
		return 0, err
	}

	now := nowFunc()
	if now.After(campaign.Deadline) {
		return 0, nil
	}
	headroom := campaign.MaxCapacity - campaign.CurrentCommitted
	if headroom <= 0 {
		return 0, nil
	}
	if delta > headroom {
		delta = headroom
	}

	contribution := int64(delta) * campaign.WholesalePriceCents
	if _, err := s.repo.Commit(ctx, CommitParams{
		CampaignID:        campaignID,
		VendorName:        feedVendorName,
		Quantity:          delta,
		ContributionCents: contribution,
	}); err != nil {
		// a concurrent writer may have taken the headroom since the read
		if errors.Is(err, ErrCapacityExceeded) || errors.Is(err, ErrPastDeadline) {
			return 0, nil
		}
		return 0, s.mapCommitError(err)
	}
	return delta, nil
}

func (s *service) MyContributions(ctx context.Context, userID uuid.UUID) (*ContributionSummary, error) {
	contributions, err := s.repo.ListContributions(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list contributions")
	}

	summary := &ContributionSummary{Entries: make([]ContributionEntry, 0, len(contributions))}
	for _, c := range contributions {
		entry := ContributionEntry{
			CampaignID:        c.CampaignID,
			Quantity:          c.Quantity,
			ContributionCents: c.ContributionCents,
		}
		if c.Campaign != nil {
			entry.CampaignName = c.Campaign.Name
			entry.Unit = c.Campaign.Unit
			entry.SavingsCents = SavingsForQuantity(c.Campaign, c.Quantity)
		}
		summary.Entries = append(summary.Entries, entry)
		summary.TotalContributionCents += entry.ContributionCents
		summary.TotalSavingsCents += entry.SavingsCents
	}
	return summary, nil
}

func (s *service) CreateCampaign(ctx context.Context, wholesalerID uuid.UUID, req CreateCampaignRequest) (*CampaignDTO, error) {
	category, err := enums.ParseProductCategory(strings.ToLower(strings.TrimSpace(req.Category)))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}
	if req.WholesalePriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wholesale price must be greater than zero")
	}
	if req.RetailPriceCents <= req.WholesalePriceCents {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retail price must exceed wholesale price")
	}
	if req.MinimumOrder <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum order must be greater than zero")
	}
	if req.MaxCapacity < req.MinimumOrder {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max capacity must be at least the minimum order")
	}
	now := nowFunc()
	if !req.Deadline.After(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deadline must be in the future")
	}

	campaign := &models.CoopCampaign{
		WholesalerID:        wholesalerID,
		Name:                strings.TrimSpace(req.Name),
		Category:            category,
		Unit:                strings.TrimSpace(req.Unit),
		Description:         strings.TrimSpace(req.Description),
		ImageURL:            strings.TrimSpace(req.ImageURL),
		WholesalePriceCents: req.WholesalePriceCents,
		RetailPriceCents:    req.RetailPriceCents,
		MinimumOrder:        req.MinimumOrder,
		MaxCapacity:         req.MaxCapacity,
		Deadline:            req.Deadline,
	}
	if err := s.repo.Create(ctx, campaign); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create campaign")
	}

	dto := campaignToDTO(campaign, now)
	return &dto, nil
}

func (s *service) ListByWholesaler(ctx context.Context, wholesalerID uuid.UUID) ([]CampaignDTO, error) {
	campaigns, err := s.repo.ListByWholesaler(ctx, wholesalerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wholesaler campaigns")
	}
	now := nowFunc()
	dtos := make([]CampaignDTO, 0, len(campaigns))
	for i := range campaigns {
		dtos = append(dtos, campaignToDTO(&campaigns[i], now))
	}
	return dtos, nil
}

// OpenCampaignIDs returns campaigns the feed may still grow. Expired and
// full campaigns are filtered in the query.
func (s *service) OpenCampaignIDs(ctx context.Context) ([]uuid.UUID, error) {
	campaigns, err := s.repo.ListOpen(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list open campaigns")
	}
	ids := make([]uuid.UUID, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (s *service) findCampaign(ctx context.Context, id uuid.UUID) (*models.CoopCampaign, error) {
	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load campaign")
	}
	return campaign, nil
}

func (s *service) mapCommitError(err error) error {
	switch {
	case errors.Is(err, ErrPastDeadline):
		return pkgerrors.New(pkgerrors.CodeStateConflict, "campaign deadline has passed")
	case errors.Is(err, ErrCapacityExceeded):
		return pkgerrors.New(pkgerrors.CodeStateConflict, "campaign capacity exceeded")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "commit to campaign")
	}
}

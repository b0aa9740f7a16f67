package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vendygo/vendygo-backend/pkg/config"
	"github.com/vendygo/vendygo-backend/pkg/db/models"
	"github.com/vendygo/vendygo-backend/pkg/enums"
	pkgerrors "github.com/vendygo/vendygo-backend/pkg/errors"
	"github.com/vendygo/vendygo-backend/pkg/logger"
)

// DefaultListingImageURL fills listings posted without a photo.
const DefaultListingImageURL = "https://cdn.vendygo.in/listings/default.png"

// parityThreshold is the minimum offered/requested value ratio for a proposal.
var parityThreshold = decimal.NewFromFloat(0.8)

var nowFunc = time.Now

// Service defines the barter matcher behavior needed by controllers.
type Service interface {
	CreateListing(ctx context.Context, vendorID uuid.UUID, req CreateListingRequest) (*ListingDTO, error)
	UpdateListing(ctx context.Context, vendorID, listingID uuid.UUID, req UpdateListingRequest) (*ListingDTO, error)
	DeactivateListing(ctx context.Context, vendorID, listingID uuid.UUID) error
	RecordView(ctx context.Context, viewerID, listingID uuid.UUID) error
	Browse(ctx context.Context, viewerID uuid.UUID, query BrowseQuery) ([]ListingDTO, error)
	MyListings(ctx context.Context, vendorID uuid.UUID) ([]ListingDTO, error)
	Propose(ctx context.Context, fromVendorID uuid.UUID, req ProposeRequest) (*ProposalDTO, error)
	ListProposals(ctx context.Context, vendorID uuid.UUID) (*ProposalsOverview, error)
}

type repository interface {
	CreateListing(ctx context.Context, listing *models.TradeListing) error
	FindListingByID(ctx context.Context, id uuid.UUID) (*models.TradeListing, error)
	FindListingsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.TradeListing, error)
	ListActive(ctx context.Context) ([]models.TradeListing, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.TradeListing, error)
	SaveListing(ctx context.Context, listing *models.TradeListing) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	CreateProposal(ctx context.Context, proposal *models.TradeProposal) error
	ListProposalsByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.TradeProposal, error)
}

type service struct {
	repo       repository
	listingTTL time.Duration
	logg       *logger.Logger
}

// ServiceParams bundles the dependencies required to build a trade service.
type ServiceParams struct {
	Repo   repository
	Config config.TradeConfig
	Logger *logger.Logger
}

// NewService constructs a trade service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("trade repository is required")
	}
	ttlDays := params.Config.ListingTTLDays
	if ttlDays <= 0 {
		return nil, fmt.Errorf("listing TTL must be positive, got %d days", ttlDays)
	}
	return &service{
		repo:       params.Repo,
		listingTTL: time.Duration(ttlDays) * 24 * time.Hour,
		logg:       params.Logger,
	}, nil
}

func (s *service) CreateListing(ctx context.Context, vendorID uuid.UUID, req CreateListingRequest) (*ListingDTO, error) {
	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	if req.PricePerUnitCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price per unit must be greater than zero")
	}
	category, err := enums.ParseProductCategory(strings.ToLower(strings.TrimSpace(req.Category)))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}
	condition := enums.ListingConditionGood
	if req.Condition != "" {
		condition, err = enums.ParseListingCondition(req.Condition)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing condition")
		}
	}
	imageURL := strings.TrimSpace(req.ImageURL)
	if imageURL == "" {
		imageURL = DefaultListingImageURL
	}

	now := nowFunc()
	listing := &models.TradeListing{
		VendorID:          vendorID,
		ProductName:       name,
		Category:          category,
		Quantity:          req.Quantity,
		Unit:              strings.TrimSpace(req.Unit),
		PricePerUnitCents: req.PricePerUnitCents,
		TotalValueCents:   int64(req.Quantity) * req.PricePerUnitCents,
		Condition:         condition,
		Description:       strings.TrimSpace(req.Description),
		TradeConditions:   strings.TrimSpace(req.TradeConditions),
		ImageURL:          imageURL,
		IsActive:          true,
		ExpiresAt:         now.Add(s.listingTTL),
	}
	if err := s.repo.CreateListing(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create listing")
	}

	if s.logg != nil {
		ctx = s.logg.WithListingID(ctx, listing.ID.String())
		s.logg.Info(ctx, "trade listing created")
	}

	dto := listingToDTO(listing)
	return &dto, nil
}

func (s *service) UpdateListing(ctx context.Context, vendorID, listingID uuid.UUID, req UpdateListingRequest) (*ListingDTO, error) {
	listing, err := s.ownedListing(ctx, vendorID, listingID)
	if err != nil {
		return nil, err
	}

	if req.ProductName != nil {
		name := strings.TrimSpace(*req.ProductName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
		}
		listing.ProductName = name
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
		}
		listing.Quantity = *req.Quantity
	}
	if req.PricePerUnitCents != nil {
		if *req.PricePerUnitCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price per unit must be greater than zero")
		}
		listing.PricePerUnitCents = *req.PricePerUnitCents
	}
	if req.Condition != nil {
		condition, err := enums.ParseListingCondition(*req.Condition)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing condition")
		}
		listing.Condition = condition
	}
	if req.Description != nil {
		listing.Description = strings.TrimSpace(*req.Description)
	}
	if req.TradeConditions != nil {
		listing.TradeConditions = strings.TrimSpace(*req.TradeConditions)
	}
	if req.ImageURL != nil {
		listing.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	listing.TotalValueCents = int64(listing.Quantity) * listing.PricePerUnitCents

	if err := s.repo.SaveListing(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update listing")
	}
	dto := listingToDTO(listing)
	return &dto, nil
}

func (s *service) DeactivateListing(ctx context.Context, vendorID, listingID uuid.UUID) error {
	listing, err := s.ownedListing(ctx, vendorID, listingID)
	if err != nil {
		return err
	}
	if !listing.IsActive {
		return nil
	}
	listing.IsActive = false
	if err := s.repo.SaveListing(ctx, listing); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate listing")
	}
	return nil
}

// RecordView bumps the view counter. Views of your own listing don't count.
func (s *service) RecordView(ctx context.Context, viewerID, listingID uuid.UUID) error {
	listing, err := s.findListing(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.VendorID == viewerID {
		return nil
	}
	if err := s.repo.IncrementViews(ctx, listingID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record view")
	}
	return nil
}

func (s *service) Browse(ctx context.Context, viewerID uuid.UUID, query BrowseQuery) ([]ListingDTO, error) {
	sortBy, err := enums.ParseListingSort(query.Sort)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort")
	}
	if query.Category != "" {
		if _, err := enums.ParseProductCategory(query.Category); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
		}
	}

	listings, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "browse listings")
	}

	matched := FilterListings(listings, viewerID, query, nowFunc())
	SortListings(matched, sortBy)

	dtos := make([]ListingDTO, 0, len(matched))
	for i := range matched {
		dtos = append(dtos, listingToDTO(&matched[i]))
	}
	return dtos, nil
}

func (s *service) MyListings(ctx context.Context, vendorID uuid.UUID) ([]ListingDTO, error) {
	listings, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list own listings")
	}
	dtos := make([]ListingDTO, 0, len(listings))
	for i := range listings {
		dtos = append(dtos, listingToDTO(&listings[i]))
	}
	return dtos, nil
}

func (s *service) Propose(ctx context.Context, fromVendorID uuid.UUID, req ProposeRequest) (*ProposalDTO, error) {
	if len(req.OfferedListingIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select at least one listing to offer")
	}

	requested, err := s.findListing(ctx, req.RequestedListingID)
	if err != nil {
		return nil, err
	}
	if !requested.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "requested listing is no longer active")
	}
	if requested.VendorID == fromVendorID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot propose a trade against your own listing")
	}

	offered, err := s.repo.FindListingsByIDs(ctx, req.OfferedListingIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load offered listings")
	}
	if len(offered) != len(req.OfferedListingIDs) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offered listing not found")
	}

	var totalOffered int64
	items := make([]models.TradeProposalItem, 0, len(offered))
	for i := range offered {
		l := &offered[i]
		if l.VendorID != fromVendorID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "offered listings must belong to you")
		}
		if !l.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "offered listing is no longer active")
		}
		totalOffered += l.TotalValueCents
		items = append(items, models.TradeProposalItem{
			ListingID:  l.ID,
			ValueCents: l.TotalValueCents,
		})
	}

	offeredValue := decimal.NewFromInt(totalOffered)
	requestedValue := decimal.NewFromInt(requested.TotalValueCents)
	if offeredValue.LessThan(requestedValue.Mul(parityThreshold)) {
		ratio := offeredValue.Div(requestedValue).Mul(decimal.NewFromInt(100)).Round(1)
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("offered value covers %s%% of the requested listing; at least 80%% is required", ratio))
	}

	proposal := &models.TradeProposal{
		FromVendorID:           fromVendorID,
		ToVendorID:             requested.VendorID,
		RequestedListingID:     requested.ID,
		Message:                strings.TrimSpace(req.Message),
		Status:                 enums.ProposalStatusPending,
		TotalOfferedValueCents: totalOffered,
		Items:                  items,
	}
	if err := s.repo.CreateProposal(ctx, proposal); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create proposal")
	}

	if s.logg != nil {
		ctx = s.logg.WithListingID(ctx, requested.ID.String())
		s.logg.Info(ctx, "trade proposal created")
	}

	proposal.RequestedListing = requested
	dto := proposalToDTO(proposal)
	return &dto, nil
}

func (s *service) ListProposals(ctx context.Context, vendorID uuid.UUID) (*ProposalsOverview, error) {
	proposals, err := s.repo.ListProposalsByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list proposals")
	}

	overview := &ProposalsOverview{Sent: []ProposalDTO{}, Received: []ProposalDTO{}}
	for i := range proposals {
		dto := proposalToDTO(&proposals[i])
		if proposals[i].FromVendorID == vendorID {
			overview.Sent = append(overview.Sent, dto)
		} else {
			overview.Received = append(overview.Received, dto)
		}
	}
	return overview, nil
}

func (s *service) ownedListing(ctx context.Context, vendorID, listingID uuid.UUID) (*models.TradeListing, error) {
	listing, err := s.findListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another vendor")
	}
	return listing, nil
}

func (s *service) findListing(ctx context.Context, id uuid.UUID) (*models.TradeListing, error) {
	listing, err := s.repo.FindListingByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load listing")
	}
	return listing, nil
}

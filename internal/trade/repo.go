package trade

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendygo/vendygo-backend/pkg/db/models"
)

// Repository exposes trade persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a trade repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateListing inserts a new listing.
func (r *Repository) CreateListing(ctx context.Context, listing *models.TradeListing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// FindListingByID loads one listing with its vendor.
func (r *Repository) FindListingByID(ctx context.Context, id uuid.UUID) (*models.TradeListing, error) {
	var listing models.TradeListing
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		First(&listing, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindListingsByIDs loads the given listings with vendors, any order.
func (r *Repository) FindListingsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.TradeListing, error) {
	var listings []models.TradeListing
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Where("id IN ?", ids).
		Find(&listings).Error
	return listings, err
}

// ListActive returns active listings newest first. Expiry and viewer
// exclusion are applied by the caller over this snapshot.
func (r *Repository) ListActive(ctx context.Context) ([]models.TradeListing, error) {
	var listings []models.TradeListing
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&listings).Error
	return listings, err
}

// ListByVendor returns a vendor's own listings newest first, active or not.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.TradeListing, error) {
	var listings []models.TradeListing
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&listings).Error
	return listings, err
}

// SaveListing persists edits to an existing listing.
func (r *Repository) SaveListing(ctx context.Context, listing *models.TradeListing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

// IncrementViews bumps the view counter without racing concurrent viewers.
func (r *Repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.TradeListing{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// CreateProposal inserts a proposal and its offered items in one transaction.
func (r *Repository) CreateProposal(ctx context.Context, proposal *models.TradeProposal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(proposal).Error
	})
}

// ListProposalsByVendor returns proposals the vendor sent or received,
// newest first, with items and the requested listing preloaded.
func (r *Repository) ListProposalsByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.TradeProposal, error) {
	var proposals []models.TradeProposal
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Listing").
		Preload("RequestedListing").
		Where("from_vendor_id = ? OR to_vendor_id = ?", vendorID, vendorID).
		Order("created_at DESC").
		Find(&proposals).Error
	return proposals, err
}

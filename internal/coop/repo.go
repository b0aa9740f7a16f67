package coop

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vendygo/vendygo-backend/pkg/db/models"
	"github.com/vendygo/vendygo-backend/pkg/pagination"
)

// Sentinel errors surfaced by the locked commit path.
var (
	ErrPastDeadline     = errors.New("campaign deadline has passed")
	ErrCapacityExceeded = errors.New("campaign capacity exceeded")
)

// CommitParams describes one addition to a campaign's ledger.
type CommitParams struct {
	CampaignID        uuid.UUID
	VendorName        string
	Quantity          int
	ContributionCents int64
	// UserID is set for user joins so the per-user aggregate accumulates;
	// feed commitments leave it nil.
	UserID *uuid.UUID
}

// Repository exposes campaign persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a coop repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a campaign with its participants and wholesaler.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CoopCampaign, error) {
	var campaign models.CoopCampaign
	err := r.db.WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Wholesaler").
		First(&campaign, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// List returns campaigns newest first.
func (r *Repository) List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.CoopCampaign, error) {
	q := r.db.WithContext(ctx).
		Preload("Wholesaler").
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var campaigns []models.CoopCampaign
	err := q.Find(&campaigns).Error
	return campaigns, err
}

// ListOpen returns campaigns still accepting commitments.
func (r *Repository) ListOpen(ctx context.Context) ([]models.CoopCampaign, error) {
	var campaigns []models.CoopCampaign
	err := r.db.WithContext(ctx).
		Where("deadline > ? AND current_committed < max_capacity", nowFunc()).
		Find(&campaigns).Error
	return campaigns, err
}

// ListByWholesaler returns a wholesaler's own campaigns newest first.
func (r *Repository) ListByWholesaler(ctx context.Context, wholesalerID uuid.UUID) ([]models.CoopCampaign, error) {
	var campaigns []models.CoopCampaign
	err := r.db.WithContext(ctx).
		Where("wholesaler_id = ?", wholesalerID).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

// Create inserts a new campaign.
func (r *Repository) Create(ctx context.Context, campaign *models.CoopCampaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

// Commit appends a participant row, bumps current_committed, and accumulates
// the caller's contribution aggregate, all under a row lock so the
// committed-equals-sum invariant survives concurrent writers. The deadline
// and capacity checks are repeated under the lock; callers should pre-check
// for friendlier errors but must handle the sentinels.
func (r *Repository) Commit(ctx context.Context, params CommitParams) (*models.CoopCampaign, error) {
	var campaign models.CoopCampaign
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&campaign, "id = ?", params.CampaignID).Error; err != nil {
			return err
		}

		now := nowFunc()
		if now.After(campaign.Deadline) {
			return ErrPastDeadline
		}
		if campaign.CurrentCommitted+params.Quantity > campaign.MaxCapacity {
			return ErrCapacityExceeded
		}

		participant := models.CoopParticipant{
			CampaignID:        campaign.ID,
			VendorName:        params.VendorName,
			Quantity:          params.Quantity,
			ContributionCents: params.ContributionCents,
		}
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.CoopCampaign{}).
			Where("id = ?", campaign.ID).
			UpdateColumn("current_committed", gorm.Expr("current_committed + ?", params.Quantity)).Error; err != nil {
			return err
		}
		campaign.CurrentCommitted += params.Quantity

		if params.UserID != nil {
			contribution := models.CoopContribution{
				CampaignID:        campaign.ID,
				UserID:            *params.UserID,
				Quantity:          params.Quantity,
				ContributionCents: params.ContributionCents,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "campaign_id"}, {Name: "user_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"quantity":           gorm.Expr("coop_contributions.quantity + ?", params.Quantity),
					"contribution_cents": gorm.Expr("coop_contributions.contribution_cents + ?", params.ContributionCents),
					"updated_at":         now,
				}),
			}).Create(&contribution).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// ListContributions returns the user's aggregates with campaigns preloaded.
func (r *Repository) ListContributions(ctx context.Context, userID uuid.UUID) ([]models.CoopContribution, error) {
	var contributions []models.CoopContribution
	err := r.db.WithContext(ctx).
		Preload("Campaign").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&contributions).Error
	return contributions, err
}

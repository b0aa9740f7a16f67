package coop

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendygo/vendygo-backend/pkg/db/models"
)

// CampaignDTO is the transport shape for a campaign with derived fields.
type CampaignDTO struct {
	ID                  uuid.UUID        `json:"id"`
	WholesalerID        uuid.UUID        `json:"wholesaler_id"`
	WholesalerName      string           `json:"wholesaler_name,omitempty"`
	Name                string           `json:"name"`
	Category            string           `json:"category"`
	Unit                string           `json:"unit"`
	Description         string           `json:"description"`
	ImageURL            string           `json:"image_url"`
	WholesalePriceCents int64            `json:"wholesale_price_cents"`
	RetailPriceCents    int64            `json:"retail_price_cents"`
	MinimumOrder        int              `json:"minimum_order"`
	CurrentCommitted    int              `json:"current_committed"`
	MaxCapacity         int              `json:"max_capacity"`
	Deadline            time.Time        `json:"deadline"`
	Progress            float64          `json:"progress"`
	DeadlineSoon        bool             `json:"deadline_soon"`
	Participants        []ParticipantDTO `json:"participants,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
}

// CampaignPage is one cursor-paginated slice of the campaign feed.
type CampaignPage struct {
	Campaigns  []CampaignDTO `json:"campaigns"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ParticipantDTO is one committed slice shown on the campaign detail.
type ParticipantDTO struct {
	VendorName        string    `json:"vendor_name"`
	Quantity          int       `json:"quantity"`
	ContributionCents int64     `json:"contribution_cents"`
	CreatedAt         time.Time `json:"created_at"`
}

// JoinReceipt confirms a successful join back to the vendor.
type JoinReceipt struct {
	CampaignID        uuid.UUID `json:"campaign_id"`
	CampaignName      string    `json:"campaign_name"`
	Quantity          int       `json:"quantity"`
	Unit              string    `json:"unit"`
	ContributionCents int64     `json:"contribution_cents"`
	SavingsCents      int64     `json:"savings_cents"`
}

// CreateCampaignRequest is the wholesaler payload for opening a campaign.
type CreateCampaignRequest struct {
	Name                string    `json:"name" validate:"required"`
	Category            string    `json:"category" validate:"required"`
	Unit                string    `json:"unit" validate:"required"`
	Description         string    `json:"description"`
	ImageURL            string    `json:"image_url"`
	WholesalePriceCents int64     `json:"wholesale_price_cents" validate:"required,gt=0"`
	RetailPriceCents    int64     `json:"retail_price_cents" validate:"required,gt=0"`
	MinimumOrder        int       `json:"minimum_order" validate:"required,gt=0"`
	MaxCapacity         int       `json:"max_capacity" validate:"required,gt=0"`
	Deadline            time.Time `json:"deadline" validate:"required"`
}

// JoinRequest carries the committed quantity.
type JoinRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// ContributionEntry is one row of the user's co-op summary.
type ContributionEntry struct {
	CampaignID        uuid.UUID `json:"campaign_id"`
	CampaignName      string    `json:"campaign_name"`
	Unit              string    `json:"unit"`
	Quantity          int       `json:"quantity"`
	ContributionCents int64     `json:"contribution_cents"`
	SavingsCents      int64     `json:"savings_cents"`
}

// ContributionSummary aggregates everything the user has committed.
type ContributionSummary struct {
	Entries                []ContributionEntry `json:"entries"`
	TotalContributionCents int64               `json:"total_contribution_cents"`
	TotalSavingsCents      int64               `json:"total_savings_cents"`
}

func campaignToDTO(c *models.CoopCampaign, now time.Time) CampaignDTO {
	dto := CampaignDTO{
		ID:                  c.ID,
		WholesalerID:        c.WholesalerID,
		Name:                c.Name,
		Category:            c.Category.String(),
		Unit:                c.Unit,
		Description:         c.Description,
		ImageURL:            c.ImageURL,
		WholesalePriceCents: c.WholesalePriceCents,
		RetailPriceCents:    c.RetailPriceCents,
		MinimumOrder:        c.MinimumOrder,
		CurrentCommitted:    c.CurrentCommitted,
		MaxCapacity:         c.MaxCapacity,
		Deadline:            c.Deadline,
		Progress:            Progress(c),
		DeadlineSoon:        IsDeadlineSoon(c, now),
		CreatedAt:           c.CreatedAt,
	}
	if c.Wholesaler != nil {
		dto.WholesalerName = c.Wholesaler.BusinessName
	}
	for _, p := range c.Participants {
		dto.Participants = append(dto.Participants, ParticipantDTO{
			VendorName:        p.VendorName,
			Quantity:          p.Quantity,
			ContributionCents: p.ContributionCents,
			CreatedAt:         p.CreatedAt,
		})
	}
	return dto
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendygo/vendygo-backend/pkg/enums"
)

// CoopCampaign is a wholesaler bulk-buying campaign.
//
// current_committed must always equal the sum of participant quantities;
// both write paths maintain it inside a transaction.
type CoopCampaign struct {
	ID                  uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WholesalerID        uuid.UUID             `gorm:"column:wholesaler_id;type:uuid;not null"`
	Name                string                `gorm:"column:name;not null"`
	Category            enums.ProductCategory `gorm:"column:category;not null"`
	Unit                string                `gorm:"column:unit;not null"`
	Description         string                `gorm:"column:description;not null;default:''"`
	ImageURL            string                `gorm:"column:image_url;not null;default:''"`
	WholesalePriceCents int64                 `gorm:"column:wholesale_price_cents;not null"`
	RetailPriceCents    int64                 `gorm:"column:retail_price_cents;not null"`
	MinimumOrder        int                   `gorm:"column:minimum_order;not null"`
	CurrentCommitted    int                   `gorm:"column:current_committed;not null;default:0"`
	MaxCapacity         int                   `gorm:"column:max_capacity;not null"`
	Deadline            time.Time             `gorm:"column:deadline;not null"`
	Participants        []CoopParticipant     `gorm:"foreignKey:CampaignID"`
	Wholesaler          *User                 `gorm:"foreignKey:WholesalerID"`
	CreatedAt           time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's pluralization.
func (CoopCampaign) TableName() string { return "coop_campaigns" }

// CoopParticipant is one committed slice of a campaign. Append-only.
type CoopParticipant struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID        uuid.UUID `gorm:"column:campaign_id;type:uuid;not null"`
	VendorName        string    `gorm:"column:vendor_name;not null"`
	Quantity          int       `gorm:"column:quantity;not null"`
	ContributionCents int64     `gorm:"column:contribution_cents;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides GORM's pluralization.
func (CoopParticipant) TableName() string { return "coop_participants" }

// CoopContribution aggregates a single user's stake in a campaign.
// Repeat joins accumulate into the same row.
type CoopContribution struct {
	ID                uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID        uuid.UUID     `gorm:"column:campaign_id;type:uuid;not null;uniqueIndex:coop_contributions_campaign_user_key"`
	UserID            uuid.UUID     `gorm:"column:user_id;type:uuid;not null;uniqueIndex:coop_contributions_campaign_user_key"`
	Quantity          int           `gorm:"column:quantity;not null"`
	ContributionCents int64         `gorm:"column:contribution_cents;not null"`
	Campaign          *CoopCampaign `gorm:"foreignKey:CampaignID"`
	CreatedAt         time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides GORM's pluralization.
func (CoopContribution) TableName() string { return "coop_contributions" }

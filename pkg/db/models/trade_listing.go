package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendygo/vendygo-backend/pkg/enums"
)

// TradeListing is surplus stock a vendor offers for barter.
type TradeListing struct {
	ID                uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID          uuid.UUID              `gorm:"column:vendor_id;type:uuid;not null"`
	ProductName       string                 `gorm:"column:product_name;not null"`
	Category          enums.ProductCategory  `gorm:"column:category;not null"`
	Quantity          int                    `gorm:"column:quantity;not null"`
	Unit              string                 `gorm:"column:unit;not null"`
	PricePerUnitCents int64                  `gorm:"column:price_per_unit_cents;not null"`
	TotalValueCents   int64                  `gorm:"column:total_value_cents;not null"`
	Condition         enums.ListingCondition `gorm:"column:condition;type:listing_condition;not null;default:'good'"`
	Description       string                 `gorm:"column:description;not null;default:''"`
	TradeConditions   string                 `gorm:"column:trade_conditions;not null;default:''"`
	ImageURL          string                 `gorm:"column:image_url;not null;default:''"`
	Views             int                    `gorm:"column:views;not null;default:0"`
	InterestedCount   int                    `gorm:"column:interested_count;not null;default:0"`
	IsActive          bool                   `gorm:"column:is_active;not null;default:true"`
	Vendor            *User                  `gorm:"foreignKey:VendorID"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`
	ExpiresAt         time.Time              `gorm:"column:expires_at;not null"`
}

// TableName overrides GORM's pluralization.
func (TradeListing) TableName() string { return "trade_listings" }

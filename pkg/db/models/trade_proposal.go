package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendygo/vendygo-backend/pkg/enums"
)

// TradeProposal offers a set of listings against another vendor's listing.
type TradeProposal struct {
	ID                     uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FromVendorID           uuid.UUID            `gorm:"column:from_vendor_id;type:uuid;not null"`
	ToVendorID             uuid.UUID            `gorm:"column:to_vendor_id;type:uuid;not null"`
	RequestedListingID     uuid.UUID            `gorm:"column:requested_listing_id;type:uuid;not null"`
	Message                string               `gorm:"column:message;not null;default:''"`
	Status                 enums.ProposalStatus `gorm:"column:status;type:proposal_status;not null;default:'pending'"`
	TotalOfferedValueCents int64                `gorm:"column:total_offered_value_cents;not null"`
	RequestedListing       *TradeListing        `gorm:"foreignKey:RequestedListingID"`
	Items                  []TradeProposalItem  `gorm:"foreignKey:ProposalID;constraint:OnDelete:CASCADE"`
	CreatedAt              time.Time            `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides GORM's pluralization.
func (TradeProposal) TableName() string { return "trade_proposals" }

// TradeProposalItem is one listing offered as part of a proposal. The value
// is captured at proposal time so later listing edits don't rewrite history.
type TradeProposalItem struct {
	ID         uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProposalID uuid.UUID     `gorm:"column:proposal_id;type:uuid;not null"`
	ListingID  uuid.UUID     `gorm:"column:listing_id;type:uuid;not null"`
	ValueCents int64         `gorm:"column:value_cents;not null"`
	Listing    *TradeListing `gorm:"foreignKey:ListingID"`
}

// TableName overrides GORM's pluralization.
func (TradeProposalItem) TableName() string { return "trade_proposal_items" }

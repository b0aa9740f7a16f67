package trade

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendygo/vendygo-backend/pkg/db/models"
)

// ListingDTO is the transport shape for a trade listing.
type ListingDTO struct {
	ID                uuid.UUID `json:"id"`
	VendorID          uuid.UUID `json:"vendor_id"`
	VendorName        string    `json:"vendor_name,omitempty"`
	ProductName       string    `json:"product_name"`
	Category          string    `json:"category"`
	Quantity          int       `json:"quantity"`
	Unit              string    `json:"unit"`
	PricePerUnitCents int64     `json:"price_per_unit_cents"`
	TotalValueCents   int64     `json:"total_value_cents"`
	Condition         string    `json:"condition"`
	Description       string    `json:"description"`
	TradeConditions   string    `json:"trade_conditions"`
	ImageURL          string    `json:"image_url"`
	Views             int       `json:"views"`
	InterestedCount   int       `json:"interested_count"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	ExpiresAt         time.Time `json:"expires_at"`
}

// CreateListingRequest is the vendor payload for posting surplus stock.
type CreateListingRequest struct {
	ProductName       string `json:"product_name" validate:"required"`
	Category          string `json:"category" validate:"required"`
	Quantity          int    `json:"quantity" validate:"required,gt=0"`
	Unit              string `json:"unit" validate:"required"`
	PricePerUnitCents int64  `json:"price_per_unit_cents" validate:"required,gt=0"`
	Condition         string `json:"condition"`
	Description       string `json:"description"`
	TradeConditions   string `json:"trade_conditions"`
	ImageURL          string `json:"image_url"`
}

// UpdateListingRequest carries a partial edit; nil fields are untouched.
type UpdateListingRequest struct {
	ProductName       *string `json:"product_name"`
	Quantity          *int    `json:"quantity"`
	PricePerUnitCents *int64  `json:"price_per_unit_cents"`
	Condition         *string `json:"condition"`
	Description       *string `json:"description"`
	TradeConditions   *string `json:"trade_conditions"`
	ImageURL          *string `json:"image_url"`
}

// BrowseQuery filters and orders the trade feed.
type BrowseQuery struct {
	Search   string
	Category string
	Sort     string
}

// ProposeRequest offers the caller's listings against another vendor's listing.
type ProposeRequest struct {
	RequestedListingID uuid.UUID   `json:"requested_listing_id" validate:"required"`
	OfferedListingIDs  []uuid.UUID `json:"offered_listing_ids" validate:"required"`
	Message            string      `json:"message"`
}

// ProposalItemDTO is one offered listing inside a proposal.
type ProposalItemDTO struct {
	ListingID   uuid.UUID `json:"listing_id"`
	ProductName string    `json:"product_name,omitempty"`
	ValueCents  int64     `json:"value_cents"`
}

// ProposalDTO is the transport shape for a barter proposal.
type ProposalDTO struct {
	ID                     uuid.UUID         `json:"id"`
	FromVendorID           uuid.UUID         `json:"from_vendor_id"`
	ToVendorID             uuid.UUID         `json:"to_vendor_id"`
	RequestedListingID     uuid.UUID         `json:"requested_listing_id"`
	RequestedProductName   string            `json:"requested_product_name,omitempty"`
	Message                string            `json:"message"`
	Status                 string            `json:"status"`
	TotalOfferedValueCents int64             `json:"total_offered_value_cents"`
	Items                  []ProposalItemDTO `json:"items"`
	CreatedAt              time.Time         `json:"created_at"`
}

// ProposalsOverview splits proposals by direction for the caller.
type ProposalsOverview struct {
	Sent     []ProposalDTO `json:"sent"`
	Received []ProposalDTO `json:"received"`
}

func listingToDTO(l *models.TradeListing) ListingDTO {
	dto := ListingDTO{
		ID:                l.ID,
		VendorID:          l.VendorID,
		ProductName:       l.ProductName,
		Category:          l.Category.String(),
		Quantity:          l.Quantity,
		Unit:              l.Unit,
		PricePerUnitCents: l.PricePerUnitCents,
		TotalValueCents:   l.TotalValueCents,
		Condition:         l.Condition.String(),
		Description:       l.Description,
		TradeConditions:   l.TradeConditions,
		ImageURL:          l.ImageURL,
		Views:             l.Views,
		InterestedCount:   l.InterestedCount,
		IsActive:          l.IsActive,
		CreatedAt:         l.CreatedAt,
		ExpiresAt:         l.ExpiresAt,
	}
	if l.Vendor != nil {
		dto.VendorName = l.Vendor.BusinessName
	}
	return dto
}

func proposalToDTO(p *models.TradeProposal) ProposalDTO {
	dto := ProposalDTO{
		ID:                     p.ID,
		FromVendorID:           p.FromVendorID,
		ToVendorID:             p.ToVendorID,
		RequestedListingID:     p.RequestedListingID,
		Message:                p.Message,
		Status:                 p.Status.String(),
		TotalOfferedValueCents: p.TotalOfferedValueCents,
		CreatedAt:              p.CreatedAt,
	}
	if p.RequestedListing != nil {
		dto.RequestedProductName = p.RequestedListing.ProductName
	}
	for _, item := range p.Items {
		itemDTO := ProposalItemDTO{ListingID: item.ListingID, ValueCents: item.ValueCents}
		if item.Listing != nil {
			itemDTO.ProductName = item.Listing.ProductName
		}
		dto.Items = append(dto.Items, itemDTO)
	}
	return dto
}

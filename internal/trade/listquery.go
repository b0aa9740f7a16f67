package trade

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vendygo/vendygo-backend/pkg/db/models"
	"github.com/vendygo/vendygo-backend/pkg/enums"
)

// FilterListings drops the viewer's own listings plus anything inactive or
// expired, then applies the search and category filters. Search is a
// case-insensitive substring match on the product name only.
func FilterListings(listings []models.TradeListing, viewerID uuid.UUID, query BrowseQuery, now time.Time) []models.TradeListing {
	search := strings.ToLower(strings.TrimSpace(query.Search))
	category := strings.TrimSpace(query.Category)

	out := make([]models.TradeListing, 0, len(listings))
	for _, l := range listings {
		if l.VendorID == viewerID {
			continue
		}
		if !l.IsActive || now.After(l.ExpiresAt) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(l.ProductName), search) {
			continue
		}
		if category != "" && l.Category.String() != category {
			continue
		}
		out = append(out, l)
	}
	return out
}

// SortListings orders listings in place. The sort is stable so rows that
// compare equal keep their input order.
func SortListings(listings []models.TradeListing, by enums.ListingSort) {
	switch by {
	case enums.ListingSortPriceLow:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].PricePerUnitCents < listings[j].PricePerUnitCents
		})
	case enums.ListingSortPriceHigh:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].PricePerUnitCents > listings[j].PricePerUnitCents
		})
	case enums.ListingSortPopular:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Views > listings[j].Views
		})
	default:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].CreatedAt.After(listings[j].CreatedAt)
		})
	}
}

package enums

import "fmt"

// ListingCondition grades the freshness of goods offered for trade.
type ListingCondition string

const (
	ListingConditionFresh     ListingCondition = "fresh"
	ListingConditionGood      ListingCondition = "good"
	ListingConditionExcellent ListingCondition = "excellent"
	ListingConditionPremium   ListingCondition = "premium"
)

var validListingConditions = []ListingCondition{
	ListingConditionFresh,
	ListingConditionGood,
	ListingConditionExcellent,
	ListingConditionPremium,
}

// String implements fmt.Stringer.
func (c ListingCondition) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ListingCondition.
func (c ListingCondition) IsValid() bool {
	for _, candidate := range validListingConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseListingCondition converts raw input into a ListingCondition.
func ParseListingCondition(value string) (ListingCondition, error) {
	for _, candidate := range validListingConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing condition %q", value)
}

// ListingSort names the supported browse orderings.
type ListingSort string

const (
	ListingSortNewest    ListingSort = "newest"
	ListingSortPriceLow  ListingSort = "price-low"
	ListingSortPriceHigh ListingSort = "price-high"
	ListingSortPopular   ListingSort = "popular"
)

var validListingSorts = []ListingSort{
	ListingSortNewest,
	ListingSortPriceLow,
	ListingSortPriceHigh,
	ListingSortPopular,
}

// IsValid reports whether the value is a known ListingSort.
func (s ListingSort) IsValid() bool {
	for _, candidate := range validListingSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseListingSort converts raw input into a ListingSort, defaulting to newest.
func ParseListingSort(value string) (ListingSort, error) {
	if value == "" {
		return ListingSortNewest, nil
	}
	for _, candidate := range validListingSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing sort %q", value)
}

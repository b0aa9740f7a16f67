package enums

import "fmt"

// ProductCategory buckets goods on campaigns and trade listings.
type ProductCategory string

const (
	ProductCategoryVegetables ProductCategory = "vegetables"
	ProductCategoryFruits     ProductCategory = "fruits"
	ProductCategoryGrains     ProductCategory = "grains"
	ProductCategoryPulses     ProductCategory = "pulses"
	ProductCategorySpices     ProductCategory = "spices"
	ProductCategoryHerbs      ProductCategory = "herbs"
	ProductCategoryDairy      ProductCategory = "dairy"
	ProductCategoryOils       ProductCategory = "oils"
	ProductCategoryNuts       ProductCategory = "nuts"
	ProductCategorySweeteners ProductCategory = "sweeteners"
	ProductCategoryBeverages  ProductCategory = "beverages"
)

var validProductCategories = []ProductCategory{
	ProductCategoryVegetables,
	ProductCategoryFruits,
	ProductCategoryGrains,
	ProductCategoryPulses,
	ProductCategorySpices,
	ProductCategoryHerbs,
	ProductCategoryDairy,
	ProductCategoryOils,
	ProductCategoryNuts,
	ProductCategorySweeteners,
	ProductCategoryBeverages,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

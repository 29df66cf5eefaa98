package models

// ValidCategories is the closed set of product categories. Matching is
// case-sensitive.
var ValidCategories = []string{"Electronics", "Clothing", "Home & Garden", "Toys & Games", "Beauty & Health"}

// ValidColors is the closed set of specification colors. Matching is
// case-insensitive, but the submitted casing is stored as-is.
var ValidColors = []string{"red", "green", "blue", "yellow", "black", "white", "pink", "orange", "purple", "gray"}

// Specification holds the physical attributes of a product.
type Specification struct {
	Color  string  `json:"color" validate:"min=1,max=30,color"`
	Weight float64 `json:"weight" validate:"gt=0"` // kilograms
	Height float64 `json:"height" validate:"gt=0"` // centimeters
	Length float64 `json:"length" validate:"gt=0"` // centimeters
}

// Product represents a product in the catalog. The ID is assigned by the
// repository and is never taken from a request body on create.
type Product struct {
	ID            int            `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" validate:"min=2,max=50"`
	Price         float64        `json:"price" validate:"gt=0,lt=1000000"`
	Category      string         `json:"category" validate:"min=3,max=30,category"`
	Specification *Specification `json:"specification" validate:"required" gorm:"embedded;embeddedPrefix:spec_"`
	Description   *string        `json:"description" validate:"omitempty,max=200"`
	Stock         int            `json:"stock" validate:"gte=0"`
}

// BulkProducts is the request wrapper for the bulk create and bulk update
// endpoints.
type BulkProducts struct {
	Products []Product `json:"products" validate:"required,dive"`
}

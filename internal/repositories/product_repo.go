package repositories

import (
	"errors"

	"katalog/internal/models"
)

// ErrProductNotFound is returned by id-keyed operations when no product
// matches.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
// Implementations must preserve insertion order in GetAll and assign ids as
// max(existing)+1, or 1 when the collection is empty.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id int) (*models.Product, error)
	Create(product *models.Product) error
	CreateBatch(products []models.Product) ([]models.Product, error)
	Replace(id int, product models.Product) (*models.Product, error)
	// ReplaceBatch replaces each product whose id exists and silently skips
	// the rest. It returns the replaced products in input order.
	ReplaceBatch(products []models.Product) ([]models.Product, error)
	SetStock(id int, quantity int) (*models.Product, error)
	Delete(id int) error
	// Reset restores the fixed seed records with ids 1-3.
	Reset() error
}

// SeedProducts returns the fixed seed state restored by Reset.
func SeedProducts() []models.Product {
	return []models.Product{
		{
			ID:            1,
			Name:          "Laptop",
			Price:         800.0,
			Category:      "Electronics",
			Specification: &models.Specification{Color: "black", Weight: 1.5, Height: 2.0, Length: 15.0},
			Description:   strptr("High performance laptop"),
			Stock:         0,
		},
		{
			ID:            2,
			Name:          "T-Shirt",
			Price:         20.0,
			Category:      "Clothing",
			Specification: &models.Specification{Color: "white", Weight: 0.2, Height: 1.0, Length: 5.0},
			Description:   strptr("Cotton t-shirt"),
			Stock:         2,
		},
		{
			ID:            3,
			Name:          "Gaming Laptop",
			Price:         20.0,
			Category:      "Electronics",
			Specification: &models.Specification{Color: "white", Weight: 30.5, Height: 8.0, Length: 5.0},
			Description:   strptr("Cool gaming laptop"),
			Stock:         4,
		},
	}
}

func strptr(s string) *string {
	return &s
}

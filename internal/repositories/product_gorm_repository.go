package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"katalog/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository. It is
// selected when a database DSN is configured; the id allocation and ordering
// semantics match the in-memory repository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository migrates the product table and creates the
// repository.
func NewGORMProductRepository(db *gorm.DB) (*GORMProductRepository, error) {
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return nil, fmt.Errorf("failed to migrate products table: %w", err)
	}
	return &GORMProductRepository{db: db}, nil
}

// GetAll retrieves all products ordered by id.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its id.
func (r *GORMProductRepository) GetByID(id int) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// Create assigns the next id and inserts the product.
func (r *GORMProductRepository) Create(product *models.Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		id, err := nextID(tx)
		if err != nil {
			return err
		}
		product.ID = id
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
}

// CreateBatch inserts all products with sequential ids inside one
// transaction.
func (r *GORMProductRepository) CreateBatch(products []models.Product) ([]models.Product, error) {
	created := make([]models.Product, 0, len(products))
	err := r.db.Transaction(func(tx *gorm.DB) error {
		id, err := nextID(tx)
		if err != nil {
			return err
		}
		for _, p := range products {
			p.ID = id
			id++
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("failed to create product: %w", err)
			}
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Replace overwrites the fields of the product with the given id.
func (r *GORMProductRepository) Replace(id int, product models.Product) (*models.Product, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to get product %d: %w", id, err)
		}
		product.ID = id
		// Save updates all fields, including zero values.
		if err := tx.Save(&product).Error; err != nil {
			return fmt.Errorf("failed to update product %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ReplaceBatch replaces each product whose id exists and skips the rest, all
// inside one transaction.
func (r *GORMProductRepository) ReplaceBatch(products []models.Product) ([]models.Product, error) {
	updated := make([]models.Product, 0, len(products))
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range products {
			var existing models.Product
			if err := tx.First(&existing, "id = ?", p.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return fmt.Errorf("failed to get product %d: %w", p.ID, err)
			}
			if err := tx.Save(&p).Error; err != nil {
				return fmt.Errorf("failed to update product %d: %w", p.ID, err)
			}
			updated = append(updated, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetStock sets the stock of the product with the given id.
func (r *GORMProductRepository) SetStock(id int, quantity int) (*models.Product, error) {
	var product models.Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to get product %d: %w", id, err)
		}
		product.Stock = quantity
		if err := tx.Model(&product).Update("stock", quantity).Error; err != nil {
			return fmt.Errorf("failed to update stock for product %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete removes the product with the given id.
func (r *GORMProductRepository) Delete(id int) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Reset replaces the whole table with the seed products.
func (r *GORMProductRepository) Reset() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to clear products table: %w", err)
		}
		seeds := SeedProducts()
		if err := tx.Create(&seeds).Error; err != nil {
			return fmt.Errorf("failed to insert seed products: %w", err)
		}
		return nil
	})
}

// IsEmpty reports whether the table has no rows; main uses it to seed a
// fresh database without wiping an existing one.
func (r *GORMProductRepository) IsEmpty() (bool, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count products: %w", err)
	}
	return count == 0, nil
}

func nextID(tx *gorm.DB) (int, error) {
	var maxID int64
	if err := tx.Model(&models.Product{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
		return 0, fmt.Errorf("failed to allocate product id: %w", err)
	}
	return int(maxID) + 1, nil
}

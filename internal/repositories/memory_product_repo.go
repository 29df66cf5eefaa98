package repositories

import (
	"sync"

	"katalog/internal/models"
)

// MemoryProductRepository is an in-memory implementation of
// ProductRepository. Products are kept in an ordered slice so listing
// preserves insertion order, and all multi-step operations run under one
// lock.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
}

// NewMemoryProductRepository creates a repository pre-populated with the
// seed products.
func NewMemoryProductRepository() *MemoryProductRepository {
	r := &MemoryProductRepository{}
	r.products = SeedProducts()
	return r
}

// GetAll returns all products in insertion order.
func (r *MemoryProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, clone(p))
	}
	return out, nil
}

// GetByID returns the first product matching id.
func (r *MemoryProductRepository) GetByID(id int) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			c := clone(p)
			return &c, nil
		}
	}
	return nil, ErrProductNotFound
}

// Create assigns the next id and appends the product.
func (r *MemoryProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextIDLocked()
	r.products = append(r.products, clone(*product))
	return nil
}

// CreateBatch inserts the products in order, each with a fresh sequential
// id. The whole batch is applied under a single lock.
func (r *MemoryProductRepository) CreateBatch(products []models.Product) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := make([]models.Product, 0, len(products))
	for _, p := range products {
		p.ID = r.nextIDLocked()
		r.products = append(r.products, clone(p))
		created = append(created, p)
	}
	return created, nil
}

// Replace overwrites the fields of the product with the given id. The id is
// preserved regardless of the incoming product's id.
func (r *MemoryProductRepository) Replace(id int, product models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.products {
		if r.products[i].ID == id {
			product.ID = id
			r.products[i] = clone(product)
			c := clone(r.products[i])
			return &c, nil
		}
	}
	return nil, ErrProductNotFound
}

// ReplaceBatch replaces each product whose id exists, skipping the rest.
// Matched products are returned in input order.
func (r *MemoryProductRepository) ReplaceBatch(products []models.Product) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := make([]models.Product, 0, len(products))
	for _, p := range products {
		for i := range r.products {
			if r.products[i].ID == p.ID {
				r.products[i] = clone(p)
				updated = append(updated, p)
				break
			}
		}
	}
	return updated, nil
}

// SetStock sets the stock of the product with the given id. The quantity
// must already be validated by the caller.
func (r *MemoryProductRepository) SetStock(id int, quantity int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.products {
		if r.products[i].ID == id {
			r.products[i].Stock = quantity
			c := clone(r.products[i])
			return &c, nil
		}
	}
	return nil, ErrProductNotFound
}

// Delete removes the first product matching id.
func (r *MemoryProductRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

// Reset replaces the whole collection with the seed products. Id allocation
// follows the collection contents, so it is reset implicitly.
func (r *MemoryProductRepository) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = SeedProducts()
	return nil
}

func (r *MemoryProductRepository) nextIDLocked() int {
	next := 1
	for _, p := range r.products {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	return next
}

// clone deep-copies a product so stored records never share pointers with
// request or response values.
func clone(p models.Product) models.Product {
	if p.Specification != nil {
		spec := *p.Specification
		p.Specification = &spec
	}
	if p.Description != nil {
		desc := *p.Description
		p.Description = &desc
	}
	return p
}

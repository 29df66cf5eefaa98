package services

import (
	"log"
	"strings"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/pkg/rabbitmq"
)

// ProductService handles business logic related to products: filtering,
// search, stock updates, bulk semantics and optional event publishing.
type ProductService struct {
	repo     repositories.ProductRepository
	mqClient *rabbitmq.Client
}

// NewProductService creates a new ProductService. mqClient may be nil when
// no broker is configured; event publishing is skipped in that case.
func NewProductService(repo repositories.ProductRepository, mqClient *rabbitmq.Client) *ProductService {
	return &ProductService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// ListProducts retrieves all products, filtered by price when maxPrice is
// non-nil. Order is preserved.
func (s *ProductService) ListProducts(maxPrice *float64) ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	if maxPrice == nil {
		return products, nil
	}

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Price <= *maxPrice {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// SearchProducts returns all products whose name contains the query,
// case-insensitively, in store order.
func (s *ProductService) SearchProducts(query string) ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	found := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			found = append(found, p)
		}
	}
	return found, nil
}

// GetProductByID retrieves a single product by its id.
func (s *ProductService) GetProductByID(id int) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product; the repository assigns the id.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.publishEvent("product.created", product.ID)
	return nil
}

// CreateProducts inserts a validated batch, assigning fresh sequential ids
// in array order.
func (s *ProductService) CreateProducts(products []models.Product) ([]models.Product, error) {
	created, err := s.repo.CreateBatch(products)
	if err != nil {
		return nil, err
	}
	for _, p := range created {
		s.publishEvent("product.created", p.ID)
	}
	return created, nil
}

// UpdateProduct replaces the product with the given id. The id in the
// product body is ignored; the path id wins.
func (s *ProductService) UpdateProduct(id int, product models.Product) (*models.Product, error) {
	updated, err := s.repo.Replace(id, product)
	if err != nil {
		return nil, err
	}
	s.publishEvent("product.updated", id)
	return updated, nil
}

// UpdateProducts replaces each product in the batch that matches an
// existing id and silently skips the rest. Partial application, no
// rollback.
func (s *ProductService) UpdateProducts(products []models.Product) ([]models.Product, error) {
	updated, err := s.repo.ReplaceBatch(products)
	if err != nil {
		return nil, err
	}
	for _, p := range updated {
		s.publishEvent("product.updated", p.ID)
	}
	return updated, nil
}

// UpdateStock sets (not increments) the stock of a product. The quantity
// must already be validated as non-negative by the handler.
func (s *ProductService) UpdateStock(id int, quantity int) (*models.Product, error) {
	updated, err := s.repo.SetStock(id, quantity)
	if err != nil {
		return nil, err
	}
	s.publishEvent("product.updated", id)
	return updated, nil
}

// DeleteProduct deletes a product by its id.
func (s *ProductService) DeleteProduct(id int) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.publishEvent("product.deleted", id)
	return nil
}

// ResetProducts restores the seed products. Intended for test harness use.
func (s *ProductService) ResetProducts() error {
	return s.repo.Reset()
}

// publishEvent publishes a catalog change event when a broker is
// configured. Publish failures are logged and never affect the request
// outcome.
func (s *ProductService) publishEvent(action string, productID int) {
	if s.mqClient == nil {
		return
	}
	event := map[string]interface{}{
		"event":     action,
		"productID": productID,
	}
	if err := s.mqClient.PublishProductEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %d: %v", action, productID, err)
	}
}

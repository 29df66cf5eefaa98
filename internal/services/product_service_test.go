package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
)

// MockProductRepository is a mock implementation of
// repositories.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id int) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) CreateBatch(products []models.Product) ([]models.Product, error) {
	args := m.Called(products)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) Replace(id int, product models.Product) (*models.Product, error) {
	args := m.Called(id, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) ReplaceBatch(products []models.Product) ([]models.Product, error) {
	args := m.Called(products)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) SetStock(id int, quantity int) (*models.Product, error) {
	args := m.Called(id, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockProductRepository) Reset() error {
	args := m.Called()
	return args.Error(0)
}

func catalog() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Laptop", Price: 800.0, Stock: 0},
		{ID: 2, Name: "T-Shirt", Price: 20.0, Stock: 2},
		{ID: 3, Name: "Gaming Laptop", Price: 20.0, Stock: 4},
	}
}

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("GetAll").Return(catalog(), nil).Once()
	products, err := service.ListProducts(nil)
	assert.NoError(t, err)
	assert.Len(t, products, 3)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ListProductsWithMaxPrice(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	maxPrice := 20.0
	mockRepo.On("GetAll").Return(catalog(), nil).Once()

	products, err := service.ListProducts(&maxPrice)
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	// Filtering preserves store order.
	assert.Equal(t, 2, products[0].ID)
	assert.Equal(t, 3, products[1].ID)
	mockRepo.AssertExpectations(t)
}

func TestProductService_SearchProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("GetAll").Return(catalog(), nil).Times(3)

	// Case-insensitive substring match.
	products, err := service.SearchProducts("LAPTOP")
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "Laptop", products[0].Name)
	assert.Equal(t, "Gaming Laptop", products[1].Name)

	products, err = service.SearchProducts("shirt")
	assert.NoError(t, err)
	assert.Len(t, products, 1)

	products, err = service.SearchProducts("nothing here")
	assert.NoError(t, err)
	assert.Empty(t, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expected := &models.Product{ID: 1, Name: "Laptop", Price: 800.0}
	mockRepo.On("GetByID", 1).Return(expected, nil).Once()
	product, err := service.GetProductByID(1)
	assert.NoError(t, err)
	assert.Equal(t, expected, product)

	mockRepo.On("GetByID", 99).Return(nil, repositories.ErrProductNotFound).Once()
	product, err = service.GetProductByID(99)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	newProduct := &models.Product{Name: "Monitor", Price: 150.0, Stock: 5}
	mockRepo.On("Create", newProduct).Return(nil).Once()
	assert.NoError(t, service.CreateProduct(newProduct))
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	replacement := models.Product{Name: "Workstation", Price: 2500.0}
	updated := replacement
	updated.ID = 1

	mockRepo.On("Replace", 1, replacement).Return(&updated, nil).Once()
	result, err := service.UpdateProduct(1, replacement)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.ID)

	mockRepo.On("Replace", 99, replacement).Return(nil, repositories.ErrProductNotFound).Once()
	_, err = service.UpdateProduct(99, replacement)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateStock(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	updated := &models.Product{ID: 2, Name: "T-Shirt", Stock: 9}
	mockRepo.On("SetStock", 2, 9).Return(updated, nil).Once()
	result, err := service.UpdateStock(2, 9)
	assert.NoError(t, err)
	assert.Equal(t, 9, result.Stock)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("Delete", 1).Return(nil).Once()
	assert.NoError(t, service.DeleteProduct(1))

	mockRepo.On("Delete", 99).Return(repositories.ErrProductNotFound).Once()
	assert.ErrorIs(t, service.DeleteProduct(99), repositories.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_BulkOperations(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	batch := []models.Product{{Name: "Monitor", Price: 150.0}, {Name: "Webcam", Price: 60.0}}
	created := []models.Product{{ID: 4, Name: "Monitor", Price: 150.0}, {ID: 5, Name: "Webcam", Price: 60.0}}
	mockRepo.On("CreateBatch", batch).Return(created, nil).Once()

	result, err := service.CreateProducts(batch)
	assert.NoError(t, err)
	assert.Equal(t, created, result)

	updates := []models.Product{{ID: 1, Name: "Renamed", Price: 900.0}, {ID: 999, Name: "Ghost", Price: 5.0}}
	applied := []models.Product{{ID: 1, Name: "Renamed", Price: 900.0}}
	mockRepo.On("ReplaceBatch", updates).Return(applied, nil).Once()

	result, err = service.UpdateProducts(updates)
	assert.NoError(t, err)
	assert.Len(t, result, 1)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ResetProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("Reset").Return(nil).Once()
	assert.NoError(t, service.ResetProducts())
	mockRepo.AssertExpectations(t)
}

package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/internal/validation"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validation.Validator
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validation.New(),
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app. The
// static product routes must be registered before the :product_id routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleStatus)
	router.Get("/health", h.HandleHealth)
	router.Get("/reset", h.HandleReset)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Post("/bulk", h.HandleBulkCreate)
	productRoutes.Put("/bulk_update", h.HandleBulkUpdate)
	productRoutes.Put("/stock_update/:product_id", h.HandleStockUpdate)
	productRoutes.Get("/:product_id", h.HandleGetProduct)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:product_id", h.HandleUpdateProduct)
	productRoutes.Delete("/:product_id", h.HandleDeleteProduct)
}

// HandleStatus reports that the API is online.
func (h *ProductHandler) HandleStatus(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "ok",
	})
}

// HandleHealth returns a health payload with a timestamp.
func (h *ProductHandler) HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// HandleReset restores the seed products. Intended for test-harness use
// only.
func (h *ProductHandler) HandleReset(c *fiber.Ctx) error {
	if err := h.service.ResetProducts(); err != nil {
		log.Printf("Error resetting products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not reset products",
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{})
}

// HandleListProducts lists all products, optionally filtered by a max_price
// query parameter. An absent, unparseable or zero max_price leaves the list
// unfiltered.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	var maxPrice *float64
	if raw := c.Query("max_price"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value != 0 {
			maxPrice = &value
		}
	}

	products, err := h.service.ListProducts(maxPrice)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve products",
		})
	}
	return c.Status(fiber.StatusOK).JSON(products)
}

// HandleSearchProducts returns the products whose name contains the
// required search_query parameter, case-insensitively.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	if !c.Request().URI().QueryArgs().Has("search_query") {
		return c.Status(fiber.StatusBadRequest).JSON(validation.MissingParam("search_query"))
	}

	products, err := h.service.SearchProducts(c.Query("search_query"))
	if err != nil {
		log.Printf("Error searching products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not search products",
		})
	}
	return c.Status(fiber.StatusOK).JSON(products)
}

// HandleGetProduct returns a single product by its id.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("product_id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No product found",
		})
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "No product found",
			})
		}
		log.Printf("Error getting product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve product",
		})
	}
	return c.Status(fiber.StatusOK).JSON(product)
}

// HandleCreateProduct validates and creates a single product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing create request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if errs := h.validate.ValidateProduct(&product); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create product",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces the product with the path id by a fully
// validated product body. Validation runs before the existence check; a
// body-supplied id is ignored.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, paramErr := c.ParamsInt("product_id")

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if errs := h.validate.ValidateProduct(&product); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	if paramErr != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	updated, err := h.service.UpdateProduct(id, product)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		log.Printf("Error updating product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update product",
		})
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// HandleDeleteProduct removes a product by its id.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("product_id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	if err := h.service.DeleteProduct(id); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		log.Printf("Error deleting product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete product",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleStockUpdate sets the stock of a product to the quantity query
// parameter. The quantity is validated before the existence check.
func (h *ProductHandler) HandleStockUpdate(c *fiber.Ctx) error {
	quantityRaw := c.Query("quantity")
	quantity, quantityErr := strconv.Atoi(quantityRaw)
	if quantityRaw == "" || quantityErr != nil || quantity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A valid quantity parameter is required",
		})
	}

	id, err := c.ParamsInt("product_id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	updated, err := h.service.UpdateStock(id, quantity)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		log.Printf("Error updating stock for product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update stock",
		})
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// HandleBulkCreate validates a batch of products and inserts all of them,
// or none when any element fails validation.
func (h *ProductHandler) HandleBulkCreate(c *fiber.Ctx) error {
	var bulk models.BulkProducts
	if err := c.BodyParser(&bulk); err != nil {
		log.Printf("Error parsing bulk create request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if errs := h.validate.ValidateBulk(&bulk); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	created, err := h.service.CreateProducts(bulk.Products)
	if err != nil {
		log.Printf("Error bulk creating products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create products",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleBulkUpdate validates the whole batch before any mutation, then
// replaces each product that matches an existing id and silently skips the
// rest.
func (h *ProductHandler) HandleBulkUpdate(c *fiber.Ctx) error {
	var bulk models.BulkProducts
	if err := c.BodyParser(&bulk); err != nil {
		log.Printf("Error parsing bulk update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if errs := h.validate.ValidateBulk(&bulk); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	updated, err := h.service.UpdateProducts(bulk.Products)
	if err != nil {
		log.Printf("Error bulk updating products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update products",
		})
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"katalog/internal/handlers"
	"katalog/internal/middleware"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "") // empty: in-memory store
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("RABBITMQ_URL", "") // empty: no event publishing
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Product repository ---
	// The in-memory store is the default; a configured DSN switches to the
	// database-backed store with the same semantics.
	productRepo, err := newProductRepository()
	if err != nil {
		log.Fatalf("Failed to initialize product repository: %v", err)
	}

	// --- RabbitMQ client (optional) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, catalog events disabled")
	}

	// --- Services and handlers ---
	productService := services.NewProductService(productRepo, mqClient)
	productHandler := handlers.NewProductHandler(productService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())
	app.Use(middleware.RequestID())

	productHandler.RegisterRoutes(app)

	// --- Catalog event consumer ---
	if mqClient != nil {
		log.Println("Starting RabbitMQ consumer for catalog events...")
		messageHandler := func(msg amqp.Delivery) error {
			log.Printf("Received catalog event (tag: %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		}
		if consumerErr := mqClient.ConsumeProductEvents(messageHandler); consumerErr != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
		}
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// newProductRepository selects the repository implementation from the
// configuration. A fresh database is seeded with the initial products; an
// existing one is left alone.
func newProductRepository() (repositories.ProductRepository, error) {
	dsn := viper.GetString("DATABASE_DSN")
	if dsn == "" {
		return repositories.NewMemoryProductRepository(), nil
	}

	var dialector gorm.Dialector
	switch viper.GetString("DATABASE_DRIVER") {
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	repo, err := repositories.NewGORMProductRepository(db)
	if err != nil {
		return nil, err
	}

	empty, err := repo.IsEmpty()
	if err != nil {
		return nil, err
	}
	if empty {
		if err := repo.Reset(); err != nil {
			return nil, err
		}
		log.Println("Seeded product database with initial records")
	}
	return repo, nil
}

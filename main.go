package main

import (
	"context"
	"go-checkout-flow/src/config"
	"go-checkout-flow/src/controllers"
	"go-checkout-flow/src/infrastructure"
	"go-checkout-flow/src/infrastructure/log"
	"go-checkout-flow/src/infrastructure/mongo"
	"go-checkout-flow/src/infrastructure/rabbitmq"
	"go-checkout-flow/src/infrastructure/redisdb"
	"go-checkout-flow/src/services/cart"
	"go-checkout-flow/src/services/catalog"
	"go-checkout-flow/src/services/dlq"
	"go-checkout-flow/src/services/events"
	"go-checkout-flow/src/services/notification"
	"go-checkout-flow/src/services/order/domain"
	"go-checkout-flow/src/services/order/domain/persistence"
	"go-checkout-flow/src/services/payment"
	paymentHandlers "go-checkout-flow/src/services/payment/handlers"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go-checkout-flow/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

func main() {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := log.NewLogger()

	var configs, err = config.LoadConfig()
	if err != nil {
		logger.Fatal(ctx, "Failed to load configuration", err)
	}
	logger.Info(ctx, "Configuration loaded successfully")

	// Initialize MongoDB connection with health check
	client, err := mongo.GetMongoClient(configs)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to MongoDB", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal(ctx, "MongoDB ping failed", err)
	}
	logger.Info(ctx, "MongoDB connection successful")

	// Initialize Redis for the cart selection store
	redisClient, err := redisdb.NewClient(configs)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	logger.Info(ctx, "Redis connection successful")

	// Initialize repositories
	orderRepository := persistence.NewOrderRepository(configs, client)
	productRepository := catalog.NewProductRepository(client.Database(configs.MongoDBDatabaseName))

	// Seed catalog with error handling
	if err := seedProducts(ctx, productRepository, logger); err != nil {
		logger.Fatal(ctx, "Failed to seed products", err)
	}

	// Initialize RabbitMQ service with health check
	paymentQueues := []string{events.PaymentSubmitted, events.PaymentConfirmed}
	rabbitmqService, err := rabbitmq.NewRabbitMQService(configs.RabbitMQHostName, configs.RabbitMQExchange, configs.RabbitMQQueueName, paymentQueues)
	if err != nil {
		logger.Fatal(ctx, "Failed to create RabbitMQ service", err)
	}
	defer rabbitmqService.Close()

	if !rabbitmqService.IsHealthy() {
		logger.Fatal(ctx, "RabbitMQ connection is not healthy", nil)
	}
	logger.Info(ctx, "RabbitMQ connection successful")

	// Create business services
	catalogService := catalog.NewCatalogService(logger, productRepository)
	orderService := domain.NewOrderService(logger, catalogService, orderRepository)
	cartStore := cart.NewSelectionStore(redisClient, configs.CartTTL)
	notificationService := notification.NewNotificationService(logger)

	outcomeProvider := payment.NewBiasedRandomProvider(configs.GatewaySuccessBias)
	gateway := payment.NewGateway(logger, orderRepository, rabbitmqService, orderRepository, outcomeProvider, configs.GatewayProcessingTime)
	poller := payment.NewPoller(orderRepository, logger)

	// Create event handlers
	paymentSubmittedHandler := paymentHandlers.NewPaymentSubmittedEventHandler(gateway, rabbitmqService, logger)
	paymentConfirmedHandler := paymentHandlers.NewPaymentConfirmedEventHandler(gateway, rabbitmqService, notificationService, logger)

	// Create DLQ handlers for storing failed events
	dlqHandler := dlq.NewDLQHandler(orderRepository, logger)
	paymentSubmittedDLQHandler := dlqHandler.NewPaymentSubmittedDLQHandler()
	paymentConfirmedDLQHandler := dlqHandler.NewPaymentConfirmedDLQHandler()

	// Create and configure event listener
	eventListener := infrastructure.NewEventListener(rabbitmqService, logger)

	// Register event handlers
	eventListener.RegisterHandler(events.PaymentSubmitted, paymentSubmittedHandler)
	eventListener.RegisterHandler(events.PaymentConfirmed, paymentConfirmedHandler)

	// Register DLQ handlers
	eventListener.RegisterHandler(events.PaymentSubmitted+".dlq", paymentSubmittedDLQHandler)
	eventListener.RegisterHandler(events.PaymentConfirmed+".dlq", paymentConfirmedDLQHandler)

	// Start event listeners in background with error handling
	go func() {
		if err := eventListener.StartListening(ctx); err != nil {
			logger.Fatal(ctx, "Failed to start event listeners", err)
		}
	}()

	logger.Info(ctx, "Event listeners started successfully")

	// Create controllers
	orderController := controllers.NewOrderController(orderService)
	paymentController := controllers.NewPaymentController(gateway, poller, configs.PollInterval, configs.PollMaxAttempts)
	cartController := controllers.NewCartController(cartStore, orderService)
	catalogController := controllers.NewCatalogController(catalogService)

	// Configure Fiber app
	app := fiber.New(fiber.Config{
		ReadBufferSize:  81920,
		WriteBufferSize: 81920,
		ServerHeader:    "Checkout-Flow-Service",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			logger.Exception(c.Context(), "HTTP request error", err)
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Add middleware
	app.Use(cors.New(cors.Config{
		AllowCredentials: true,
		AllowOriginsFunc: func(_ string) bool { return true },
	}))
	app.Use(recover.New())

	// Add routes
	app.Get("/api/swagger/*", fiberSwagger.WrapHandler)
	app.Get("/api/healthCheck", func(c *fiber.Ctx) error {
		// Check MongoDB health
		if err := client.Ping(c.Context(), nil); err != nil {
			logger.Exception(c.Context(), "Health check: MongoDB ping failed", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
		}

		// Check RabbitMQ health
		if !rabbitmqService.IsHealthy() {
			logger.Warn(c.Context(), "Health check: RabbitMQ connection is unhealthy")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "message queue connection failed",
			})
		}

		// Check Redis health
		if err := redisClient.Ping(c.Context()).Err(); err != nil {
			logger.Exception(c.Context(), "Health check: Redis ping failed", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "cart store connection failed",
			})
		}

		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})

	orderController.Route(app)
	paymentController.Route(app)
	cartController.Route(app)
	catalogController.Route(app)

	// Set up graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	serverShutdown := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Starting server on port 8080")
		if err := app.Listen(":8080"); err != nil {
			serverShutdown <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case <-c:
		logger.Info(ctx, "Shutdown signal received, shutting down gracefully...")
	case err := <-serverShutdown:
		logger.Exception(ctx, "Server error occurred", err)
	}

	// Cancel context to stop background processes
	cancel()

	// Shutdown server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Exception(ctx, "Server shutdown error", err)
	}

	logger.Info(ctx, "Server shutdown complete")
}

// seedProducts adds sample hardware SKUs to the products collection
func seedProducts(ctx context.Context, productRepo catalog.ProductRepository, logger log.Logger) error {
	products := []catalog.Product{
		{
			ID:        "cpu-7800x3d",
			Name:      "Ryzen 7 7800X3D",
			Category:  "CPU",
			UnitPrice: 449.00,
			Quantity:  40,
		},
		{
			ID:        "gpu-rtx4070",
			Name:      "GeForce RTX 4070 Super",
			Category:  "GPU",
			UnitPrice: 599.00,
			Quantity:  25,
		},
		{
			ID:        "ram-ddr5-32",
			Name:      "32GB DDR5-6000 Kit",
			Category:  "RAM",
			UnitPrice: 129.00,
			Quantity:  80,
		},
		{
			ID:        "ssd-nvme-2tb",
			Name:      "2TB NVMe Gen4 SSD",
			Category:  "SSD",
			UnitPrice: 159.00,
			Quantity:  60,
		},
		{
			ID:        "psu-850w",
			Name:      "850W 80+ Gold PSU",
			Category:  "PSU",
			UnitPrice: 119.00,
			Quantity:  50,
		},
	}

	for _, product := range products {
		err := productRepo.SeedProduct(ctx, product)
		if err != nil {
			logger.Exception(ctx, "Failed to seed product: "+product.Name, err)
			return err
		}
	}

	logger.Info(ctx, "Products seeded successfully")
	return nil
}

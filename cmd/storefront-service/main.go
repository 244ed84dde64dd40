package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/ravitejak99/storefront-go/internal/auth"
	"github.com/ravitejak99/storefront-go/internal/cache"
	"github.com/ravitejak99/storefront-go/internal/config"
	"github.com/ravitejak99/storefront-go/internal/consumer"
	"github.com/ravitejak99/storefront-go/internal/db"
	"github.com/ravitejak99/storefront-go/internal/discovery"
	"github.com/ravitejak99/storefront-go/internal/handlers"
	"github.com/ravitejak99/storefront-go/internal/messaging"
	"github.com/ravitejak99/storefront-go/internal/orders"
	"github.com/ravitejak99/storefront-go/internal/publisher"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to PostgreSQL
	database, err := db.NewPostgresDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Connect to Redis
	redisCache, err := cache.NewRedisCache(cfg.RedisHost, cfg.RedisPort, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// Connect to RabbitMQ
	rabbitMQ, err := messaging.NewRabbitMQ(cfg.RabbitHost, cfg.RabbitPort, cfg.RabbitUser, cfg.RabbitPassword)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitMQ.Close()

	// Connect to Consul and register
	consul, err := discovery.NewConsulClient(cfg.ConsulHost, cfg.ConsulPort)
	if err != nil {
		log.Fatalf("Failed to connect to Consul: %v", err)
	}

	err = consul.Register(discovery.ServiceConfig{
		Name: cfg.ServiceName,
		ID:   cfg.ServiceID,
		Port: cfg.Port,
		Tags: []string{"api", "orders", "products"},
	})
	if err != nil {
		log.Fatalf("Failed to register service: %v", err)
	}

	// Deregister on shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		consul.Deregister(cfg.ServiceID)
		os.Exit(0)
	}()

	// Repositories and unit of work
	userRepo := db.NewUserRepository(database)
	productRepo := db.NewProductRepository(database)
	cachedProducts := db.NewCachedProductRepository(productRepo, redisCache)
	store := db.NewStore(database)

	// Order lifecycle engine with event publishing
	orderPublisher, err := publisher.NewOrderPublisher(rabbitMQ)
	if err != nil {
		log.Fatalf("Failed to create publisher: %v", err)
	}
	orderService := orders.NewService(store, orderPublisher)

	// Auth
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// Handlers
	orderHandler := handlers.NewOrderHandler(orderService)
	productHandler := handlers.NewProductHandler(cachedProducts)
	authHandler := handlers.NewAuthHandler(userRepo, tokens)
	userHandler := handlers.NewUserHandler(userRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(redisCache)

	// Start analytics consumers
	go startAnalyticsConsumer(rabbitMQ, redisCache)

	// Setup router
	router := gin.Default()

	router.GET("/health", orderHandler.HealthCheck)

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/register/admin", authHandler.RegisterAdmin)
	router.POST("/auth/login", authHandler.Login)

	router.GET("/products", productHandler.ListProducts)
	router.GET("/products/:id", productHandler.GetProduct)

	admin := router.Group("/", auth.Required(tokens), auth.AdminOnly())
	admin.POST("/products", productHandler.CreateProduct)
	admin.PUT("/products/:id", productHandler.UpdateProduct)
	admin.DELETE("/products/:id", productHandler.DeleteProduct)
	admin.GET("/users", userHandler.ListUsers)
	admin.DELETE("/users/:id", userHandler.DeleteUser)
	admin.GET("/analytics", analyticsHandler.Summary)

	authed := router.Group("/", auth.Required(tokens))
	authed.GET("/users/:id", userHandler.GetUser)
	authed.PUT("/users/:id", userHandler.UpdateUser)
	authed.POST("/orders", orderHandler.CreateOrder)
	authed.GET("/orders", orderHandler.ListOrders)
	authed.GET("/orders/:id", orderHandler.GetOrder)
	authed.PATCH("/orders/:id/status", orderHandler.UpdateOrderStatus)
	authed.POST("/orders/:id/cancel", orderHandler.CancelOrder)
	authed.DELETE("/orders/:id", orderHandler.DeleteOrder)

	// Start server
	log.Printf("🚀 %s starting on http://localhost:%d", cfg.ServiceName, cfg.Port)
	log.Println("   Publishing order events to RabbitMQ")
	router.Run(fmt.Sprintf(":%d", cfg.Port))
}

func startAnalyticsConsumer(mq *messaging.RabbitMQ, redisCache *cache.RedisCache) {
	analytics := consumer.NewAnalyticsConsumer(redisCache)

	created, err := mq.Consume(publisher.OrderCreatedQueue)
	if err != nil {
		log.Fatalf("Failed to consume order.created: %v", err)
	}
	go analytics.ProcessOrderCreated(created)

	cancelled, err := mq.Consume(publisher.OrderCancelledQueue)
	if err != nil {
		log.Fatalf("Failed to consume order.cancelled: %v", err)
	}
	analytics.ProcessOrderCancelled(cancelled)
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/marathon-trainer/internal/api"
	"alcyxob/marathon-trainer/internal/cache"
	"alcyxob/marathon-trainer/internal/config"
	"alcyxob/marathon-trainer/internal/planner"
	"alcyxob/marathon-trainer/internal/repository/mongo"
	"alcyxob/marathon-trainer/internal/service"
	"alcyxob/marathon-trainer/internal/storage"
)

// @title Marathon Trainer API
// @version 1.0
// @description Generates and tracks periodized marathon training plans.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Marathon Trainer Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatalf("FATAL: jwt.secret (JWT_SECRET) must be set")
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Println("Index creation process completed.")
	}()

	// --- Plan Cache ---
	planCache := cache.NewNoopPlanCache()
	if cfg.Redis.Addr != "" {
		rdb, err := cache.Connect(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("WARN: Redis unavailable at %s, serving plans without cache: %v", cfg.Redis.Addr, err)
		} else {
			defer rdb.Close()
			planCache = cache.NewRedisPlanCache(rdb, cfg.Redis.PlanTTL)
			log.Printf("INFO: Plan cache enabled (redis %s, ttl %s)", cfg.Redis.Addr, cfg.Redis.PlanTTL)
		}
	}

	// --- Initialize Storage ---
	fileStorage := storage.NewDisabledStorage()
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("WARN: s3.bucket_name not set, plan export disabled")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	trainingPlanRepo := mongo.NewMongoTrainingPlanRepository(appDB)

	// --- Initialize Services ---
	generator := planner.NewGenerator(cfg.Planner)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	planService := service.NewPlanService(trainingPlanRepo, userRepo, generator, planCache, fileStorage, service.ExportConfig{
		Prefix:     cfg.S3.ExportPrefix,
		PresignTTL: cfg.S3.PresignTTL,
	})
	coachService := service.NewCoachService(userRepo, planService)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, cfg.JWT.Secret, cfg.CORS.AllowedOrigins, authService, planService, coachService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("INFO: Server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"asset-registry-api/internal/config"
	"asset-registry-api/internal/database"
	"asset-registry-api/internal/handler"
	"asset-registry-api/internal/middleware"
	"asset-registry-api/internal/model"
	"asset-registry-api/internal/notification"
	"asset-registry-api/internal/repository"
	"asset-registry-api/internal/router"
	"asset-registry-api/internal/service"
	servicenotification "asset-registry-api/internal/service/notification"
	"asset-registry-api/pkg/validation"

	"github.com/google/uuid"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database through the lazy provider
	dbProvider := database.NewProvider(cfg)
	db, err := dbProvider.DB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbProvider.Close()

	// Initialize repositories
	providerRepo := repository.NewProviderRepository(db)
	personRepo := repository.NewPersonRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	techRepo := repository.NewTechEquipmentRepository(db)
	biomedicalRepo := repository.NewBiomedicalEquipmentRepository(db)
	requestRepo := repository.NewEntryRequestRepository(db, equipmentRepo, personRepo)

	// Initialize the entry-request webhook notifier. An empty URL
	// disables notifications entirely.
	var notifier notification.Notifier = notification.NoopNotifier{}
	if cfg.Notifier.URL != "" {
		notifier = notification.NewNotifierWithConfig(notification.NotificationConfig{
			URL:            cfg.Notifier.URL,
			Timeout:        cfg.Notifier.Timeout,
			RetryAttempts:  cfg.Notifier.RetryAttempts,
			RetryDelay:     cfg.Notifier.RetryDelay,
			MaxPayloadSize: cfg.Notifier.MaxPayloadSize,
		})
	}

	logger := log.Default()

	// Initialize use cases
	providerUC := service.NewUseCase("provider", providerRepo, logger)
	personUC := service.NewUseCase("person", personRepo, logger)
	equipmentUC := service.NewUseCase("equipment", equipmentRepo, logger)
	techUC := service.NewUseCase("tech equipment", techRepo, logger)
	biomedicalUC := service.NewUseCase("biomedical equipment", biomedicalRepo, logger)
	requestUC := service.NewEntryRequestUseCase(requestRepo, servicenotification.NewServiceAdapter(notifier), logger)

	// Initialize handlers
	resources := router.Resources{
		Providers: handler.NewResource("Provider", providerUC,
			validation.ValidateProviderInput,
			func(p *model.Provider, id uuid.UUID) { p.ID = id },
			logger),
		Persons: handler.NewResource("Person", personUC,
			validation.ValidatePersonInput,
			func(p *model.Person, id uuid.UUID) { p.ID = id },
			logger),
		Equipment: handler.NewResource("Equipment", equipmentUC,
			validation.ValidateEquipmentInput,
			func(e *model.Equipment, id uuid.UUID) { e.ID = id },
			logger),
		Tech: handler.NewResource("Tech equipment", techUC,
			validation.ValidateTechEquipmentInput,
			func(e *model.TechEquipment, id uuid.UUID) { e.ID = id },
			logger),
		Biomedical: handler.NewResource("Biomedical equipment", biomedicalUC,
			validation.ValidateBiomedicalEquipmentInput,
			func(e *model.BiomedicalEquipment, id uuid.UUID) { e.ID = id },
			logger),
		Requests: handler.NewResource("Entry request", requestUC,
			validation.ValidateEntryRequestInput,
			func(r *model.EntryRequest, id uuid.UUID) { r.ID = id },
			logger),
		Health: handler.NewHealthHandler(db, logger),
	}

	// Setup router with security configuration and request logging
	r := router.NewRouter(resources, cfg, middleware.NewRequestLogger(logger))

	// Configure server with security settings
	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		Handler:        r,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Channel to listen for interrupt signal to gracefully shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %d", cfg.Port)
		log.Printf("Security: Rate limit=%d RPS, Burst=%d, CORS=%v, Timeout=%v",
			cfg.Security.RateLimitRPS,
			cfg.Security.RateLimitBurst,
			cfg.Security.EnableCORS,
			cfg.Security.RequestTimeout,
		)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Block until we receive a signal
	<-done
	log.Println("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Security.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	} else {
		log.Println("Server exited gracefully")
	}
}

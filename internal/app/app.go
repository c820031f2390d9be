package app

import (
	"karavan-backend/internal/auth"
	"karavan-backend/internal/config"
	"karavan-backend/internal/containers"
	"karavan-backend/internal/contents"
	"karavan-backend/internal/database"
	"karavan-backend/internal/documents"
	"karavan-backend/internal/middleware"
	"karavan-backend/internal/reports"
	"karavan-backend/internal/sales"
	"karavan-backend/internal/transfers"
	"karavan-backend/internal/vendors"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route registration.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Session (Redis)
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	// Response formatter (inject helpers)
	app.Use(middleware.ResponseFormatter())

	// Tracing + route logger
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	// Auth (no auth middleware): POST login, GET me, DELETE logout
	var userFinder auth.UserFinder
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
	}
	authHandlers := &auth.Handlers{UserFinder: userFinder, Rdb: rdb, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// --- Protected modules (auth required) ---
	if db != nil && rdb != nil {
		storage := &documents.HTTPStorage{
			BaseURL:   cfg.StorageURL,
			SecretKey: cfg.StorageSecretKey,
		}
		documentService := &documents.Service{DB: db, Storage: storage}
		documentHandlers := &documents.Handlers{Service: documentService}

		// Vendors module
		vendorService := &vendors.Service{DB: db}
		vendorHandlers := &vendors.Handlers{Service: vendorService}
		vendorGroup := app.Group("/api/v1/vendors", middleware.RequireAuth())
		vendorGroup.Post("/", vendorHandlers.CreateVendor)
		vendorGroup.Get("/", vendorHandlers.GetAllVendors)
		vendorGroup.Get("/:vendor_id", vendorHandlers.GetVendor)
		vendorGroup.Put("/:vendor_id", vendorHandlers.UpdateVendor)
		vendorGroup.Delete("/:vendor_id", vendorHandlers.DeleteVendor)

		// Containers module (lifecycle + content ledger routes)
		containerService := &containers.Service{DB: db}
		containerHandlers := &containers.Handlers{Service: containerService, Documents: documentService}
		contentService := &contents.Service{DB: db}
		contentHandlers := &contents.Handlers{Service: contentService}
		containerGroup := app.Group("/api/v1/containers", middleware.RequireAuth())
		containerGroup.Post("/", containerHandlers.CreateContainer)
		containerGroup.Get("/", containerHandlers.GetAllContainers)
		containerGroup.Get("/:container_id", containerHandlers.GetContainer)
		containerGroup.Put("/:container_id", containerHandlers.UpdateContainer)
		containerGroup.Patch("/:container_id/status", containerHandlers.SetStatus)
		containerGroup.Delete("/:container_id", containerHandlers.DeleteContainer)
		containerGroup.Put("/:container_id/contents", contentHandlers.ReplaceContents)
		containerGroup.Get("/:container_id/contents", contentHandlers.ListContents)
		app.Delete("/api/v1/contents/:item_id", middleware.RequireAuth(), contentHandlers.DeleteItem)

		// Transfers module
		transferService := &transfers.Service{DB: db}
		transferHandlers := &transfers.Handlers{Service: transferService}
		transferGroup := app.Group("/api/v1/transfers", middleware.RequireAuth())
		transferGroup.Post("/", transferHandlers.CreateTransfer)
		transferGroup.Get("/container/:container_id", transferHandlers.GetContainerTransfers)
		transferGroup.Delete("/:transfer_id", transferHandlers.DeleteTransfer)

		// Sales & expenses module (writes are manager-only, enforced in service)
		saleService := &sales.Service{DB: db}
		saleHandlers := &sales.Handlers{Service: saleService}
		saleGroup := app.Group("/api/v1/sales", middleware.RequireAuth())
		saleGroup.Put("/container/:container_id", saleHandlers.ReplaceLedger)
		saleGroup.Get("/container/:container_id", saleHandlers.GetLedger)

		// Documents module
		documentGroup := app.Group("/api/v1/documents", middleware.RequireAuth())
		documentGroup.Post("/container/:container_id", documentHandlers.UploadContainerDoc)
		documentGroup.Post("/transfer/:transfer_id", documentHandlers.UploadTransferDoc)
		documentGroup.Delete("/:document_id", documentHandlers.DeleteDocument)

		// Reports module (reconciliation engine)
		reportService := reports.NewService(db, cfg.ConversionRate)
		reportHandlers := &reports.Handlers{Service: reportService}
		reportGroup := app.Group("/api/v1/reports", middleware.RequireAuth())
		reportGroup.Get("/containers/:container_id/profit", reportHandlers.GetContainerProfit)
		reportGroup.Get("/containers/:container_id/balance", reportHandlers.GetContainerBalance)
		reportGroup.Get("/users", middleware.RequireManager(), reportHandlers.GetUserSummaries)
		reportGroup.Get("/vendors", middleware.RequireManager(), reportHandlers.GetVendorSummaries)
		reportGroup.Get("/timeline", middleware.RequireManager(), reportHandlers.GetTimeline)
		reportGroup.Get("/dashboard", middleware.RequireManager(), reportHandlers.GetDashboard)
	}

	return app, db, rdb, nil
}

package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/lucasmd12/fiorence1/config"
	"github.com/lucasmd12/fiorence1/database"
	"github.com/lucasmd12/fiorence1/handlers"
	"github.com/lucasmd12/fiorence1/middleware"
	"github.com/lucasmd12/fiorence1/routes"
	"github.com/lucasmd12/fiorence1/services"
	"github.com/lucasmd12/fiorence1/utils"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if gin.Mode() == gin.ReleaseMode {
		log.AddHook(utils.NewMaskingHook())
	}

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx := context.Background()
	client, db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer client.Disconnect(ctx)

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to create indexes")
	}
	log.Info("database connected")

	categoryRepo := database.NewCategoryRepo(db)
	transactionRepo := database.NewTransactionRepo(db)

	classifier := services.NewClassifier()
	parser := services.NewParser(classifier)
	resolver := services.NewResolver(categoryRepo, classifier, log)

	var ocr services.ImageTextExtractor
	if cfg.OCRSpaceAPIKey != "" {
		ocr = services.NewOCRSpaceClient(cfg.OCRSpaceAPIKey)
	} else {
		log.Warn("OCR_SPACE_API_KEY not set, image uploads will be rejected")
	}
	extractor := services.NewExtractor(ocr)

	wsHandler := handlers.NewWSHandler(log)

	ingestion := services.NewIngestionService(
		extractor, parser, classifier, resolver,
		categoryRepo, transactionRepo, wsHandler, log,
	)
	recurring := services.NewRecurringService(transactionRepo, log)
	reports := services.NewReportsService()

	verifier := utils.NewJWTVerifier(cfg.JWTSecret)

	go scheduleRecurringProcessing(recurring, log)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	router.Use(middleware.RateLimiter(120))

	authHandler := handlers.NewAuthHandler(verifier)
	documentHandler := handlers.NewDocumentHandler(ingestion, cfg.MaxUploadBytes)
	transactionHandler := handlers.NewTransactionHandler(transactionRepo, categoryRepo)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo, classifier)
	recurringHandler := handlers.NewRecurringHandler(transactionRepo, recurring)
	reportHandler := handlers.NewReportHandler(transactionRepo, categoryRepo, reports)

	api := router.Group("/api")
	{
		if gin.Mode() != gin.ReleaseMode {
			routes.SetupDevRoutes(api, authHandler)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(verifier))
		{
			routes.SetupAuthRoutes(protected, authHandler)
			routes.SetupDocumentRoutes(protected, documentHandler)
			routes.SetupTransactionRoutes(protected, transactionHandler)
			routes.SetupCategoryRoutes(protected, categoryHandler)
			routes.SetupRecurringRoutes(protected, recurringHandler)
			routes.SetupReportRoutes(protected, reportHandler)
			protected.GET("/ws/ingestion", wsHandler.HandleWS)
		}
	}

	health := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
	router.GET("/health", health)
	router.GET("/api/health", health)

	log.WithField("port", cfg.Port).Info("server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// scheduleRecurringProcessing runs the recurring pass once at startup and then
// daily. Instance creation is idempotent per month, so overlapping runs after
// restarts are harmless.
func scheduleRecurringProcessing(recurring *services.RecurringService, log *logrus.Logger) {
	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, _, err := recurring.ProcessDue(ctx, time.Now().UTC()); err != nil {
			log.WithError(err).Error("recurring processing failed")
		}
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	run()
	for range ticker.C {
		run()
	}
}

package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	cat "github.com/howdyplanner/api/catalog"
	"github.com/howdyplanner/api/config"
	"github.com/howdyplanner/api/database"
	"github.com/howdyplanner/api/handlers"
	catalog_handlers "github.com/howdyplanner/api/handlers/catalog"
	planner_handlers "github.com/howdyplanner/api/handlers/planner"
	transcript_handlers "github.com/howdyplanner/api/handlers/transcript"
	"github.com/howdyplanner/api/services"
	"github.com/howdyplanner/api/services/spaces"
	"github.com/howdyplanner/api/utils"
	"github.com/howdyplanner/api/utils/cache"
	"github.com/howdyplanner/api/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to load environment configuration")
	}

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis cache for transcript reads and upload locks
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Transcript caching will be disabled.", err)
		redisCache = nil
	}

	// Spaces archive for raw transcript PDFs (optional)
	archive, err := spaces.FromEnv(getEnv)
	if err != nil {
		log.Printf("Warning: Failed to set up transcript archive: %v. Archiving will be disabled.", err)
		archive = nil
	}

	// Reference data and plan policy
	degreeCatalog := cat.Default()
	planConfig := services.PlanConfig{
		SoftCreditLimit: getEnv.PLAN_SOFT_CREDIT_LIMIT,
		HardCreditLimit: getEnv.PLAN_HARD_CREDIT_LIMIT,
		Editability:     services.EditabilityPolicy(getEnv.PLAN_EDITABLE_TERMS),
	}

	// Services
	transcriptService := services.NewTranscriptService(db, redisCache)
	plannerService := services.NewPlannerService(db)

	// Handlers
	transcriptHandler := transcript_handlers.NewTranscriptHandler(transcriptService, archive, redisCache)
	plannerHandler := planner_handlers.NewPlannerHandler(plannerService, transcriptService, degreeCatalog, planConfig)
	catalogHandler := catalog_handlers.NewCatalogHandler(degreeCatalog, transcriptService)

	// Apply security middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    getEnv.ALLOWED_ORIGINS,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group
	api := app.Group("/api/v1")

	// Transcript routes
	transcripts := api.Group("/transcripts")
	transcripts.Post("/parse", transcriptHandler.ParseTranscript) // Parse without persisting
	transcripts.Post("/", transcriptHandler.SaveTranscript)       // Parse and persist
	transcripts.Get("/:studentId", transcriptHandler.GetTranscript)
	transcripts.Post("/:studentId/reparse", transcriptHandler.ReparseTranscript) // Re-run ingestion from the archive

	// Planner routes
	planner := api.Group("/planner")
	planner.Get("/:studentId", plannerHandler.GetPlanner)
	planner.Post("/:studentId", plannerHandler.SavePlanner)
	planner.Post("/:studentId/validate", plannerHandler.ValidatePlan)

	// Catalog routes
	catalogGroup := api.Group("/catalog")
	catalogGroup.Get("/courses", catalogHandler.ListCourses)
	catalogGroup.Get("/courses/:code/unmet", catalogHandler.GetUnmetPrerequisites)
}

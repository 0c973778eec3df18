package main

import (
	"context"
	"log"
	"os"

	"tariffdesk-backend/dataset"
	"tariffdesk-backend/handlers"
	"tariffdesk-backend/llm"
	"tariffdesk-backend/repository"
	"tariffdesk-backend/search"
	"tariffdesk-backend/service"
	"tariffdesk-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	// Load datasets and build the lexical indexes once; everything after this
	// point reads them without locking.
	vnStore, err := dataset.LoadVietnamHS(envOr("HS_DATA_PATH", "data/hscode.json"))
	if err != nil {
		log.Fatal("Failed to load Vietnam HS dataset:", err)
	}
	log.Printf("Vietnam HS dataset loaded: %d records", vnStore.Len())

	usStore, err := dataset.LoadUsHTS(envOr("US_HTS_DATA_PATH", "data/us-hts.json"))
	if err != nil {
		log.Fatal("Failed to load US HTS dataset:", err)
	}
	log.Printf("US HTS dataset loaded: %d records", usStore.Len())

	vnPipeline := search.NewPipeline(vnStore, search.NewIndex(vnStore))
	usPipeline := search.NewPipeline(usStore, search.NewIndex(usStore))

	casRegistry, err := dataset.LoadCasRegistry(envOr("CAS_DATA_PATH", "data/cas.json"))
	if err != nil {
		log.Printf("Warning: CAS registry not loaded: %v", err)
	} else {
		log.Printf("CAS registry loaded: %d records", casRegistry.Len())
	}

	// Optional query analytics; the server runs fine without a database.
	db := initPostgres()
	var logRepo *repository.SearchLogRepository
	if db != nil {
		defer db.Close()
		logRepo = repository.NewSearchLogRepository(db)
	}

	imageStore, err := storage.NewFromEnv()
	if err != nil {
		log.Printf("Warning: image storage disabled: %v", err)
		imageStore = nil
	} else {
		log.Println("Image storage initialized")
	}

	llmClient := initLLM()

	suggestService := service.NewSuggestService(
		service.SuggestWithPipeline(dataset.KindVietnamHS, vnPipeline),
		service.SuggestWithPipeline(dataset.KindUsHTS, usPipeline),
		service.SuggestWithLLM(llmClient),
		service.SuggestWithImageStore(imageStore),
		service.SuggestWithSearchLogRepository(logRepo),
	)
	casService := service.NewCasService(
		service.CasWithRegistry(casRegistry),
		service.CasWithLLM(llmClient),
	)
	explainService := service.NewExplainService(service.ExplainWithLLM(llmClient))
	assistService := service.NewAssistService(service.AssistWithLLM(llmClient))
	contactService := service.NewContactService()
	fxService := service.NewFxService()

	suggestHandler := handlers.NewSuggestHandler(suggestService)
	searchHandler := handlers.NewSearchHandler(vnPipeline, usPipeline)
	recordHandler := handlers.NewRecordHandler(vnStore, usStore)
	taxHandler := handlers.NewTaxHandler()
	assistHandler := handlers.NewAssistHandler(explainService, assistService)
	casHandler := handlers.NewCasHandler(casService)
	contactHandler := handlers.NewContactHandler(contactService)
	fxHandler := handlers.NewFxHandler(fxService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		// Suggestion endpoints
		api.POST("/hs-suggest", suggestHandler.HsSuggest)
		api.POST("/us-hts-suggest", suggestHandler.UsHtsSuggest)

		// Search endpoints
		api.GET("/hs-search", searchHandler.HsSearch)
		api.GET("/us-hts-search", searchHandler.UsHtsSearch)

		// Record lookups
		api.GET("/hs-code/:slug", recordHandler.GetHsCode)
		api.GET("/us-hts/:slug", recordHandler.GetUsHts)
		api.GET("/chapters", recordHandler.Chapters)
		api.GET("/chapter/:chapter", recordHandler.ChapterRecords)

		// Duty calculator
		api.POST("/tax/import", taxHandler.ComputeImport)
		api.POST("/tax/export", taxHandler.ComputeExport)

		// Helpers
		api.POST("/explain", assistHandler.Explain)
		api.POST("/search-assist", assistHandler.SearchAssist)
		api.POST("/cas-lookup", casHandler.Lookup)
		api.POST("/contact", contactHandler.Submit)
		api.GET("/fx-rate", fxHandler.Rate)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func initPostgres() *pgxpool.Pool {
	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		log.Println("DATABASE_URL not set, search analytics disabled")
		return nil
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		log.Printf("Warning: Failed to connect to Postgres, analytics disabled: %v", err)
		return nil
	}
	if err := pool.Ping(context.Background()); err != nil {
		log.Printf("Warning: Postgres ping failed, analytics disabled: %v", err)
		pool.Close()
		return nil
	}

	log.Println("Postgres connection established")
	return pool
}

// initLLM verifies the Gemini credentials with the official client, then
// hands a raw HTTP client to the services. Returns nil when no key is set so
// every AI feature degrades to local behavior.
func initLLM() *llm.Client {
	client, err := llm.New()
	if err != nil {
		log.Println("Warning: GEMINI_API_KEY not set, AI features disabled")
		return nil
	}

	if _, err := genai.NewClient(context.Background(), option.WithAPIKey(os.Getenv("GEMINI_API_KEY"))); err != nil {
		log.Printf("Warning: Gemini client bootstrap failed: %v", err)
		return nil
	}

	log.Println("Gemini client initialized")
	return client
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"assessment-system/internal/assessment"
	"assessment-system/internal/auth"
	"assessment-system/internal/models"
	"assessment-system/internal/notify"
	"assessment-system/internal/progress"
	"assessment-system/internal/questionbank"
	"assessment-system/pkg/cache"
	"assessment-system/pkg/database"
	"assessment-system/pkg/websocket"

	"github.com/gorilla/mux"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Initialize database
	dbConfig := &database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "assessment"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Answer{},
		&models.UserProgress{},
		&models.LoginAttempt{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis cache
	redisCache := cache.NewRedisCache(getEnv("REDIS_ADDR", "localhost:6379"))

	// Load the question bank (seed set plus optional extra file)
	bank := questionbank.Load(os.Getenv("QUESTION_BANK_PATH"))
	log.Printf("Question bank loaded: %d questions across %d domains", bank.Len(), len(bank.Domains()))

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Outbound relays (email sender, generative-text API)
	relay := notify.NewRelay(
		os.Getenv("EMAIL_RELAY_URL"),
		getEnv("LLM_API_URL", "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent"),
		os.Getenv("LLM_API_KEY"),
	)

	// Initialize repositories
	authRepo := auth.NewRepository(db)
	progressRepo := progress.NewRepository(db)

	// Initialize services
	jwtSecret := getEnv("JWT_SECRET", "secret")
	progressService := progress.NewService(progressRepo, redisCache)
	progressService.Hydrate()
	authService := auth.NewService(authRepo, jwtSecret, progressService, relay)
	evaluator := assessment.NewEvaluator(nil)
	assessmentService := assessment.NewService(bank, evaluator, progressService, redisCache, wsHub)
	wsHub.SetDraftSink(assessmentService)

	// Initialize handlers
	authHandler := auth.NewHandler(authService)
	assessmentHandler := assessment.NewHandler(assessmentService)
	progressHandler := progress.NewHandler(progressService)
	chatHandler := notify.NewHandler(relay)

	// Setup router
	router := mux.NewRouter()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{getEnv("FRONTEND_ORIGIN", "http://localhost:3000")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Assessment routes - JWT required
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(jwtSecret))

	apiRouter.HandleFunc("/assessment/domains", assessmentHandler.GetDomains).Methods("GET")
	apiRouter.HandleFunc("/assessment/start", assessmentHandler.StartAssessment).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/assessment/answer", assessmentHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/assessment/session/{sessionID}", assessmentHandler.GetSession).Methods("GET")
	apiRouter.HandleFunc("/assessment/session/{sessionID}", assessmentHandler.DiscardSession).Methods("DELETE")
	apiRouter.HandleFunc("/assessment/session/{sessionID}/report", assessmentHandler.GetReport).Methods("GET")
	apiRouter.HandleFunc("/chat", chatHandler.Chat).Methods("POST", "OPTIONS")

	// Admin analytics routes
	apiRouter.HandleFunc("/admin/progress", progressHandler.GetAllUserProgress).Methods("GET")
	apiRouter.HandleFunc("/admin/progress/{email}", progressHandler.GetUserProgress).Methods("GET")
	apiRouter.HandleFunc("/admin/logins", progressHandler.GetLoginHistory).Methods("GET")
	apiRouter.HandleFunc("/admin/leaderboard", progressHandler.GetLeaderboard).Methods("GET")
	apiRouter.HandleFunc("/admin/summary", progressHandler.GetSummary).Methods("GET")

	// WebSocket endpoint
	router.HandleFunc("/ws/{sessionID}", wsHub.HandleWebSocket)

	// Setup server with CORS handler
	srv := &http.Server{
		Addr:         ":" + getEnv("SERVER_PORT", "8080"),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown setup
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown gracefully")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

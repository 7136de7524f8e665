package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"amoria_server/routes"
	"amoria_server/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	// Initialize the persistence backend
	store := newStore()

	// Initialize Services
	userProfileService := &services.UserProfileService{Store: store}
	matchService := &services.MatchService{Store: store}
	actionService := &services.ActionService{Store: store, Match: matchService}
	recommendationService := &services.RecommendationService{Store: store, Actions: actionService}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register routes
	routes.RegisterRoutes(r)
	routes.RegisterUserProfileRoutes(r, userProfileService)
	routes.RegisterActionRoutes(r, actionService, matchService)
	routes.RegisterMatchRoutes(r, matchService)
	routes.RegisterRecommendationRoutes(r, recommendationService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	server := &http.Server{
		Addr:    ":" + port,
		Handler: corsHandler,
	}

	// Start the HTTP server
	go func() {
		log.Printf("Starting server on port %s...\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for an interrupt, then drain in-flight requests
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// newStore selects the persistence backend. Production runs on
// DynamoDB; STORAGE_BACKEND=memory keeps everything in-process for
// local development.
func newStore() services.Store {
	if os.Getenv("STORAGE_BACKEND") == "memory" {
		log.Println("Using in-memory storage backend")
		return services.NewMemoryStore()
	}

	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	log.Println("DynamoDB client initialized.")
	return &services.DynamoStore{Dynamo: &services.DynamoService{Client: dynamoClient}}
}

// allowedOrigins reads the comma-separated ALLOWED_ORIGINS variable,
// defaulting to all origins.
func allowedOrigins() []string {
	env := os.Getenv("ALLOWED_ORIGINS")
	if env == "" {
		return []string{"*"}
	}
	origins := strings.Split(env, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	return origins
}

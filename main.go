package main

import (
	"encoding/json"
	"log"
	"net/http"

	"bonded_server/config"
	"bonded_server/routes"
	"bonded_server/services"
	"bonded_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg := config.New()

	// Initialize the key-value store backend
	var store services.KVStore
	switch cfg.Store.Backend {
	case "redis":
		log.Printf("Using Redis store at %s", cfg.Redis.Addr)
		store = services.NewRedisKV(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	default:
		log.Printf("Using DynamoDB store (table: %s)", cfg.Store.Table)
		client := services.InitializeDynamoDBClient(cfg.AWS.Region)
		store = &services.DynamoKV{Client: client, Table: cfg.Store.Table}
	}

	// Initialize services
	profileService := &services.ProfileService{Store: store}
	matchService := services.NewMatchService(profileService)
	chatService := &services.ChatService{Store: store, Profiles: profileService}
	introService := &services.IntroService{Store: store, Profiles: profileService, Chats: chatService}
	authService := &services.AuthService{Store: store, TokenSecret: cfg.Auth.TokenSecret, TokenTTL: cfg.Auth.TokenTTL}
	photoService := &services.PhotoService{Client: services.InitializeS3Client(cfg.AWS.Region), Bucket: cfg.S3.Bucket}

	analysisService := &services.AnalysisService{}
	if cfg.Analysis.URL != "" {
		analysisService.Client = &services.HTTPAnalysisClient{
			Endpoint: cfg.Analysis.URL,
			APIKey:   cfg.Analysis.APIKey,
			Timeout:  cfg.Analysis.Timeout,
		}
	}

	// Socket.IO server for live chat events
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("❌ Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Initialize the router
	r := mux.NewRouter()

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods("GET")

	r.Handle("/socket.io/", socketServer)

	// Register routes
	routes.RegisterAuthRoutes(r, authService)
	routes.RegisterProfileRoutes(r, profileService, authService)
	routes.RegisterMatchRoutes(r, matchService, authService)
	routes.RegisterIntroRoutes(r, introService, analysisService, matchService, profileService, authService)
	routes.RegisterChatRoutes(r, chatService, socketServer, authService)
	routes.RegisterUploadRoutes(r, photoService, authService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}

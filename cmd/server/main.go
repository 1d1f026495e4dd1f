// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/Kenaine/healthcare-translation/internal/config"
	"github.com/Kenaine/healthcare-translation/internal/domain"
	"github.com/Kenaine/healthcare-translation/internal/handlers"
	"github.com/Kenaine/healthcare-translation/internal/middleware"
	"github.com/Kenaine/healthcare-translation/internal/ratelimit"
	"github.com/Kenaine/healthcare-translation/internal/realtime"
	convrepo "github.com/Kenaine/healthcare-translation/internal/repository/conversation"
	guestrepo "github.com/Kenaine/healthcare-translation/internal/repository/guest"
	messagerepo "github.com/Kenaine/healthcare-translation/internal/repository/message"
	summaryrepo "github.com/Kenaine/healthcare-translation/internal/repository/summary"
	userrepo "github.com/Kenaine/healthcare-translation/internal/repository/user"
	"github.com/Kenaine/healthcare-translation/internal/services"
	"github.com/Kenaine/healthcare-translation/internal/services/gemini"
	"github.com/Kenaine/healthcare-translation/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Conversation{},
		&domain.ConversationParticipant{},
		&domain.Message{},
		&domain.Summary{},
		&domain.GuestSession{},
	); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := userrepo.NewGormUserRepository(db)
	conversationRepo := convrepo.NewConversationRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)
	summaryRepo := summaryrepo.NewSummaryRepository(db)
	guestRepo := guestrepo.NewGuestRepository(db)

	// --- Services ---
	geminiConfig := gemini.DefaultConfig()
	geminiConfig.APIKey = cfg.GeminiAPIKey
	if cfg.GeminiBaseURL != "" {
		geminiConfig.BaseURL = cfg.GeminiBaseURL
	}
	if cfg.GeminiModelName != "" {
		geminiConfig.Model = cfg.GeminiModelName
	}
	geminiProvider := gemini.NewOpenAIProvider(geminiConfig)

	translationService := services.NewTranslationService(geminiProvider, geminiConfig, services.NewLogger("translation"))
	summaryService := services.NewSummaryService(geminiProvider, summaryRepo, geminiConfig, services.NewLogger("summary"))

	authService := user_services.NewAuthService(userRepo, cfg.JWTSecretKey, services.NewLogger("auth"))
	userService := user_services.NewUserService(userRepo, services.NewLogger("user"))
	guestService := user_services.NewGuestService(guestRepo, conversationRepo, services.NewLogger("guest"))

	hub := realtime.NewHub()

	conversationService, err := services.NewConversationService(
		conversationRepo,
		messageRepo,
		summaryRepo,
		translationService,
		hub,
		services.NewLogger("conversation"),
	)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Conversation Service: %v", err)
	}

	// --- Rate Limiters ---
	authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	defer authLimiter.Stop()
	summaryLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.SummaryConfig())
	defer summaryLimiter.Stop()

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, userService)
	conversationHandler := handlers.NewConversationHandler(conversationService, userService, guestService)
	summaryHandler := handlers.NewSummaryHandler(conversationService, summaryService)
	streamHandler := handlers.NewStreamHandler(conversationService, hub)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(authService)
	guestMiddleware := middleware.NewGuestMiddleware(authService, guestService)

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")

	public := r.PathPrefix("/api/auth").Subrouter()
	public.Use(middleware.RateLimitMiddleware(authLimiter, "auth"))
	public.HandleFunc("/register", authHandler.Register).Methods("POST")
	public.HandleFunc("/login", authHandler.Login).Methods("POST")
	public.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	// Guest join is public: the share link is the credential.
	r.HandleFunc("/api/conversations/{id}/guest", conversationHandler.JoinAsGuest).Methods("POST")

	// --- Protected Routes (registered users only) ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/me", authHandler.UpdateProfile).Methods("PUT")
	api.HandleFunc("/conversations", conversationHandler.Create).Methods("POST")
	api.HandleFunc("/conversations", conversationHandler.List).Methods("GET")
	api.HandleFunc("/conversations/{id}/join", conversationHandler.Join).Methods("POST")
	api.HandleFunc("/conversations/{id}", conversationHandler.Delete).Methods("DELETE")
	api.HandleFunc("/messages/search", conversationHandler.Search).Methods("GET")

	// --- Shared Routes (registered users or guest sessions) ---
	shared := r.PathPrefix("/api").Subrouter()
	shared.Use(guestMiddleware)
	shared.HandleFunc("/conversations/{id}", conversationHandler.Get).Methods("GET")
	shared.HandleFunc("/conversations/{id}/participants", conversationHandler.Participants).Methods("GET")
	shared.HandleFunc("/conversations/{id}/messages", conversationHandler.SendMessage).Methods("POST")
	shared.HandleFunc("/conversations/{id}/messages", conversationHandler.GetMessages).Methods("GET")
	shared.HandleFunc("/conversations/{id}/stream", streamHandler.Stream).Methods("GET")
	shared.HandleFunc("/conversations/{id}/summary", summaryHandler.Latest).Methods("GET")

	summaryRoutes := r.PathPrefix("/api").Subrouter()
	summaryRoutes.Use(guestMiddleware)
	summaryRoutes.Use(middleware.RateLimitMiddleware(summaryLimiter, "summary"))
	summaryRoutes.HandleFunc("/conversations/{id}/summary", summaryHandler.Generate).Methods("POST")

	// --- Background Cleanup ---
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				guestService.CleanupExpired(cleanupCtx)
			}
		}
	}()

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	// --- Startup Logging ---
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("==================================================")
	log.Printf("Healthcare Translation - Consultation Messenger")
	log.Printf("==================================================")
	log.Printf("Server starting on port %s", port)
	log.Printf("Local access: http://localhost%s", port)
	log.Printf("Translation model: %s", geminiConfig.Model)
	log.Printf("Server ready to accept connections!")
	log.Printf("==================================================")

	// --- Start Server in Goroutine ---
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

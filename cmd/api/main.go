package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"printcost_go_backend/cmd/api/config"
	"printcost_go_backend/internal/api"
	"printcost_go_backend/internal/database"
	"printcost_go_backend/internal/services"
	"printcost_go_backend/internal/wsocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.New()
	ctx := context.Background()

	database.InitDB()

	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}
	defer genaiClient.Close()

	// Stores
	sessionStore := services.NewSessionStoreDB(database.DB)
	ledgerStore := services.NewLedgerStoreDB(database.DB)
	chatStore := services.NewChatStoreDB(database.DB)

	// Internal services
	sessionService := services.NewSessionService(sessionStore, cfg.SessionLifetime)
	ledgerService := services.NewLedgerService(ledgerStore, sessionService, cfg.CalcLifetime)
	exportService := services.NewExportService(ledgerStore, sessionService)

	limiter := services.NewIntervalLimiter(cfg.AssistantMinInterval)
	generator := services.NewGeminiGenerator(genaiClient, cfg.GeminiModel)
	assistantService := services.NewAssistantService(
		generator,
		ledgerStore,
		chatStore,
		sessionService,
		limiter,
		cfg.ChatTurnLifetime,
	)

	// Background reclamation of expired sessions, calculations and chat turns
	reaper := services.NewReaperService(sessionStore, ledgerStore, chatStore, cfg.SweepInterval)
	go reaper.Run(ctx)

	r := gin.Default()

	// CORS middleware configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// WebSocket upgrader
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // TODO: Implement a more secure check in production
		},
	}

	wsHandler := wsocket.NewHandler(assistantService, sessionService, upgrader, cfg.SessionCheckInterval)

	api.SetupRoutes(r, sessionService, ledgerService, exportService, assistantService)

	r.GET("/ws", func(c *gin.Context) {
		wsHandler.HandleWebSocket(c.Writer, c.Request)
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

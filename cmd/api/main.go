package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-hotseat/internal/config"
	"github.com/iamasit07/connect4-hotseat/internal/repository/postgres"
	"github.com/iamasit07/connect4-hotseat/internal/repository/redis"
	"github.com/iamasit07/connect4-hotseat/internal/service/cleanup"
	"github.com/iamasit07/connect4-hotseat/internal/service/table"
	transportHttp "github.com/iamasit07/connect4-hotseat/internal/transport/http"
	"github.com/iamasit07/connect4-hotseat/internal/transport/websocket"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	if config.GetEnv("ENVIRONMENT", "development") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Result archive (optional)
	var resultRepo table.ResultRepository
	var resultReader transportHttp.ResultReader
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Fatalf("Database unreachable: %v", err)
		}
		defer db.Close()

		repo := postgres.NewResultRepo(db)
		resultRepo = repo
		resultReader = repo
	} else {
		log.Println("[DB] DATABASE_URL not set, game archive disabled")
	}

	// 2. Scoreboard cache (optional, never fatal)
	var scoreboard table.Scoreboard
	var totals transportHttp.TotalsReader
	redisClient, err := redis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Printf("[REDIS] Warning: %v. Falling back to per-table tallies only.", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sb := redis.NewScoreboard(redisClient)
		scoreboard = sb
		totals = sb
	}

	// 3. Services
	tables := table.NewManager(cfg.BoardWidth, cfg.BoardHeight, resultRepo, scoreboard)
	connManager := websocket.NewConnectionManager()

	cleanupWorker := cleanup.NewWorker(tables, connManager, cfg.TableIdleTimeout, cfg.CleanupInterval)
	go cleanupWorker.Start(ctx)

	// 4. Transport
	wsHandler := websocket.NewHandler(connManager, tables, cfg.JWTSecret, cfg.AllowedOrigins)
	tableHandler := transportHttp.NewTableHandler(tables, connManager, cfg.JWTSecret, cfg.TableTokenTTL, gin.Mode() == gin.ReleaseMode)
	historyHandler := transportHttp.NewHistoryHandler(resultReader, totals)

	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		JWTSecret:      cfg.JWTSecret,
		StaticDir:      "./static",
	}, tableHandler, historyHandler, wsHandler.HandleWebSocket)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s (board %dx%d)", cfg.Port, cfg.BoardWidth, cfg.BoardHeight)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// hijacked sockets outlive srv.Shutdown; close them so no game finishes
	// while the archive drains
	if n := connManager.CloseAll("Server is shutting down"); n > 0 {
		log.Printf("[WS] Closed %d connections", n)
	}

	// let in-flight archive writes finish before the pools close
	tables.Shutdown()

	log.Println("Server exited gracefully")
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"closerlab/internal/cache"
	"closerlab/internal/config"
	"closerlab/internal/repository"
	"closerlab/internal/service"
	"closerlab/internal/transport/rest"
	"closerlab/internal/transport/ws"
)

func main() {
	cfg := config.Load()
	aiCfg := config.DefaultAIConfig()

	if !aiCfg.IsEnabled() {
		log.Println("Warning: GEMINI_API_KEY is not set; prospect replies and scoring will fail")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	db := mongoClient.Database(cfg.MongoDB)
	log.Printf("Connected to MongoDB (%s)", cfg.MongoDB)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to ping Redis: %v", err)
	}
	log.Printf("Connected to Redis (%s)", cfg.RedisAddr)

	sessionRepo := repository.NewSessionRepo(db)
	offerRepo := repository.NewOfferRepo(db)
	analysisRepo := repository.NewAnalysisRepo(db)

	stateCache := cache.NewStateCache(redisClient)
	patternCache := cache.NewPatternCache(redisClient)

	generator := service.NewGeminiGenerator(aiCfg)

	authSvc := service.NewAuthService(cfg.JWTSecret)
	offerSvc := service.NewOfferService(offerRepo)
	policySvc := service.NewPolicyService(aiCfg, generator)
	sessionSvc := service.NewSessionService(sessionRepo, offerRepo, stateCache, patternCache, policySvc)
	scoringSvc := service.NewScoringService(aiCfg, generator, sessionRepo, analysisRepo, patternCache)

	hub := ws.NewHub()
	sessionSvc.SetBroadcaster(hub)
	scoringSvc.SetBroadcaster(hub)

	wsHandler := ws.NewHandler(hub, authSvc, sessionSvc)

	router := rest.NewRouter(&rest.Container{
		AuthService:    authSvc,
		OfferService:   offerSvc,
		SessionService: sessionSvc,
		ScoringService: scoringSvc,
		WSHandler:      wsHandler,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Printf("MongoDB disconnect error: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("Redis close error: %v", err)
	}
	log.Println("Server stopped")
}

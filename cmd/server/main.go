package main

import (
	"context"
	"log"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"studyduel/config"
	"studyduel/db"
	"studyduel/identity"
	"studyduel/logger"
	"studyduel/notify"
	"studyduel/routes"
	"studyduel/services"
	"studyduel/store"
	"studyduel/utils"
)

func main() {
	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog := logger.New(cfg.Server.Mode)
	defer zlog.Sync()

	database, err := db.Connect(cfg.Database.URI)
	if err != nil {
		zlog.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	zlog.Info("Connected to MongoDB")

	st := store.NewMongo(database)
	ctx := context.Background()

	// Push delivery and identity creation are optional: without Firebase
	// credentials the game runs, notifications are dropped and users exist
	// only as store documents.
	var notifier services.Notifier = services.NopNotifier{}
	var idp services.IdentityProvider
	if cfg.Firebase.CredentialsFile != "" {
		fcm, err := notify.NewFCM(ctx, cfg.Firebase.CredentialsFile, st.Users(), zlog)
		if err != nil {
			zlog.Fatal("Failed to initialize FCM", zap.Error(err))
		}
		notifier = fcm

		fb, err := identity.NewFirebase(ctx, cfg.Firebase.CredentialsFile)
		if err != nil {
			zlog.Fatal("Failed to initialize Firebase Auth", zap.Error(err))
		}
		idp = fb
	} else {
		zlog.Warn("No Firebase credentials configured, notifications disabled")
	}

	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cache.Ping(ctx).Err(); err != nil {
			zlog.Warn("Redis unreachable, leaderboard cache disabled", zap.Error(err))
			cache = nil
		}
	}

	utils.SeedQuestions(ctx, st.Questions(), zlog)

	duelCfg := services.DuelConfig{
		RoundsPerDuel:     cfg.Duel.RoundsPerDuel,
		QuestionsPerRound: cfg.Duel.QuestionsPerRound,
	}
	duelService := services.NewDuelService(st, notifier, duelCfg, zlog)
	directoryService := services.NewDirectoryService(st, idp, zlog)
	leaderboardService := services.NewLeaderboardService(st, cache, zlog)

	router := setupRouter(cfg, routes.NewHandler(duelService, directoryService, leaderboardService, zlog))
	port := strconv.Itoa(cfg.Server.Port)
	zlog.Info("Server starting", zap.String("port", port))

	if err := router.Run(":" + port); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}

func setupRouter(cfg *config.Config, handler *routes.Handler) *gin.Engine {
	if cfg.Server.Mode != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	handler.Register(router)
	return router
}

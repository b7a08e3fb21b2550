package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"wishlist-backend/docs"
	"wishlist-backend/internal/common/config"
	"wishlist-backend/internal/common/logger"
	"wishlist-backend/internal/common/middleware"
	"wishlist-backend/internal/features/auth/identity"
	"wishlist-backend/internal/features/auth/initdata"
	"wishlist-backend/internal/features/auth/token"
	friendHTTP "wishlist-backend/internal/features/friend/delivery/http"
	friendRepo "wishlist-backend/internal/features/friend/repository/postgres"
	friendService "wishlist-backend/internal/features/friend/service"
	giftHTTP "wishlist-backend/internal/features/gift/delivery/http"
	giftRepo "wishlist-backend/internal/features/gift/repository/postgres"
	giftService "wishlist-backend/internal/features/gift/service"
	userCache "wishlist-backend/internal/features/user/cache/redis"
	userHTTP "wishlist-backend/internal/features/user/delivery/http"
	userRepo "wishlist-backend/internal/features/user/repository/postgres"
	userService "wishlist-backend/internal/features/user/service"
	"wishlist-backend/internal/platform/postgres"
	"wishlist-backend/internal/platform/redis"
)

const serviceName = "wishlist-backend"

// @title           Wishlist API
// @version         1.0
// @description     Backend for the Telegram Mini App wishlist.

// @BasePath  /api/v1

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name X-Telegram-Init-Data
// @description Raw Telegram Mini App init data, used only to log in

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Bearer <access_token>" issued by /users/auth

// @tag.name users
// @tag.description Login and profiles

// @tag.name friends
// @tag.description Friend requests and friendships

// @tag.name gifts
// @tag.description Wishlists and reservations

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Msg("Starting wishlist backend")

	postgresClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()

	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(postgresClient.GetDB()); err != nil {
			logger.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		logger.Info().Msg("Database migrations applied")
	}

	var redisClient *redis.Client
	var users userService.UserCache
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err = redis.Open(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()

		// assigned only here so a disabled cache stays a nil interface
		users = userCache.NewUserCache(redisClient, cfg.Redis.UserTTL)
		logger.Info().Str("addr", cfg.RedisAddr()).Dur("ttl", cfg.Redis.UserTTL).Msg("User cache enabled")
	}

	issuer, err := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.AccessTokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create token issuer")
	}
	resolver := identity.NewResolver(initdata.NewVerifier(cfg.Telegram.BotToken, cfg.Telegram.InitDataMaxAge), issuer)

	db := postgresClient.GetDB()
	txManager := postgres.NewTxManager(db)

	friendRepository := friendRepo.NewPostgresRepository(db)

	userSvc := userService.NewUserService(userRepo.NewPostgresRepository(db), txManager, issuer, users)
	friendSvc := friendService.NewFriendService(friendRepository, userSvc, txManager)
	giftSvc := giftService.NewGiftService(giftRepo.NewPostgresRepository(db), userSvc, friendRepository, txManager)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "wishlist"),
	)
	metrics := middleware.NewHTTPMetrics(registry)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", middleware.AuthorizationHeader, middleware.InitDataHeader}
	router.Use(cors.New(corsConfig))

	v1 := router.Group(docs.SwaggerInfo.BasePath)
	userHTTP.NewUserHandler(userSvc).RegisterRoutes(v1, resolver)
	friendHTTP.NewFriendHandler(friendSvc).RegisterRoutes(v1, resolver)
	giftHTTP.NewGiftHandler(giftSvc).RegisterRoutes(v1, resolver)

	setupProbes(router, postgresClient, redisClient)
	router.GET("/metrics", metrics.Handler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

// setupProbes mounts /health, /live and /ready. redisClient is nil when the cache is disabled.
func setupProbes(router *gin.Engine, postgresClient *postgres.Client, redisClient *redis.Client) {
	router.GET("/health", func(c *gin.Context) {
		stats := postgresClient.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":              "ok",
			"timestamp":           time.Now().UTC(),
			"service":             serviceName,
			"db_open_connections": stats.OpenConnections,
			"db_in_use":           stats.InUse,
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := postgresClient.HealthCheck(ctx); err != nil {
			logger.Warn().Err(err).Msg("Readiness: postgres unavailable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unready", "error": "postgres unavailable"})
			return
		}

		if redisClient != nil {
			if err := redisClient.HealthCheck(ctx); err != nil {
				logger.Warn().Err(err).Msg("Readiness: redis unavailable")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unready", "error": "redis unavailable"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})
}

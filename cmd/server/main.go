package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cardapio/internal/address"
	"cardapio/internal/config"
	"cardapio/internal/handler"
	"cardapio/internal/kvstore"
	"cardapio/internal/logger"
	"cardapio/internal/middleware"
	"cardapio/internal/model"
	"cardapio/internal/repository"
	"cardapio/internal/service"
	"cardapio/internal/utils"
	"cardapio/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg := config.Load()
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	if envErr != nil {
		lg.Info("no .env file found, relying on environment variables")
	}
	for _, w := range cfg.Warnings {
		lg.Warn(w)
	}

	// --- Storage ---
	backend, closeBackend, err := openBackend(cfg, lg)
	if err != nil {
		lg.Fatalw("failed to open storage", "driver", cfg.StorageDriver, "error", err)
	}
	defer closeBackend()
	lg.Infow("storage ready", "driver", cfg.StorageDriver)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(kvstore.NewAdapter(backend, repository.PrefixUsers, lg))
	restaurantRepo := repository.NewRestaurantRepository(kvstore.NewAdapter(backend, repository.PrefixRestaurants, lg))
	productRepo := repository.NewProductRepository(kvstore.NewAdapter(backend, repository.PrefixProducts, lg))
	sessionRepo := repository.NewSessionRepository(kvstore.NewAdapter(backend, repository.PrefixSession, lg), cfg.SessionTTL)

	// --- Initialize Services ---
	hasher := utils.NewPasswordHasher(cfg.PasswordHashing)
	resets := utils.NewResetTokenIssuer(cfg.ResetTokenSecret, cfg.ResetTokenExpirationMinutes)
	authService := service.NewAuthService(userRepo, sessionRepo, hasher, resets, service.LogResetNotifier{Log: lg}, lg)
	productService := service.NewProductService(productRepo, sessionRepo, lg)
	restaurantService := service.NewRestaurantService(restaurantRepo, productService, sessionRepo, lg)

	seedAdmin(context.Background(), cfg, userRepo, hasher, lg)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	restaurantHandler := handler.NewRestaurantHandler(restaurantService, productService)
	productHandler := handler.NewProductHandler(productService)
	addressHandler := handler.NewAddressHandler(address.NewViaCEP(cfg.PostalCodeAPIURL, cfg.PostalCodeTimeout), lg)

	// --- Setup Gin Router ---
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// Simple CORS middleware (allow all, the app talks to this from the device)
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// --- Initialize Middlewares ---
	sessionAuthMW := middleware.SessionAuthMiddleware(authService)
	adminRoleMW := middleware.AdminMiddleware()
	clientRoleMW := middleware.ClientMiddleware()

	// --- Register Routes ---
	apiGroup := router.Group("/api/v1")
	authHandler.RegisterAuthRoutes(apiGroup, sessionAuthMW, clientRoleMW)
	restaurantHandler.RegisterRestaurantRoutes(apiGroup, sessionAuthMW, adminRoleMW)
	productHandler.RegisterProductRoutes(apiGroup, sessionAuthMW, adminRoleMW)
	addressHandler.RegisterAddressRoutes(apiGroup)

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := backend.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "storage": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		lg.Infow("server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatalw("listen failed", "error", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Errorw("server forced to shutdown", "error", err)
	}

	lg.Info("server exiting")
}

// openBackend returns the storage backend named by the config and a func
// releasing it.
func openBackend(cfg *config.Config, lg *zap.SugaredLogger) (kvstore.Backend, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return kvstore.NewMemoryBackend(), func() {}, nil

	case config.DriverPostgres:
		dbCfg, err := config.LoadDBConfig()
		if err != nil {
			return nil, nil, err
		}
		pool, err := config.ConnectDB(dbCfg, lg)
		if err != nil {
			return nil, nil, err
		}
		if err := config.AutoMigrate(pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return kvstore.NewPostgresBackend(pool), pool.Close, nil

	default:
		db, err := config.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		backend, err := kvstore.NewSQLiteBackend(db)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return backend, closeDB, nil
	}
}

// seedAdmin creates the configured admin account unless the email is taken.
func seedAdmin(ctx context.Context, cfg *config.Config, users repository.UserRepository, hasher utils.PasswordHasher, lg *zap.SugaredLogger) {
	if cfg.SeedAdminEmail == "" {
		return
	}
	email := strings.ToLower(cfg.SeedAdminEmail)
	if !validator.ValidEmail(email) {
		lg.Warnw("SEED_ADMIN_EMAIL is not a valid email, skipping seed", "email", cfg.SeedAdminEmail)
		return
	}
	if ok, msg := validator.CheckPassword(cfg.SeedAdminPassword); !ok {
		lg.Warnw("SEED_ADMIN_PASSWORD rejected, skipping seed", "reason", msg)
		return
	}

	exists, err := users.EmailExists(ctx, email)
	if err != nil {
		lg.Errorw("failed to check seeded admin", "error", err)
		return
	}
	if exists {
		return
	}

	stored, err := hasher.Hash(cfg.SeedAdminPassword)
	if err != nil {
		lg.Errorw("failed to hash seeded admin password", "error", err)
		return
	}
	if _, err := users.Save(ctx, model.User{Name: "Administrador", Email: email, Password: stored, Role: model.RoleAdmin}); err != nil {
		lg.Errorw("failed to seed admin", "error", err)
		return
	}
	lg.Infow("seeded default admin", "email", email)
}

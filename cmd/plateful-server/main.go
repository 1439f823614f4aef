package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/plateful/plateful/pkg/plateful/accounts"
	"github.com/plateful/plateful/pkg/plateful/admin"
	"github.com/plateful/plateful/pkg/plateful/auth"
	"github.com/plateful/plateful/pkg/plateful/config"
	"github.com/plateful/plateful/pkg/plateful/database"
	"github.com/plateful/plateful/pkg/plateful/models"
	"github.com/plateful/plateful/pkg/plateful/recipes"
	"github.com/plateful/plateful/pkg/plateful/tags"
	"github.com/plateful/plateful/pkg/plateful/users"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// @title Plateful API
// @version 1.0
// @description A recipe-management backend with per-user recipes and tags.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Opaque auth token (API) or admin session token (console). Format: "Bearer {token}"

func main() {
	config.Init()

	logger := newLogger(config.AppConfig.LogLevel)
	defer logger.Sync()

	// Wait for the database rather than crash-loop while storage comes up
	waitTimeout := time.Duration(config.AppConfig.DBWaitSeconds) * time.Second
	if err := database.WaitForConnection(config.AppConfig.DBPath, waitTimeout, logger); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := models.AutoMigrate(database.GetDB()); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	// Create the initial superuser if no superuser exists
	if err := ensureSuperuserExists(logger); err != nil {
		logger.Fatal("Failed to ensure superuser exists", zap.Error(err))
	}

	r := setupRouter(logger)

	addr := fmt.Sprintf(":%d", config.AppConfig.HTTPPort)
	logger.Info("Starting Plateful server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Errorf("failed to build logger: %w", err))
	}
	return logger
}

func setupRouter(logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	// Unregistered methods on a known path answer 405, not 404
	r.HandleMethodNotAllowed = true

	db := database.GetDB()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "plateful",
		})
	})

	// User signup, token issue and profile self-service
	usersHandler := users.NewHandler(db)
	usersHandler.RegisterRoutes(r.Group("/user"))

	// Recipe and tag CRUD, bearer-authenticated and owner-scoped
	recipeGroup := r.Group("/recipe")
	recipeGroup.Use(auth.TokenAuthMiddleware(db))

	recipesHandler := recipes.NewHandler(db)
	recipesHandler.RegisterRoutes(recipeGroup)

	tagsHandler := tags.NewHandler(db)
	tagsHandler.RegisterRoutes(recipeGroup)

	// Admin console API (staff only, separate session auth)
	adminHandler := admin.NewHandler(db)
	adminHandler.RegisterRoutes(r.Group("/admin"))

	registerConsoleAssets(r, logger)

	return r
}

// registerConsoleAssets serves the operator console frontend when a build
// exists at ./web/dist; otherwise the server runs API-only.
func registerConsoleAssets(r *gin.Engine, logger *zap.Logger) {
	webDistPath := "./web/dist"
	if _, err := os.Stat(webDistPath); err != nil {
		logger.Info("No console build found at ./web/dist - API only mode")
		return
	}

	r.Static("/assets", filepath.Join(webDistPath, "assets"))
	r.StaticFile("/favicon.ico", filepath.Join(webDistPath, "favicon.ico"))

	indexHTML := filepath.Join(webDistPath, "index.html")
	r.GET("/", func(c *gin.Context) {
		c.File(indexHTML)
	})
	r.GET("/console", func(c *gin.Context) {
		c.File(indexHTML)
	})
	// Sub-routes like /console/users are client-side routes
	r.GET("/console/*path", func(c *gin.Context) {
		c.File(indexHTML)
	})

	logger.Info("Serving console from ./web/dist")
}

// ensureSuperuserExists creates the configured initial superuser if no
// superuser exists in the database.
func ensureSuperuserExists(logger *zap.Logger) error {
	db := database.GetDB()

	var count int64
	if err := db.Model(&models.User{}).Where("is_superuser = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	store := accounts.NewStore(db)
	user, err := store.CreateSuperuser(config.AppConfig.SuperuserEmail, config.AppConfig.SuperuserPassword)
	if err != nil {
		return err
	}

	logger.Info("Created initial superuser", zap.String("email", user.Email))
	return nil
}

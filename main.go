// main.go
package main

import (
	"context"
	"log"

	"streaming-catalog/cmd"
	"streaming-catalog/internal/data/repository"
	"streaming-catalog/internal/mail"
	"streaming-catalog/internal/media"
	"streaming-catalog/internal/tmdb"
	"streaming-catalog/internal/usecase"
	"streaming-catalog/internal/wire"
	"streaming-catalog/pkg/database"
	"streaming-catalog/pkg/token"
	"streaming-catalog/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("media_driver", config.Media.Driver),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.MigrateOnStart {
		if err := database.Migrate(context.Background(), db, logger); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Media storage
	deps := wire.Dependencies{DB: db}

	var storage media.Storage
	switch config.Media.Driver {
	case utils.MediaDriverMinIO:
		minioStorage, err := media.NewMinIOStorage(context.Background(), config.MinIO, logger)
		if err != nil {
			logger.Fatal("Failed to initialize MinIO storage", zap.Error(err))
		}
		storage = minioStorage
	default:
		localStorage, err := media.NewLocalStorage(config.Media.Root, config.Media.PublicPrefix, logger)
		if err != nil {
			logger.Fatal("Failed to initialize local storage", zap.Error(err))
		}
		storage = localStorage
		deps.MediaRoot = localStorage.Root()
		deps.MediaPrefix = localStorage.Prefix()
	}

	tokens, err := token.NewManager(config.JWT)
	if err != nil {
		logger.Fatal("Failed to initialize token manager", zap.Error(err))
	}
	deps.Tokens = tokens

	metadata := tmdb.NewClient(config.TMDB, logger)
	if !metadata.Enabled() {
		logger.Warn("TMDB token not configured, discover endpoints will return 503")
	}

	deps.Services = usecase.Dependencies{
		Tokens:   tokens,
		Images:   media.NewImageService(storage, config.Media.ImagesFolder, config.Media.WebPQuality, logger),
		Videos:   media.NewVideoService(storage, config.Media.VideosFolder, logger),
		Mailer:   mail.New(config.Email, logger),
		Metadata: metadata,
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, deps, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, config.App.ShutdownTimeout, logger); err != nil {
		logger.Error("Server exited", zap.Error(err))
	}
}

package main

import (
	"log/slog"
	"os"
	"time"

	httpapi "github.com/immxrtalbeast/roomcast/internal/api/http"
	"github.com/immxrtalbeast/roomcast/internal/config"
	"github.com/immxrtalbeast/roomcast/internal/registry"
	"github.com/immxrtalbeast/roomcast/internal/repository"
	"github.com/immxrtalbeast/roomcast/internal/repository/model"
	"github.com/immxrtalbeast/roomcast/internal/service"
	"github.com/immxrtalbeast/roomcast/lib/logger/sl"
	"github.com/immxrtalbeast/roomcast/lib/logger/slogpretty"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	recordings, err := setupRecordings(cfg.Database)
	if err != nil {
		log.Error("failed to connect database", sl.Err(err))
		os.Exit(1)
	}

	reg := registry.New()
	roomService := service.NewRoomService(reg, log)

	uploadService, err := service.NewUploadService(recordings, roomService, roomService, cfg.Storage.UploadDir, log)
	if err != nil {
		log.Error("failed to init upload storage", sl.Err(err))
		os.Exit(1)
	}

	roomController := httpapi.NewRoomController(roomService, log, cfg.WebRTC.STUNServers)
	uploadController := httpapi.NewUploadController(uploadService, log, cfg.Storage.MaxUploadMB*1024*1024)

	router := httpapi.SetupRouter(roomController, uploadController, cfg.Storage.StaticDir)

	log.Info("starting application", slog.String("addr", cfg.HTTP.Address))
	if err := router.Run(cfg.HTTP.Address); err != nil {
		log.Error("http server stopped", sl.Err(err))
		os.Exit(1)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

// setupRecordings picks the recording index backend: Postgres when a DSN
// is configured, otherwise the in-memory index rebuilt from the upload
// directory at startup.
func setupRecordings(cfg config.DatabaseConfig) (repository.RecordingRepository, error) {
	if cfg.DSN == "" {
		return repository.NewInMemoryRecordingRepository(), nil
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	db.AutoMigrate(&model.Recording{})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return repository.NewPostgresRecordingRepository(db), nil
}

package main

import (
	"context"
	"time"

	"mediavault/config"
	"mediavault/internal/domain/comment"
	"mediavault/internal/domain/file"
	"mediavault/internal/events"
	"mediavault/internal/handler"
	"mediavault/internal/mux"
	"mediavault/internal/poller"
	vaultredis "mediavault/internal/redis"
	"mediavault/internal/repository"
	"mediavault/internal/server"
	"mediavault/internal/services"
	"mediavault/internal/storage"
	"mediavault/internal/ws"
	"mediavault/pkg/database"
	"mediavault/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	logMode := logger.DevelopmentMode
	if cfg.AppMode == "release" {
		logMode = logger.ProductionMode
	}
	l := logger.New(logMode)
	defer l.Sync()
	logger.SetGlobalLogger(l)

	database.Connect(cfg)
	if err := database.DB.AutoMigrate(&file.File{}, &comment.Comment{}); err != nil {
		l.Fatalf("Failed to run migrations: %s", err)
	}

	vaultredis.Initialize(vaultredis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	redisClient := vaultredis.GetClient()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backup, err := storage.NewClient(ctx, storage.BackupConfig{
		Region:     cfg.S3Region,
		Bucket:     cfg.S3Bucket,
		AccessKey:  cfg.S3AccessKey,
		SecretKey:  cfg.S3SecretKey,
		Endpoint:   cfg.S3Endpoint,
		PublicBase: cfg.S3PublicBase,
		PresignTTL: 15 * time.Minute,
	})
	if err != nil {
		l.Fatalf("Failed to initialize backup storage: %s", err)
	}

	muxClient := mux.NewClient(cfg.MuxTokenID, cfg.MuxTokenSecret)

	limiter := vaultredis.NewRateLimiter(redisClient, vaultredis.DefaultRateLimitConfig())
	cache := vaultredis.NewCacheStore(redisClient, vaultredis.DefaultCacheConfig())

	fileRepo := repository.NewFileRepository(database.DB)
	commentRepo := repository.NewCommentRepository(database.DB)

	uploadService := services.NewUploadService(muxClient, backup, cfg.AppOrigin)
	statusService := services.NewStatusService(muxClient)
	fileService := services.NewFileService(fileRepo, backup, cache, l)
	commentService := services.NewCommentService(commentRepo)

	hub := ws.NewHub(l)
	go hub.Run(ctx)

	bus := events.NewRedisBus(redisClient, l)
	go func() {
		err := bus.Subscribe(ctx, func(event events.FileStatusEvent) {
			hub.Broadcast(event.UserID, ws.FileEvent{
				Event:         event.Type,
				FileID:        event.FileID,
				MuxStatus:     event.MuxStatus,
				MuxPlaybackID: event.MuxPlaybackID,
				MuxThumbnail:  event.MuxThumbnail,
			})
		})
		if err != nil && ctx.Err() == nil {
			l.Errorf("Event subscription stopped: %s", err)
		}
	}()

	pollInterval := time.Duration(cfg.PollIntervalSec) * time.Second
	manager := poller.NewManager(fileRepo, statusService, pollInterval, func(userID string) poller.TransitionFunc {
		return func(fileID string, asset services.AssetStatus) {
			event := events.FileStatusEvent{
				Type:         events.EventFileReady,
				UserID:       userID,
				FileID:       fileID,
				MuxStatus:    asset.Status,
				MuxThumbnail: asset.Thumbnail,
				OccurredAt:   time.Now().UTC(),
			}
			if file.MuxStatus(asset.Status) == file.StatusErrored {
				event.Type = events.EventFileErrored
			}
			if len(asset.PlaybackIDs) > 0 {
				event.MuxPlaybackID = asset.PlaybackIDs[0].ID
			}
			if err := bus.Publish(ctx, event); err != nil {
				l.Errorf("Publishing %s event for file %s: %s", event.Type, fileID, err)
			}
		}
	}, l)
	defer manager.StopAll()

	wsHandler := ws.NewHandler(hub, cfg.AppOrigin,
		func(userID string) { manager.Acquire(ctx, userID) },
		func(userID string) { manager.Release(userID) },
	)

	handlers := &server.Handlers{
		Mux:     handler.NewMuxHandler(uploadService, statusService, fileService, l),
		File:    handler.NewFileHandler(fileService, uploadService, l),
		Comment: handler.NewCommentHandler(commentService, l),
		WS:      wsHandler,
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, limiter)

	if err := srv.Start(); err != nil {
		l.Fatalf("Server stopped with error: %s", err)
	}
}

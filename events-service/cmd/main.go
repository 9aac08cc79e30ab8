package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"eventhub/events-service/internal/app/events/config"
	"eventhub/events-service/internal/app/events/handler"
	"eventhub/events-service/internal/app/events/infrastructure"
	"eventhub/events-service/internal/app/events/infrastructure/blacklist"
	"eventhub/events-service/internal/app/events/infrastructure/messaging"
	"eventhub/events-service/internal/app/events/infrastructure/storage"
	"eventhub/events-service/internal/app/events/repository"
	"eventhub/events-service/internal/app/events/service"
	"eventhub/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init("events-service", logLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, "events-service", logLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(db); err != nil {
			logger.Fatal().Err(err).Msg("Failed to migrate database")
		}
		logger.Info().Msg("Database schema is up to date")
	}

	// Redis нужен только для черного списка токенов; без адреса проверка отключена
	var tokenBlacklist infrastructure.TokenBlacklist
	if addr := cfg.Redis.Address(); addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Str("address", addr).Msg("Failed to connect to Redis")
		}
		tokenBlacklist = blacklist.NewRedisBlacklist(redisClient)
		logger.Info().Str("address", addr).Msg("Connected to Redis")
	} else {
		logger.Warn().Msg("REDIS_HOST is empty, token blacklist check disabled")
	}

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Strs("brokers", cfg.Kafka.Brokers).
		Msg("Initialized Kafka producer")

	images, err := newImageStorage(context.Background(), cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize image storage")
	}
	logger.Info().
		Str("driver", cfg.Storage.Driver).
		Int64("max_image_bytes", cfg.Storage.MaxImageSize).
		Msg("Initialized image storage")

	eventRepo := repository.NewEventRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	eventService := service.NewEventService(
		eventRepo,
		reviewRepo,
		membershipRepo,
		analyticsRepo,
		notificationRepo,
		images,
		kafkaProducer,
		cfg.Storage.MaxImageSize,
	)
	reviewService := service.NewReviewService(eventRepo, reviewRepo, notificationRepo, kafkaProducer)
	notificationService := service.NewNotificationService(notificationRepo)

	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret, tokenBlacklist)
	router := handler.SetupRoutes(
		handler.NewEventHandler(eventService, cfg.Storage.MaxImageSize),
		handler.NewReviewHandler(reviewService),
		handler.NewNotificationHandler(notificationService),
		authMiddleware,
		cfg.Server.AllowedOrigins,
	)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Events Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Events Service...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Events Service stopped gracefully")
}

func newImageStorage(ctx context.Context, cfg config.StorageConfig) (infrastructure.ImageStorage, error) {
	if cfg.Driver == config.StorageDriverS3 {
		return storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicPrefix:    cfg.PublicPrefix,
		})
	}
	return storage.NewLocalStorage(cfg.LocalDir, cfg.PublicPrefix)
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else {
				pingErr := sqlDB.Ping()
				if pingErr != nil {
					err = pingErr
				} else {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					sqlDB.SetConnMaxIdleTime(1 * time.Minute)
					return db, nil
				}
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

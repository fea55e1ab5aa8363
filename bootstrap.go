package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/cache"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/configuration"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/persistence"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/pubsub"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/rabbitmq"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/servicebus"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/storage"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/usecase"

	"gorm.io/gorm"
)

// stores is the video/engagement backend selected by Data.Source.
type stores struct {
	videos    repository.IVideo
	reactions repository.IReaction
	comments  repository.IComment
	migrate   func(ctx context.Context) error
	close     func(ctx context.Context)
}

func openStores(ctx context.Context, source string) (*stores, error) {
	switch source {
	case "mongo":
		cfg := configuration.C.Database.Mongo
		client, err := persistence.NewMongoDb(cfg.URI, cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		db := client.Database(cfg.Name)
		logger.GetLogger().WithField("database", cfg.Name).Info("MongoDB connected successfully")
		return &stores{
			videos:    persistence.NewMongoVideoRepository(db),
			reactions: persistence.NewMongoReactionRepository(db),
			comments:  persistence.NewMongoCommentRepository(db),
			migrate:   func(ctx context.Context) error { return persistence.EnsureMongoIndexes(ctx, db) },
			close:     func(ctx context.Context) { _ = client.Disconnect(ctx) },
		}, nil

	case "postgres":
		db, err := persistence.NewPostgreSQLDB()
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.GetLogger().Info("PostgreSQL connected successfully")
		return &stores{
			videos:    persistence.NewSQLVideoRepository(db, persistence.PostgresDialect),
			reactions: persistence.NewSQLReactionRepository(db, persistence.PostgresDialect),
			comments:  persistence.NewSQLCommentRepository(db, persistence.PostgresDialect),
			migrate:   func(context.Context) error { return persistence.EnsureVideoSchema(db) },
			close:     func(context.Context) { _ = db.Close() },
		}, nil

	case "mssql":
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			return nil, fmt.Errorf("connect mssql: %w", err)
		}
		logger.GetLogger().Info("SQL Server connected successfully")
		return &stores{
			videos:    persistence.NewSQLVideoRepository(db, persistence.MSSQLDialect),
			reactions: persistence.NewSQLReactionRepository(db, persistence.MSSQLDialect),
			comments:  persistence.NewSQLCommentRepository(db, persistence.MSSQLDialect),
			migrate:   func(context.Context) error { return persistence.EnsureVideoSchemaMSSQL(db) },
			close:     func(context.Context) { _ = db.Close() },
		}, nil

	case "memory":
		logger.GetLogger().Warn("Using the in-memory store; data is lost on restart")
		s := persistence.NewMemoryStore()
		return &stores{
			videos:    s.Videos(),
			reactions: s.Reactions(),
			comments:  s.Comments(),
			migrate:   func(context.Context) error { return nil },
			close:     func(context.Context) {},
		}, nil
	}
	return nil, fmt.Errorf("unknown data source %q", source)
}

// openUserDirectory returns nil when MySQL is not configured. Tokens are then
// trusted for the role.
func openUserDirectory() (*gorm.DB, repository.IUser) {
	if configuration.C.Database.MySql.Host == "" {
		logger.GetLogger().Info("MySQL user directory not configured; roles come from tokens")
		return nil, nil
	}
	db, err := persistence.NewRepositories()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("MySQL user directory not available - continuing with token roles")
		return nil, nil
	}
	logger.GetLogger().Info("MySQL user directory connected")
	return db, persistence.NewUserRepository(db)
}

func migrateUsers(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&model.User{})
}

func openCountCache(ctx context.Context) repository.IReactionCountCache {
	cfg := configuration.C.RedisClient
	if cfg.Host == "" {
		return nil
	}
	client, err := cache.NewCache(ctx, fmt.Sprintf("%s:%s", cfg.Host, cfg.Port), cfg.Username, cfg.Password, cfg.DB)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - counts are read from the store")
		return nil
	}
	logger.GetLogger().Info("Redis client initialized successfully.")
	ttl := time.Duration(configuration.C.Feed.CountCacheTTLSeconds) * time.Second
	return cache.NewCountCache(client, ttl)
}

func openMediaStorage(ctx context.Context) repository.IMediaStorage {
	cfg := configuration.C.Storage
	if cfg.Endpoint == "" {
		logger.GetLogger().Info("Object storage not configured; uploads are disabled")
		return nil
	}
	client, err := storage.NewMinio(ctx, cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Bucket, cfg.UseSSL)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Object storage not available - uploads are disabled")
		return nil
	}
	return storage.NewMinioStorage(client, cfg.Bucket, cfg.PublicURL)
}

// openBroker connects the publisher named by Events.Driver. The returned
// close func is never nil.
func openBroker(ctx context.Context) (*usecase.NamedPublisher, func(context.Context), error) {
	noop := func(context.Context) {}
	driver := configuration.C.Events.Driver
	topic := configuration.C.Events.Topic

	switch driver {
	case "":
		return nil, noop, nil

	case "pubsub":
		client, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID, configuration.C.Pubsub.CredentialsFile)
		if err != nil {
			return nil, noop, err
		}
		publisher := pubsub.NewEngagementPublisher(client, topic)
		return &usecase.NamedPublisher{Name: driver, Publisher: publisher},
			func(context.Context) {
				if p, ok := publisher.(*pubsub.EngagementPublisher); ok {
					p.Close()
				}
				_ = client.Close()
			}, nil

	case "servicebus":
		client, err := servicebus.NewServiceBus(ctx, configuration.C.ServiceBus.Namespace)
		if err != nil {
			return nil, noop, err
		}
		sender := servicebus.NewEngagementSender(client, topic)
		return &usecase.NamedPublisher{Name: driver, Publisher: sender},
			func(ctx context.Context) {
				if s, ok := sender.(*servicebus.EngagementSender); ok {
					_ = s.Close(ctx)
				}
				_ = client.Close(ctx)
			}, nil

	case "rabbitmq":
		conn, err := rabbitmq.NewConnection(configuration.C.RabbitMQ.URL, 2*time.Second)
		if err != nil {
			return nil, noop, err
		}
		publisher := rabbitmq.NewEngagementPublisher(conn, topic)
		return &usecase.NamedPublisher{Name: driver, Publisher: publisher},
			func(context.Context) {
				if p, ok := publisher.(*rabbitmq.EngagementPublisher); ok {
					_ = p.Close()
				}
				_ = conn.Close()
			}, nil
	}
	return nil, noop, fmt.Errorf("unknown events driver %q", driver)
}

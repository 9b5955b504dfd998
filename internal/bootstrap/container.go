package bootstrap

import (
	"context"
	"fmt"

	"ai-agent-platform/internal/config"
	"ai-agent-platform/internal/controller"
	"ai-agent-platform/internal/pkg/logger"
	"ai-agent-platform/internal/repository/memory"
	"ai-agent-platform/internal/repository/persister"
	"ai-agent-platform/internal/repository/unitofwork"
	"ai-agent-platform/internal/service"
	"ai-agent-platform/internal/websocket"
	"ai-agent-platform/pkg/database"
	"ai-agent-platform/pkg/dataset"
	"ai-agent-platform/pkg/embedding"
	"ai-agent-platform/pkg/events"
	pktNats "ai-agent-platform/pkg/nats"
	"ai-agent-platform/pkg/profile"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const logModule = "Bootstrap"

type Container struct {
	// Controllers
	ProfileController controller.IProfileController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ProfileManager  *profile.Manager
	WebSocketHub    *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// NewContainer loads the record source, builds the similarity index and wires
// every collaborator. Load and index failures are returned; optional
// infrastructure (Redis, NATS) that cannot be reached is logged and skipped.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c := &Container{Logger: sysLogger}

	// 2. Infrastructure
	rdb := c.connectRedis(ctx, cfg.App.RedisURL)

	var db *gorm.DB
	if cfg.Database.Connection != "" {
		var err error
		db, err = database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment != "production")
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			c.closers = append(c.closers, func() { sqlDB.Close() })
		}
	}

	// 3. Persistence collaborator
	var gormPersister *persister.GormPersister
	if db != nil {
		gormPersister = persister.NewGormPersister(unitofwork.NewRepositoryFactory(db))
	}

	var store profile.Persister
	switch cfg.Profile.Store {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("PROFILE_STORE=redis but Redis is unreachable")
		}
		store = persister.NewRedisPersister(rdb, 0)
	case "postgres":
		if gormPersister == nil {
			return nil, fmt.Errorf("PROFILE_STORE=postgres requires DB_CONNECTION_STRING")
		}
		store = gormPersister
	default:
		filePersister, err := persister.NewFilePersister(cfg.Profile.DataDir)
		if err != nil {
			return nil, err
		}
		store = filePersister
	}

	// 4. Record store and similarity index
	table, err := dataset.ReadCSV(cfg.Profile.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", profile.ErrLoad, err)
	}
	if cfg.Profile.IncludeSaved && gormPersister != nil {
		saved, err := gormPersister.SavedProfiles(ctx, string(profile.StateComplete))
		if err != nil {
			sysLogger.Warn(logModule, "Failed to load saved profiles", map[string]interface{}{"error": err.Error()})
		} else {
			table.AppendRecords(saved...)
			sysLogger.Info(logModule, "Appended saved profiles", map[string]interface{}{"count": len(saved)})
		}
	}

	records, universe, err := profile.LoadRecords(table, profile.FieldSynonyms)
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Keys.GoogleGemini,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OllamaModel,
	)
	if err != nil {
		return nil, err
	}
	sysLogger.Info(logModule, "Using embedding provider", map[string]interface{}{"provider": cfg.Ai.EmbeddingProvider})

	index, err := profile.BuildIndex(ctx, records, universe, embedder, cfg.Profile.IndexWorkers)
	if err != nil {
		return nil, err
	}
	sysLogger.Info(logModule, "Similarity index built", map[string]interface{}{
		"records":   index.Len(),
		"questions": universe.Len(),
		"dimension": index.Dimension(),
	})

	ranker := profile.NewRanker(
		index,
		records,
		universe,
		embedding.NewCachedProvider(embedder, cfg.Ai.EmbeddingCacheTTL),
		profile.WithNeighborCount(cfg.Profile.Neighbors),
		profile.WithMaxSuggest(cfg.Profile.MaxSuggest),
	)

	// 5. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	var forwarder events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn(logModule, "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
	} else {
		forwarder = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/profile_events.log")
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	publisherService := service.NewPublisherService(cfg.Profile.EventsTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Profile.EventsTopic,
		store,
		forwarder,
		c.WebSocketHub,
		wsLogger,
	)

	// 6. Session manager
	c.ProfileManager = profile.NewManager(
		ranker,
		universe,
		memory.NewSessionRepository(),
		sysLogger,
		profile.WithPersister(store),
		profile.WithNotifier(service.NewProfileEventNotifier(publisherService, sysLogger)),
		profile.WithTopK(cfg.Profile.MaxSuggest),
	)

	profileService := service.NewProfileService(
		c.ProfileManager,
		service.IndexInfo{Records: index.Len(), Questions: universe.Len(), Dimension: index.Dimension()},
		cfg.Profile.StaleAfter,
	)

	// 7. Controllers
	c.ProfileController = controller.NewProfileController(profileService, c.WebSocketHub, cfg.App.JwtSecret, sysLogger)

	return c, nil
}

func (c *Container) connectRedis(ctx context.Context, url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		c.Logger.Warn(logModule, "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		c.Logger.Warn(logModule, "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		rdb.Close()
		return nil
	}

	c.closers = append(c.closers, func() { rdb.Close() })
	return rdb
}

// Close releases connections in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.Logger.Sync()
}

package bootstrap

import (
	"context"
	"fmt"

	"code-concierge-be/internal/config"
	"code-concierge-be/internal/controller"
	"code-concierge-be/internal/handler"
	"code-concierge-be/internal/pkg/logger"
	"code-concierge-be/internal/pkg/serverutils"
	"code-concierge-be/internal/pkg/storage"
	"code-concierge-be/internal/repository/memory"
	"code-concierge-be/internal/repository/unitofwork"
	"code-concierge-be/internal/service"
	"code-concierge-be/internal/websocket"
	"code-concierge-be/pkg/events"
	"code-concierge-be/pkg/extract"
	"code-concierge-be/pkg/llm"
	"code-concierge-be/pkg/llm/factory"
	pktNats "code-concierge-be/pkg/nats"
	"code-concierge-be/pkg/rag/response"
	"code-concierge-be/pkg/rag/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger *logger.ZapLogger

	// Controllers
	ChatController      controller.IChatController
	SearchController    controller.ISearchController
	FileController      controller.IFileController
	KnowledgeController controller.IKnowledgeController
	LogController       controller.ILogController

	// Services, exposed for the CLI importer
	KnowledgeService service.IKnowledgeService

	// Background workers, started by main
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub
	ProgressHandler *handler.ProgressHandler

	natsSub *pktNats.Subscriber
	natsPub *pktNats.Publisher
	cache   *memory.StatsCache
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	statsCache := memory.NewStatsCache(cfg.Retrieval.StatsCacheTTL)

	files, err := storage.NewLocalStorage(cfg.Storage.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init upload storage: %w", err)
	}

	// 2. Event bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	publisherService := service.NewPublisherService(events.KnowledgeTopic, pubSub)

	// 3. Optional cluster infrastructure
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		if natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL, sysLogger); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect NATS publisher", map[string]interface{}{"error": err.Error()})
			natsPub = nil
		}
		if natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect NATS subscriber", map[string]interface{}{"error": err.Error()})
			natsSub = nil
		}
	}

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Redis unreachable, progress stays local to this instance", map[string]interface{}{"error": err.Error()})
			rdb = nil
		}
	}

	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 4. Retrieval and answering
	signer := serverutils.NewDownloadSigner(cfg.Auth.JWTSecret, cfg.Auth.DownloadTokenTTL, cfg.App.PublicBaseURL)

	engine := search.NewEngine(search.NewRepositoryStore(uowFactory, statsCache), search.Options{
		MatrixLimit:   cfg.Retrieval.MatrixLimit,
		MappingLimit:  cfg.Retrieval.MappingLimit,
		PdfLimit:      cfg.Retrieval.PdfLimit,
		SnippetLength: cfg.Retrieval.SnippetLength,
		Locator:       signer.Locator,
	}, sysLogger)

	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		BaseURL:       cfg.Ai.LLMBaseURL,
		APIKey:        cfg.Ai.LLMAPIKey,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		Timeout:       cfg.Ai.Timeout,
		Referer:       cfg.Ai.Referer,
		Title:         cfg.Ai.AppTitle,
	})
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	generator := response.NewGenerator(llmProvider, sysLogger,
		llm.WithTemperature(cfg.Ai.Temperature),
		llm.WithMaxTokens(cfg.Ai.MaxTokens),
	)

	// 5. Services
	scraper := extract.NewScraper(cfg.Scraper.Timeout, cfg.Scraper.UserAgent)
	knowledgeService := service.NewKnowledgeService(uowFactory, files, scraper, publisherService, statsCache, sysLogger)
	searchService := service.NewSearchService(engine, sysLogger)
	chatService := service.NewChatService(uowFactory, engine, generator, signer.Locator, sysLogger)
	fileService := service.NewFileService(uowFactory, files, signer, sysLogger)

	var forwarder service.EventForwarder
	if natsPub != nil {
		forwarder = natsPub
	}
	consumerService := service.NewConsumerService(pubSub, events.KnowledgeTopic, wsHub, forwarder, sysLogger)

	// 6. Controllers
	return &Container{
		Logger: sysLogger,

		ChatController:      controller.NewChatController(chatService, cfg.Auth.JWTSecret),
		SearchController:    controller.NewSearchController(searchService),
		FileController:      controller.NewFileController(fileService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService, cfg.Auth.JWTSecret),
		LogController:       controller.NewLogController(sysLogger, cfg.Auth.JWTSecret),

		KnowledgeService: knowledgeService,

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
		ProgressHandler: handler.NewProgressHandler(wsHub, cfg.Auth.JWTSecret, wsLogger),

		natsSub: natsSub,
		natsPub: natsPub,
		cache:   statsCache,
	}, nil
}

// Start runs the background workers until ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}

	// Other instances changed the knowledge base; their stats are stale here.
	if c.natsSub != nil {
		durable := "knowledge-cache-" + uuid.NewString()[:8]
		err := c.natsSub.Subscribe(ctx, "events.knowledge.>", durable, func(ctx context.Context, event events.Event) error {
			c.cache.Invalidate()
			c.Logger.Debug("BOOTSTRAP", "Stats cache invalidated by remote event", map[string]interface{}{"type": event.EventType()})
			return nil
		})
		if err != nil {
			c.Logger.Warn("BOOTSTRAP", "Failed to subscribe to knowledge events", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (c *Container) Close() {
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	_ = c.Logger.Sync()
}

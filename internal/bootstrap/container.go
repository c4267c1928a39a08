package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-research-assistant-be/internal/config"
	"ai-research-assistant-be/internal/controller"
	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/internal/repository/unitofwork"
	"ai-research-assistant-be/internal/service"
	"ai-research-assistant-be/internal/websocket"
	"ai-research-assistant-be/pkg/agent"
	"ai-research-assistant-be/pkg/embedding"
	"ai-research-assistant-be/pkg/llm/factory"
	"ai-research-assistant-be/pkg/retrieval"

	pkgNats "ai-research-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ResearchController controller.IResearchController
	SessionController  controller.ISessionController
	DocumentController controller.IDocumentController
	HealthController   controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService   service.IConsumerService
	EventAuditService service.IEventAuditService // nil when NATS is unreachable

	// WebSockets
	ProgressHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	var eventAuditService service.IEventAuditService
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		eventAuditService = service.NewEventAuditService(natsSub, sysLogger)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// Retrieval caching is best effort, a dead Redis only disables it.
	retrievalCache := retrieval.NewCache(rdb, time.Duration(cfg.Retrieval.CacheTTLSecs)*time.Second)

	// Progress WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/progress.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Retrieval Clients
	arxivClient := retrieval.NewArxivClient(cfg.Retrieval.ArxivBaseURL, retrievalCache)
	webClient := retrieval.NewWebSearchClient(
		cfg.Keys.Perplexity,
		time.Duration(cfg.Retrieval.WebTimeoutSecs)*time.Second,
		retrievalCache,
	)

	// 4. Services
	sessionCache := gocache.New(5*time.Minute, 10*time.Minute)
	memoryService := service.NewMemoryService(uowFactory, sessionCache, cfg.App.UserID, sysLogger)

	documentSearcher := service.NewDocumentSearchAdapter(embeddingProvider, uowFactory, cfg.App.UserID)

	gatherer := agent.NewGatherer(
		arxivClient,
		webClient,
		documentSearcher,
		cfg.Retrieval.ArxivMaxResults,
		cfg.Retrieval.DocumentLimit,
		sysLogger,
	)
	workflow := agent.NewController(
		memoryService,
		agent.NewResearcher(gatherer, llmProvider, sysLogger),
		agent.NewSummarizer(llmProvider, sysLogger),
		agent.NewAnalyst(llmProvider, sysLogger),
		wsHub,
		cfg.Retrieval.HistoryLimit,
		sysLogger,
	)

	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
		cfg.Retrieval.ChunkSize,
		cfg.Retrieval.ChunkOverlap,
		sysLogger,
	)

	researchService := service.NewResearchService(workflow, llmProvider, natsPub, sysLogger)
	documentService := service.NewDocumentService(
		uowFactory,
		publisherService,
		embeddingProvider,
		cfg.App.UserID,
		int64(cfg.Retrieval.MaxUploadSizeMB)*1024*1024,
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		ResearchController: controller.NewResearchController(researchService),
		SessionController:  controller.NewSessionController(memoryService),
		DocumentController: controller.NewDocumentController(documentService),
		HealthController:   controller.NewHealthController(),

		ConsumerService:   consumerService,
		EventAuditService: eventAuditService,
		ProgressHub:       wsHub,
	}
}

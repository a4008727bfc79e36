package bootstrap

import (
	"context"
	"log"
	"os"
	"time"

	"docuchat-be/internal/config"
	"docuchat-be/internal/controller"
	"docuchat-be/internal/pkg/logger"
	"docuchat-be/internal/pkg/metrics"
	"docuchat-be/internal/repository/implementation"
	"docuchat-be/internal/service"
	"docuchat-be/pkg/embedding"
	"docuchat-be/pkg/ingest"
	"docuchat-be/pkg/llm/factory"
	"docuchat-be/pkg/rag/compact"
	"docuchat-be/pkg/rag/rewrite"
	"docuchat-be/pkg/rag/search"
	"docuchat-be/pkg/vectorstore/pgvec"

	pktNats "docuchat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController    controller.ISessionController
	ChatController       controller.IChatController
	DocumentController   controller.IDocumentController
	EvaluationController controller.IEvaluationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Metrics snapshot source for the health endpoint
	MetricsSink metrics.Sink
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
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

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
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
	}

	// Vector store
	vectorStore, err := pgvec.NewStore(db)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize vector store: %v", err)
	}

	// 5. Repositories
	sessionRepo := implementation.NewSessionRepository(rdb, cfg.Chat.SessionExpireHours)
	documentRepo := implementation.NewDocumentRepository(rdb, cfg.Chat.SessionExpireHours)
	historyRepo := implementation.NewHistoryRepository(rdb, cfg.Chat.HistoryTTLDays)
	cacheRepo := implementation.NewCacheRepository(rdb, cfg.Chat.CacheTTLHours)
	evaluationRepo := implementation.NewEvaluationRepository(rdb)

	// 6. RAG Components
	ragLogger := log.New(os.Stdout, "[rag] ", log.LstdFlags)
	searcher := search.NewOrchestrator(embeddingProvider, vectorStore, ragLogger)

	llmTimeout := time.Duration(cfg.Chat.LLMTimeoutSeconds) * time.Second
	rewriter := rewrite.NewRewriter(llmProvider, cfg.Chat.RewriteHistoryM, llmTimeout, ragLogger)
	compactor := compact.NewCompactor(llmProvider, historyRepo, llmTimeout, ragLogger)

	ingestor := ingest.NewIngestor(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)

	metricsSink := metrics.NewAtomicSink()

	// 7. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.IngestTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		ingestor,
		embeddingProvider,
		vectorStore,
		natsPub,
		cfg.Ingest.EmbedBatchSize,
	)

	sessionService := service.NewSessionService(sessionRepo, natsPub, sysLogger)
	chatService := service.NewChatService(
		sessionService,
		sessionRepo,
		documentRepo,
		historyRepo,
		cacheRepo,
		llmProvider,
		searcher,
		rewriter,
		compactor,
		metricsSink,
		service.ChatTuning{
			SummaryEveryN: cfg.Chat.SummaryEveryN,
			TopK:          cfg.Chat.TopK,
			LLMTimeout:    llmTimeout,
			SearchTimeout: time.Duration(cfg.Chat.SearchTimeoutSeconds) * time.Second,
		},
		sysLogger,
	)
	documentService := service.NewDocumentService(
		sessionService,
		sessionRepo,
		documentRepo,
		historyRepo,
		vectorStore,
		publisherService,
		natsPub,
		sysLogger,
	)
	evaluationService := service.NewEvaluationService(evaluationRepo, sysLogger)

	// 8. Controllers
	return &Container{
		SessionController:    controller.NewSessionController(sessionService),
		ChatController:       controller.NewChatController(chatService),
		DocumentController:   controller.NewDocumentController(documentService),
		EvaluationController: controller.NewEvaluationController(evaluationService),

		ConsumerService: consumerService,
		MetricsSink:     metricsSink,
	}
}

package bootstrap

import (
	"context"
	"log"

	"chat-archivist-be/internal/config"
	"chat-archivist-be/internal/controller"
	"chat-archivist-be/internal/pkg/logger"
	"chat-archivist-be/internal/repository/memory"
	redisrepo "chat-archivist-be/internal/repository/redis"
	"chat-archivist-be/internal/repository/unitofwork"
	"chat-archivist-be/internal/service"
	"chat-archivist-be/pkg/embedding"
	"chat-archivist-be/pkg/embedding/jina"
	"chat-archivist-be/pkg/llm/factory"
	"chat-archivist-be/pkg/rag/agent"
	"chat-archivist-be/pkg/rag/analysis"
	"chat-archivist-be/pkg/rag/response"
	ragsearch "chat-archivist-be/pkg/rag/search"
	"chat-archivist-be/pkg/search"

	pktNats "chat-archivist-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SearchController  controller.ISearchController
	ArchiveController controller.IArchiveController

	// Background Services (Exposed for main.go to run)
	IndexerService service.IIndexerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := log.Default()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.JinaApiKey)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.LLMApiKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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
		log.Printf("[WARN] Failed to connect to Redis, relevance cache degrades to all-miss: %v", err)
	}
	relevanceCache := redisrepo.NewRelevanceCache(rdb, cfg.Search.RelevanceCacheTTL)

	// In-memory follow-up context
	conversationRepo := memory.NewConversationRepository()

	// 3. Retrieval pipeline
	retriever := ragsearch.NewRetriever(embeddingProvider, uowFactory, ragsearch.DefaultConfig(), ragLogger)
	searchAgent := agent.NewAgent(
		retriever,
		relevanceCache,
		agent.NewJudge(llmProvider, ragLogger),
		agent.NewReformulator(llmProvider, ragLogger),
		agent.NewHydeGenerator(llmProvider, ragLogger),
		agent.NewReranker(llmProvider, ragLogger),
		ragLogger,
	)
	synthesizer := response.NewSynthesizer(llmProvider, ragLogger)
	flipDetector := analysis.NewFlipDetector(retriever, llmProvider, ragLogger)
	questionParser := search.NewQuestionParser(llmProvider, ragLogger)
	repos := uowFactory.NewUnitOfWork(context.Background())
	speakerResolver := search.NewSpeakerResolver(repos.UserAliasRepository(), repos.MessageRepository(), ragLogger)

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.EmbedJobTopic, sysLogger)
	indexerService := service.NewIndexerService(
		pubSub,
		cfg.App.EmbedJobTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
		cfg.Search.ChunkSize,
		cfg.Search.ChunkOverlap,
	)
	ingestService := service.NewIngestService(uowFactory, publisherService, natsPub, sysLogger)
	searchService := service.NewSearchService(
		conversationRepo,
		questionParser,
		speakerResolver,
		searchAgent,
		synthesizer,
		flipDetector,
		cfg.Search,
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		SearchController:  controller.NewSearchController(searchService, sysLogger),
		ArchiveController: controller.NewArchiveController(ingestService),

		IndexerService: indexerService,
	}
}

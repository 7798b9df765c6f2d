package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-travelplanner-be/internal/config"
	"ai-travelplanner-be/internal/controller"
	"ai-travelplanner-be/internal/pkg/logger"
	"ai-travelplanner-be/internal/pkg/mailer"
	"ai-travelplanner-be/internal/repository/memory"
	"ai-travelplanner-be/internal/repository/unitofwork"
	"ai-travelplanner-be/internal/service"
	"ai-travelplanner-be/pkg/dualrate"
	"ai-travelplanner-be/pkg/events"
	"ai-travelplanner-be/pkg/embedding"
	"ai-travelplanner-be/pkg/llm"
	"ai-travelplanner-be/pkg/llm/factory"
	"ai-travelplanner-be/pkg/planner"
	"ai-travelplanner-be/pkg/retrieval"
	"ai-travelplanner-be/pkg/tokens"
	"ai-travelplanner-be/pkg/weather"

	pktNats "ai-travelplanner-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const memoryDocTopic = "embed_memory_doc"

type Container struct {
	// Controllers
	AuthController  controller.IAuthController
	OAuthController controller.IOAuthController
	UserController  controller.IUserController
	PlanController  controller.IPlanController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var auditLogger logger.ILogger
	if cfg.Pipeline.AuditLog {
		auditLogger = logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)
	codeThrottle := memory.NewThrottleRepository(time.Minute)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}
	if natsSub != nil {
		// Durable audit trail of everything on the bus.
		subErr := natsSub.Subscribe("events.>", "event_audit", func(ctx context.Context, event events.Event) error {
			sysLogger.Info("events", "event received", map[string]interface{}{
				"subject": event.EventType(),
				"payload": event.Payload(),
			})
			return nil
		})
		if subErr != nil {
			log.Printf("[WARN] Failed to subscribe to events: %v", subErr)
		}
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

	// 3. LLM and Embeddings
	llmProvider, err := factory.NewLLMProvider(cfg.LLM.Provider, llmProviderConfig(cfg))
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.LLM.Provider, cfg.LLM.Model)

	embeddingProvider := embedding.NewOpenAIProvider(
		cfg.LLM.APIKey,
		cfg.LLM.APIBase,
		cfg.LLM.EmbeddingModel,
		cfg.LLM.TimeoutSeconds,
	)

	// 4. Weather chain: MCP first when configured, open-meteo fallback,
	// redis cache on top.
	var weatherProvider weather.Provider
	openMeteo := weather.NewOpenMeteoProvider(cfg.LLM.TimeoutSeconds)
	if cfg.Weather.MCPEnabled && cfg.Weather.MCPURL != "" {
		mcp := weather.NewMCPProvider(cfg.Weather.MCPURL, cfg.Weather.MCPToken, cfg.LLM.TimeoutSeconds, sysLogger)
		weatherProvider = weather.NewChain(mcp, openMeteo, sysLogger)
	} else {
		weatherProvider = weather.NewChain(openMeteo, nil, sysLogger)
	}
	cacheTTL := time.Duration(cfg.Weather.CacheTTL) * time.Minute
	weatherProvider = weather.NewCachedProvider(weatherProvider, rdb, cacheTTL, sysLogger)

	// 5. Retrieval and pipeline
	assembler := retrieval.NewAssembler(
		retrieval.Config{
			Enabled:    cfg.RAG.Enabled,
			TopK:       cfg.RAG.TopK,
			UseKB:      cfg.RAG.UseKB,
			UseMemory:  cfg.RAG.UseMemory,
			UseWeather: cfg.RAG.UseWeather,
			DualRate:   cfg.DualRate.Enabled,
			DualRateConfig: dualrate.Config{
				FastTokens:     cfg.DualRate.FastTokens,
				SlowTokens:     cfg.DualRate.SlowTokens,
				SlowEvery:      cfg.DualRate.SlowEvery,
				SlowImportance: cfg.DualRate.SlowImportance,
				RecentKeep:     cfg.DualRate.RecentKeep,
			},
		},
		embeddingProvider,
		service.NewKnowledgeStore(uowFactory),
		service.NewMemoryStore(uowFactory),
		weatherProvider,
		planner.NewSummarizer(llmProvider),
		tokens.Default(cfg.LLM.Model),
		sysLogger,
		auditLogger,
	)

	pipeline := planner.NewPipeline(llmProvider, assembler, planner.Config{
		MaxAttempts: cfg.LLM.MaxRetries + 1,
		BudgetRisk:  cfg.Pipeline.EnableBudgetRisk,
	}, sysLogger, auditLogger)

	// 6. Services
	publisherService := service.NewPublisherService(memoryDocTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		memoryDocTopic,
		uowFactory,
		embeddingProvider,
	)

	authService := service.NewAuthService(uowFactory, emailService, codeThrottle, natsPub)
	oauthService := service.NewOAuthService(uowFactory)
	userService := service.NewUserService(uowFactory)
	planService := service.NewPlanService(pipeline, uowFactory, publisherService, natsPub)

	// 7. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService),
		OAuthController: controller.NewOAuthController(oauthService),
		UserController:  controller.NewUserController(userService),
		PlanController:  controller.NewPlanController(planService),

		ConsumerService: consumerService,
	}
}

// llmProviderConfig maps the application configuration onto the provider
// construction config. In json_schema mode the final-plan schema is attached
// so the provider runs strict instead of falling back to json_object.
func llmProviderConfig(cfg *config.Config) llm.Config {
	providerCfg := llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.APIBase,
		Model:          cfg.LLM.Model,
		Format:         llm.ResponseFormat(cfg.LLM.ResponseFormat),
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	}
	if providerCfg.Format == llm.FormatJSONSchema {
		providerCfg.SchemaName = "travel_plan"
		providerCfg.Schema = planner.ResponseSchema()
	}
	return providerCfg
}

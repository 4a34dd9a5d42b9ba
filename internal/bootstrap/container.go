package bootstrap

import (
	"context"
	"log"
	"strings"
	"time"

	"creation-workshop-be/internal/config"
	"creation-workshop-be/internal/controller"
	"creation-workshop-be/internal/pkg/logger"
	"creation-workshop-be/internal/repository/contract"
	"creation-workshop-be/internal/repository/implementation"
	"creation-workshop-be/internal/repository/memory"
	"creation-workshop-be/internal/repository/redisstore"
	"creation-workshop-be/internal/service"
	"creation-workshop-be/internal/websocket"
	"creation-workshop-be/pkg/chat"
	"creation-workshop-be/pkg/events"
	"creation-workshop-be/pkg/intent"
	"creation-workshop-be/pkg/llm/factory"

	pktNats "creation-workshop-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Known worker identities in the workshop channel; their posts never
// enter the workflow.
var workerSources = []string{
	"material-searcher",
	"outline-generator",
	"writer",
	"sensitive-critic",
	"ai-flavor-critic",
	"public-opinion-critic",
}

// Messages mentioning a reviewer directly belong to that reviewer's own
// conversation thread.
var reviewerMentions = []string{
	"@sensitive-critic",
	"@ai-flavor-critic",
	"@public-opinion-critic",
}

type Container struct {
	WorkshopController controller.IWorkshopController

	Coordinator    service.ICoordinatorService
	SessionService service.ISessionService

	ChatBus      *chat.Bus
	WebSocketHub *websocket.Hub

	natsPub *pktNats.Publisher
	natsSub *pktNats.Subscriber
	logger  logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Chat Bus (in-process channel transport)
	watermillLogger := watermill.NewStdLogger(false, false)
	chatBus := chat.NewBus(cfg.Workshop.ChannelName, watermillLogger)

	// 3. NATS (work requests / worker completions)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// 4. Redis
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

	// 5. WebSocket Hub (live workshop feed)
	wsLogger := logger.NewIsolatedLogger("logs/workshop_ws.log")
	wsHub := websocket.NewHub(rdb, cfg.Workshop.ChannelName, chatBus.PublishInbound, wsLogger)
	go wsHub.Run()

	// 6. Intent Classifier
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.LLMApiKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	classifier := intent.NewLLMClassifier(llmProvider)

	// 7. Repositories
	sessionRepo := implementation.NewCreationSessionRepository(db)
	ttl := time.Duration(cfg.Workshop.SessionTTLHours) * time.Hour

	var reviewStateRepo contract.ReviewStateRepository
	if cfg.Workshop.ReviewStateStore == "redis" {
		reviewStateRepo = redisstore.NewReviewStateRepository(rdb, ttl)
		log.Printf("[INFO] Review state store: REDIS")
	} else {
		reviewStateRepo = memory.NewReviewStateRepository(ttl)
		log.Printf("[INFO] Review state store: MEMORY")
	}

	// 8. Services
	sessionService := service.NewSessionService(sessionRepo, ttl, sysLogger)
	aggregator := service.NewAggregatorService(
		reviewStateRepo,
		time.Duration(cfg.Workshop.ReviewJoinTimeoutSec)*time.Second,
		cfg.Workshop.SuggestionCap,
		sysLogger,
	)
	coordinator := service.NewCoordinatorService(
		sessionService,
		aggregator,
		classifier,
		natsPub,
		chatBus,
		sysLogger,
		chatBus.Channel(),
		workerSources,
		reviewerMentions,
	)

	return &Container{
		WorkshopController: controller.NewWorkshopController(sessionService, chatBus),
		Coordinator:        coordinator,
		SessionService:     sessionService,
		ChatBus:            chatBus,
		WebSocketHub:       wsHub,
		natsPub:            natsPub,
		natsSub:            natsSub,
		logger:             sysLogger,
	}
}

// inboundKinds lists every worker-completion subject the coordinator
// consumes.
var inboundKinds = []string{
	events.KindMaterialsFound,
	events.KindOutlinesReady,
	events.KindOutlineModified,
	events.KindWritingProgress,
	events.KindDraftReady,
	events.KindReviewCompleted,
	events.KindOptimizationDone,
	events.KindWorkerFailed,
}

// Start wires the event flows and background loops. Call once after
// NewContainer; runs until ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	// User messages drive the workflow.
	if err := c.ChatBus.ConsumeInbound(ctx, c.Coordinator.HandleChatMessage); err != nil {
		return err
	}

	// Every channel post, inbound or outbound, reaches the live feed.
	mirror := func(ctx context.Context, msg chat.Message) error {
		c.WebSocketHub.Broadcast(msg)
		return nil
	}
	if err := c.ChatBus.ConsumeInbound(ctx, mirror); err != nil {
		return err
	}
	if err := c.ChatBus.ConsumeOutbound(ctx, mirror); err != nil {
		return err
	}

	// Worker completions off NATS.
	if c.natsSub != nil {
		for _, kind := range inboundKinds {
			durable := "coordinator-" + strings.ReplaceAll(kind, "_", "-")
			if err := c.natsSub.Subscribe(pktNats.Subject(kind), durable, c.Coordinator.HandleWorkerEvent); err != nil {
				return err
			}
		}
	} else {
		c.logger.Warn("bootstrap", "NATS unavailable, worker events will not be consumed", nil)
	}

	// Expiry sweep.
	c.SessionService.StartCleanupLoop(ctx, time.Hour)

	if err := c.ChatBus.Post(ctx, "Creation coordinator is online. Send me a topic to start a new piece."); err != nil {
		c.logger.Warn("bootstrap", "Posting startup notice failed", map[string]interface{}{"error": err.Error()})
	}

	return nil
}

// Close flushes and tears down shared infrastructure.
func (c *Container) Close() {
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	_ = c.ChatBus.Close()
	_ = c.logger.Sync()
}

package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"github.com/kevinvandever/secureask/internal/config"
	"github.com/kevinvandever/secureask/internal/controller"
	"github.com/kevinvandever/secureask/internal/pkg/logger"
	"github.com/kevinvandever/secureask/internal/pkg/serverutils"
	"github.com/kevinvandever/secureask/internal/repository/memory"
	"github.com/kevinvandever/secureask/internal/service"
	"github.com/kevinvandever/secureask/pkg/cache"
	"github.com/kevinvandever/secureask/pkg/events"
	"github.com/kevinvandever/secureask/pkg/graph"
	pktNats "github.com/kevinvandever/secureask/pkg/nats"
	"github.com/kevinvandever/secureask/pkg/query"
	"github.com/kevinvandever/secureask/pkg/relevance"
	"github.com/kevinvandever/secureask/pkg/source"
	"github.com/kevinvandever/secureask/pkg/source/reddit"
	"github.com/kevinvandever/secureask/pkg/source/sec"
	"github.com/kevinvandever/secureask/pkg/source/tiktok"
	"github.com/kevinvandever/secureask/pkg/synthesis"
)

type Container struct {
	// Controllers
	QueryController  controller.IQueryController
	GraphController  controller.IGraphController
	AuthController   controller.IAuthController
	HealthController controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Infrastructure handles exposed for shutdown
	NatsPublisher *pktNats.Publisher
	GraphClient   graph.IClient
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	var eventPub events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPub = natsPub
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
	cacheStore := cache.NewStore(rdb, cache.DefaultRetryPolicy(), sysLogger)

	// Neo4j
	graphClient, err := graph.NewClient(
		context.Background(),
		cfg.Graph.URI,
		cfg.Graph.User,
		cfg.Graph.Password,
		sysLogger,
	)
	if err != nil {
		log.Printf("[WARN] Failed to connect to Neo4j: %v. Graph features degraded", err)
	}

	// 3. Pipeline components
	connectors := []source.Connector{
		sec.NewConnector(sysLogger),
		reddit.NewConnector(cfg.Keys.RedditClientID, cfg.Keys.RedditClientSecret, sysLogger),
		tiktok.NewConnector(cfg.Keys.ApifyToken, sysLogger),
	}

	registry := memory.NewQueryRegistry()
	synthesizer := synthesis.NewSynthesizer(relevance.NewExtractor(), synthesis.DefaultPolicy(), sysLogger)

	engine := query.NewEngine(
		connectors,
		cacheStore,
		registry,
		synthesizer,
		pubSub,
		cfg.Pipeline.IngestTopic,
		eventPub,
		cfg.Pipeline.QueryTimeout,
		sysLogger,
	)

	// Graph-ingest worker logs to its own file so pipeline logs stay clean.
	ingestLogger := logger.NewIsolatedLogger("logs/graph_ingest.log")
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Pipeline.IngestTopic,
		graphClient,
		ingestLogger,
	)

	queryService := service.NewQueryService(engine)
	graphService := service.NewGraphService(graphClient, pubSub, cfg.Pipeline.IngestTopic, eventPub, sysLogger)
	authService := service.NewAuthService(cfg.Keys.JWTSecret)

	// 4. Controllers. The guard verifies with the same secret the auth
	// service signs with.
	jwtGuard := serverutils.NewJwtMiddleware(cfg.Keys.JWTSecret)
	return &Container{
		QueryController:  controller.NewQueryController(queryService, jwtGuard),
		GraphController:  controller.NewGraphController(graphService, jwtGuard),
		AuthController:   controller.NewAuthController(authService),
		HealthController: controller.NewHealthController(cacheStore, queryService),

		ConsumerService: consumerService,

		NatsPublisher: natsPub,
		GraphClient:   graphClient,
	}
}

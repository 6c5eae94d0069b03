package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"zillow-parser-service/internal/adapters/console"
	"zillow-parser-service/internal/adapters/csvstorage"
	logger_adapter "zillow-parser-service/internal/adapters/logger"
	postgres_adapter "zillow-parser-service/internal/adapters/postgres"
	rabbitmq_adapter "zillow-parser-service/internal/adapters/rabbitmq"
	"zillow-parser-service/internal/adapters/sinks"
	"zillow-parser-service/internal/adapters/zillowfetcher"
	"zillow-parser-service/internal/configs"
	"zillow-parser-service/internal/constants"
	"zillow-parser-service/internal/contextkeys"
	"zillow-parser-service/internal/core/domain"
	"zillow-parser-service/internal/core/port"
	usecases_port "zillow-parser-service/internal/core/port/usecases"
	"zillow-parser-service/internal/core/usecase"
	fluentlogger "zillow-parser-service/pkg/fluent_logger"
	"zillow-parser-service/pkg/postgres"
	"zillow-parser-service/pkg/rabbitmq/rabbitmq_common"
	"zillow-parser-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App – структура приложения
type App struct {
	config        *configs.AppConfig
	dbPool        *pgxpool.Pool
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	fluentClient  *fluent.Fluent
	baseLogger    port.LoggerPort
	logger        port.LoggerPort

	crawlSearch usecases_port.CrawlSearchPort
	criteria    domain.SearchCriteria
}

// NewApp создает новый экземпляр приложения.
// Здесь все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{config: appConfig}

	// --- 1. ЛОГГЕРЫ ---
	if err := app.initLoggers(); err != nil {
		return nil, err
	}
	appLogger := app.logger

	// --- 2. ХРАНИЛИЩА ---
	csvSink, err := csvstorage.NewListingCSVSink(appConfig.Output.Path, constants.ListingCSVFields)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create csv sink: %w", err)
	}
	prompter := console.NewOverwritePrompter(os.Stdin, os.Stdout)
	if _, err := prepareOutput(appConfig.Output.OverwriteMode, csvSink, prompter, appLogger); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to prepare output file: %w", err)
	}

	sinkList := []sinks.NamedSink{{Name: "csv", Sink: csvSink}}

	if appConfig.Database.Enabled {
		dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			app.Close()
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		app.dbPool = dbPool
		appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

		listingRepo, err := postgres_adapter.NewPostgresListingRepository(dbPool)
		if err != nil {
			appLogger.Error("Failed to create listings repository", err, nil)
			app.Close()
			return nil, fmt.Errorf("failed to create listings repository: %w", err)
		}
		if err := listingRepo.EnsureSchema(context.Background()); err != nil {
			appLogger.Error("Failed to prepare listings table", err, nil)
			app.Close()
			return nil, err
		}
		sinkList = append(sinkList, sinks.NamedSink{Name: "postgres", Sink: listingRepo})
	}

	var reporter port.CrawlReporterPort = sinks.NewLogReporterAdapter()

	if appConfig.RabbitMQ.Enabled {
		connManagerLogger := app.baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
		connManager, err := rabbitmq_common.NewConnectionManager(appConfig.RabbitMQ.URL, rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger))
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			app.Close()
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		app.connManager = connManager
		appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

		producerLogger := app.baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
		eventProducer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.ParserExchange,
			ExchangeType:             "direct",
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(producerLogger),
		}, connManager)
		if err != nil {
			appLogger.Error("Failed to create event producer", err, nil)
			app.Close()
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}
		app.eventProducer = eventProducer
		appLogger.Info("RabbitMQ Event Producer initialized.", nil)

		listingsQueue, err := rabbitmq_adapter.NewRabbitMQListingsQueueAdapter(eventProducer, constants.RoutingKeyListings)
		if err != nil {
			appLogger.Error("Failed to create listings queue adapter", err, nil)
			app.Close()
			return nil, fmt.Errorf("failed to create listings queue adapter: %w", err)
		}
		sinkList = append(sinkList, sinks.NamedSink{Name: "rabbitmq", Sink: listingsQueue})

		crawlReporter, err := rabbitmq_adapter.NewCrawlReporterAdapter(eventProducer, constants.RoutingKeyCrawlResult)
		if err != nil {
			appLogger.Error("Failed to create crawl reporter", err, nil)
			app.Close()
			return nil, fmt.Errorf("failed to create crawl reporter: %w", err)
		}
		reporter = crawlReporter
	}

	listingSink, err := sinks.NewMultiSinkAdapter(sinkList...)
	if err != nil {
		app.Close()
		return nil, err
	}
	appLogger.Info("Listing sinks initialized.", port.Fields{"sinks": listingSink.Names()})

	// --- 3. ИСТОЧНИК ДАННЫХ ---
	fetcher, err := zillowfetcher.NewZillowFetcherAdapter(appConfig.Zillow.SearchURL, appConfig.Zillow.RequestTimeout)
	if err != nil {
		appLogger.Error("Failed to create Zillow Fetcher Adapter", err, nil)
		app.Close()
		return nil, fmt.Errorf("failed to initialize zillow fetcher: %w", err)
	}
	appLogger.Info("Zillow Fetcher Adapter initialized.", port.Fields{"url": appConfig.Zillow.SearchURL})

	// --- 4. USE CASE ---
	app.crawlSearch = usecase.NewCrawlSearchUseCase(fetcher, listingSink, reporter, appConfig.Search.Interval)
	app.criteria = domain.SearchCriteria{
		Term:    appConfig.Zillow.SearchTerm,
		Options: appConfig.Search.Options,
		Bounds:  appConfig.Search.Bounds,
		Regions: appConfig.Search.Regions,
		Page:    1,
	}

	return app, nil
}

func (a *App) initLoggers() error {
	cfg := a.config
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(cfg.StdoutLogger.Level),
		IsJSON:   cfg.StdoutLogger.IsJSON,
		UseColor: !cfg.StdoutLogger.IsJSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if cfg.FluentBit.Enabled {
		fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		a.fluentClient = fluentClient

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(cfg.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return fmt.Errorf("failed to create multi-logger: %w", err)
	}

	a.baseLogger = multiLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	a.logger = a.baseLogger.WithFields(port.Fields{"component": "app"})
	a.logger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": cfg.FluentBit.Enabled,
	})
	return nil
}

// Run выполняет один полный обход поиска. SIGINT/SIGTERM прерывают его между страницами.
func (a *App) Run() error {
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runID := uuid.New()
	ctx, traceID := contextkeys.EnsureTraceID(ctx)
	runLogger := a.baseLogger.WithFields(port.Fields{"trace_id": traceID})
	ctx = contextkeys.ContextWithLogger(ctx, runLogger)

	a.logger.Info("Application is starting...", port.Fields{"run_id": runID.String(), "output": a.config.Output.Path})

	result, err := a.crawlSearch.Execute(ctx, a.criteria, runID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			a.logger.Warn("Crawl cancelled by signal", nil)
			return nil
		}
		a.logger.Error("Crawl failed", err, nil)
		return fmt.Errorf("crawl failed: %w", err)
	}

	if result.State == domain.CrawlStateStalled {
		return fmt.Errorf("%w: status %d on page %d", domain.ErrCrawlStalled, result.StatusCode, result.LastPage)
	}

	a.logger.Info("Crawl completed", port.Fields{
		"total_count":    result.TotalCount,
		"per_page":       result.PerPage,
		"listings_saved": result.ListingsSaved,
	})
	return nil
}

// Close освобождает ресурсы в обратном порядке. Повторный вызов безопасен.
func (a *App) Close() {
	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
		a.eventProducer = nil
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
		a.connManager = nil
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
		a.dbPool = nil
	}
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			log.Printf("App: Error closing fluent client: %v\n", err)
		}
		a.fluentClient = nil
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}

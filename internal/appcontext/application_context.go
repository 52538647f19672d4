package appcontext

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/cafe_erp/internal/api"
	"github.com/RoyceAzure/lab/cafe_erp/internal/api/handler"
	"github.com/RoyceAzure/lab/cafe_erp/internal/api/router"
	"github.com/RoyceAzure/lab/cafe_erp/internal/config"
	"github.com/RoyceAzure/lab/cafe_erp/internal/constants"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/advisor"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/producer"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/cafe_erp/internal/pkg/ratelimit"
	"github.com/RoyceAzure/lab/cafe_erp/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// orderEventProducer kafka 或 nop, 關閉時都要呼叫 Close
type orderEventProducer interface {
	service.OrderEventPublisher
	Close() error
}

type ApplicationContext struct {
	Cf     *config.Config
	Logger zerolog.Logger

	LogWriter   *producer.KafkaLogWriter
	DbConn      *gorm.DB
	Store       *db.UnifiedDBImpl
	RedisClient *redis.Client
	Producer    orderEventProducer
	ProductRepo *redis_decorator.CacheAsideProductRepo
	CartRepo    *redis_repo.CartRepo

	StoreConfigService *service.StoreConfigService
	CatalogService     *service.CatalogService
	StaffService       *service.StaffService
	OrderService       *service.OrderService
	CartService        *service.CartService
	ReportService      *service.ReportService
	ReceiptService     *service.ReceiptService
	AdvisoryService    *service.AdvisoryService

	APILimiter    *ratelimit.TokenBucket
	AdviceLimiter *ratelimit.RedisTokenBucket
}

func NewApplicationContext(ctx context.Context, cf *config.Config) (*ApplicationContext, error) {
	app := ApplicationContext{
		Cf:     cf,
		Logger: NewLogger(cf, nil),
	}
	app.setUpLogShipping()
	app.Logger.Info().
		Str("env", cf.Env).
		Str("db_driver", cf.DbDriver).
		Str("redis_addr", cf.RedisAddr).
		Strs("kafka_brokers", cf.KafkaBrokers).
		Bool("advisor_enabled", cf.AdvisorURL != "").
		Msg("loaded config")

	if err := app.Init(ctx); err != nil {
		// 已建立的連線要釋放
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Shutdown(shutdownCtx)
		return nil, err
	}
	return &app, nil
}

func (app *ApplicationContext) Init(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"database connection", app.setUpDbConn},
		{"database migration", app.setUpMigration},
		{"redis client", app.setUpRedisClient},
		{"repositories", app.setUpRepositories},
		{"order event producer", app.setUpProducer},
		{"services", app.setUpServices},
		{"seed data", app.setUpSeed},
		{"rate limiters", app.setUpRateLimiters},
	}
	for _, step := range steps {
		app.Logger.Info().Msgf("Start setup %s", step.name)
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("setup %s: %w", step.name, err)
		}
		app.Logger.Info().Msgf("Finish setup %s", step.name)
	}
	return nil
}

// setUpLogShipping kafka writer 本身的錯誤只寫 stdout, 避免遞迴
func (app *ApplicationContext) setUpLogShipping() {
	if app.Cf.LogKafkaTopic == "" || len(app.Cf.KafkaBrokers) == 0 {
		return
	}
	writer := producer.NewKafkaWriter(producer.WriterConfig{
		Brokers:       app.Cf.KafkaBrokers,
		Topic:         app.Cf.LogKafkaTopic,
		BatchTimeout:  time.Second,
		RetryAttempts: 3,
		Async:         true,
	}, app.Logger)
	app.LogWriter = producer.NewKafkaLogWriter(writer, app.Cf.LogKafkaTopic)
	app.Logger = NewLogger(app.Cf, nil, app.LogWriter)
}

func (app *ApplicationContext) setUpDbConn(ctx context.Context) error {
	var (
		conn *gorm.DB
		err  error
	)
	switch constants.DBDriver(app.Cf.DbDriver) {
	case constants.DriverPostgres:
		conn, err = db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	default:
		conn, err = db.GetSqliteConn(app.Cf.SqlitePath)
	}
	if err != nil {
		return err
	}
	app.DbConn = conn
	app.Store = db.NewUnifiedDB(conn)
	return nil
}

func (app *ApplicationContext) setUpMigration(ctx context.Context) error {
	return app.Store.InitMigrate()
}

func (app *ApplicationContext) setUpRedisClient(ctx context.Context) error {
	client, err := redis_repo.NewRedisClient(ctx, app.Cf.RedisAddr,
		redis_repo.WithPassword(app.Cf.RedisPassword),
		redis_repo.WithDB(app.Cf.RedisDB),
	)
	if err != nil {
		return err
	}
	app.RedisClient = client
	return nil
}

func (app *ApplicationContext) setUpRepositories(ctx context.Context) error {
	stockCache := redis_repo.NewProductRedisRepo(app.RedisClient, app.Cf.StockCacheTTL)
	app.ProductRepo = redis_decorator.NewCacheAsideProductRepo(app.Store, stockCache, app.Logger)
	app.CartRepo = redis_repo.NewCartRepo(app.RedisClient)
	return nil
}

// setUpProducer 沒有設定 broker 時不送事件
func (app *ApplicationContext) setUpProducer(ctx context.Context) error {
	if len(app.Cf.KafkaBrokers) == 0 {
		app.Logger.Warn().Msg("KAFKA_BROKERS not set, order events are dropped")
		app.Producer = producer.NopOrderEventProducer{}
		return nil
	}
	writer := producer.NewKafkaWriter(producer.WriterConfig{
		Brokers:       app.Cf.KafkaBrokers,
		Topic:         app.Cf.KafkaOrderTopic,
		RetryAttempts: 3,
	}, app.Logger)
	app.Producer = producer.NewOrderEventProducer(writer, app.Cf.KafkaOrderTopic, 3)
	return nil
}

func (app *ApplicationContext) setUpServices(ctx context.Context) error {
	logger := app.Logger
	app.StoreConfigService = service.NewStoreConfigService(app.Store, logger)
	app.CatalogService = service.NewCatalogService(app.ProductRepo, logger)
	app.StaffService = service.NewStaffService(app.Store, logger)
	app.OrderService = service.NewOrderService(app.Store, app.Producer, logger,
		service.WithStockCache(app.ProductRepo))
	app.CartService = service.NewCartService(app.CartRepo, app.ProductRepo, app.OrderService, app.StoreConfigService, logger)
	app.ReportService = service.NewReportService(app.Store, app.ProductRepo)
	app.ReceiptService = service.NewReceiptService(app.OrderService, app.StoreConfigService, time.Local)

	client := advisor.NewClient(app.Cf.AdvisorURL, app.Cf.AdvisorTimeout,
		advisor.WithAPIKey(app.Cf.AdvisorAPIKey),
		advisor.WithModel(app.Cf.AdvisorModel),
	)
	app.AdvisoryService = service.NewAdvisoryService(app.Store, app.ProductRepo, client, logger)
	return nil
}

func (app *ApplicationContext) setUpSeed(ctx context.Context) error {
	seed, err := config.LoadSeedConfig(app.Cf.SeedFile)
	if err != nil {
		return err
	}
	return service.NewSeedService(app.Store, app.Logger).SeedIfEmpty(ctx, seed)
}

func (app *ApplicationContext) setUpRateLimiters(ctx context.Context) error {
	if app.Cf.APIRatePerSecond > 0 {
		app.APILimiter = ratelimit.NewTokenBucket(ratelimit.PerSecond(app.Cf.APIRatePerSecond, app.Cf.APIRateBurst))
	}
	if app.Cf.AdvisorRatePerMinute > 0 {
		app.AdviceLimiter = ratelimit.NewRedisTokenBucket(app.RedisClient, "advice", ratelimit.PerMinute(app.Cf.AdvisorRatePerMinute))
	}
	return nil
}

// Router 組裝 handler 與路由
func (app *ApplicationContext) Router() *chi.Mux {
	server := api.NewServer(
		handler.NewProductHandler(app.CatalogService, app.Logger),
		handler.NewOrderHandler(app.OrderService, app.ReceiptService, app.Logger),
		handler.NewCartHandler(app.CartService, app.Logger),
		handler.NewStaffHandler(app.StaffService, app.Logger),
		handler.NewConfigHandler(app.StoreConfigService, app.Logger),
		handler.NewReportHandler(app.ReportService, time.Local, app.Logger),
		handler.NewAdviceHandler(app.AdvisoryService),
	)

	var limiters router.Limiters
	// nil 指標不能直接放進 interface
	if app.APILimiter != nil {
		limiters.API = app.APILimiter
	}
	if app.AdviceLimiter != nil {
		limiters.Advice = app.AdviceLimiter
	}
	return router.SetupRouter(server, limiters, app.Logger)
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	app.Logger.Info().Msg("Start application shutdown")

	done := make(chan error, 1)
	go func() {
		var errs []error

		if app.APILimiter != nil {
			app.APILimiter.Stop()
		}

		// 先停事件出口, 再關連線
		if app.Producer != nil {
			app.Logger.Info().Msg("Closing order event producer...")
			if err := app.Producer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close producer: %w", err))
			}
		}

		if app.RedisClient != nil {
			app.Logger.Info().Msg("Closing redis client...")
			if err := app.RedisClient.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close redis: %w", err))
			}
		}

		if app.DbConn != nil {
			app.Logger.Info().Msg("Closing database connection...")
			if sqlDB, err := app.DbConn.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					errs = append(errs, fmt.Errorf("close database: %w", err))
				}
			}
		}

		app.Logger.Info().Msg("Application shutdown complete")

		// log writer 最後關, 前面的 log 還要送出
		if app.LogWriter != nil {
			if err := app.LogWriter.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close log writer: %w", err))
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}

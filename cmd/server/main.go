package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	accountapp "github.com/wyfcoding/shopsystem/internal/account/application"
	accountmail "github.com/wyfcoding/shopsystem/internal/account/infrastructure/mail"
	accountmysql "github.com/wyfcoding/shopsystem/internal/account/infrastructure/persistence/mysql"
	accountredis "github.com/wyfcoding/shopsystem/internal/account/infrastructure/persistence/redis"
	accounthttp "github.com/wyfcoding/shopsystem/internal/account/interfaces/http"
	catalogapp "github.com/wyfcoding/shopsystem/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/shopsystem/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/shopsystem/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/shopsystem/internal/catalog/interfaces/http"
	customerapp "github.com/wyfcoding/shopsystem/internal/customer/application"
	customerdomain "github.com/wyfcoding/shopsystem/internal/customer/domain"
	customermysql "github.com/wyfcoding/shopsystem/internal/customer/infrastructure/persistence/mysql"
	customerhttp "github.com/wyfcoding/shopsystem/internal/customer/interfaces/http"
	merchantapp "github.com/wyfcoding/shopsystem/internal/merchant/application"
	merchantdomain "github.com/wyfcoding/shopsystem/internal/merchant/domain"
	merchantmysql "github.com/wyfcoding/shopsystem/internal/merchant/infrastructure/persistence/mysql"
	merchanthttp "github.com/wyfcoding/shopsystem/internal/merchant/interfaces/http"
	orderapp "github.com/wyfcoding/shopsystem/internal/order/application"
	orderdomain "github.com/wyfcoding/shopsystem/internal/order/domain"
	"github.com/wyfcoding/shopsystem/internal/order/infrastructure/messaging"
	orderpdf "github.com/wyfcoding/shopsystem/internal/order/infrastructure/pdf"
	ordermysql "github.com/wyfcoding/shopsystem/internal/order/infrastructure/persistence/mysql"
	"github.com/wyfcoding/shopsystem/internal/order/infrastructure/printing"
	orderhttp "github.com/wyfcoding/shopsystem/internal/order/interfaces/http"
	paymentapp "github.com/wyfcoding/shopsystem/internal/payment/application"
	paymentdomain "github.com/wyfcoding/shopsystem/internal/payment/domain"
	paymentmysql "github.com/wyfcoding/shopsystem/internal/payment/infrastructure/persistence/mysql"
	paymenthttp "github.com/wyfcoding/shopsystem/internal/payment/interfaces/http"
	purchaseapp "github.com/wyfcoding/shopsystem/internal/purchase/application"
	purchasedomain "github.com/wyfcoding/shopsystem/internal/purchase/domain"
	purchasemysql "github.com/wyfcoding/shopsystem/internal/purchase/infrastructure/persistence/mysql"
	purchasehttp "github.com/wyfcoding/shopsystem/internal/purchase/interfaces/http"
	accountdomain "github.com/wyfcoding/shopsystem/internal/account/domain"

	"github.com/wyfcoding/shopsystem/pkg/cache"
	"github.com/wyfcoding/shopsystem/pkg/config"
	"github.com/wyfcoding/shopsystem/pkg/db"
	"github.com/wyfcoding/shopsystem/pkg/logger"
	"github.com/wyfcoding/shopsystem/pkg/metrics"
	"github.com/wyfcoding/shopsystem/pkg/middleware"
	"github.com/wyfcoding/shopsystem/pkg/mq"
	"github.com/wyfcoding/shopsystem/pkg/ratelimit"
	"github.com/wyfcoding/shopsystem/pkg/security"
)

func main() {
	configPath := flag.String("config", config.GetEnv("APP_CONFIG", "configs/config.toml"), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting service",
		"service", cfg.ServiceName, "version", cfg.Version, "environment", cfg.Environment)

	// 数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&catalogdomain.Category{},
		&catalogdomain.Product{},
		&customerdomain.Customer{},
		&merchantdomain.Merchant{},
		&purchasedomain.Purchase{},
		&purchasedomain.PurchaseItem{},
		&paymentdomain.Payment{},
		&accountdomain.User{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&messaging.OutboxMessage{},
	); err != nil {
		logger.Fatal(ctx, "Failed to migrate database schema", "error", err)
	}

	// Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to Redis", "error", err)
	}
	defer redisCache.Close()

	// 指标
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New("server")
		if err := m.Register(); err != nil {
			logger.Fatal(ctx, "Failed to register metrics", "error", err)
		}
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "Failed to start metrics server", "error", err)
		}
	}

	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireHours)

	// 应用服务
	catalogSvc := catalogapp.NewCatalogService(
		catalogmysql.NewProductRepository(database.DB),
		catalogmysql.NewCategoryRepository(database.DB),
	)
	customerSvc := customerapp.NewCustomerService(customermysql.NewCustomerRepository(database.DB))
	merchantRepo := merchantmysql.NewMerchantRepository(database.DB)
	merchantSvc := merchantapp.NewMerchantService(merchantRepo)
	purchaseSvc := purchaseapp.NewPurchaseService(
		purchasemysql.NewPurchaseRepository(database.DB),
		merchantRepo,
	)
	paymentSvc := paymentapp.NewPaymentService(paymentmysql.NewPaymentRepository(database.DB))
	accountSvc := accountapp.NewAccountService(
		accountmysql.NewUserRepository(database.DB),
		accountredis.NewOTPStore(redisCache),
		accountmail.NewSMTPMailer(cfg.Mail),
		tokens,
	)

	orderRepo := ordermysql.NewOrderRepository(database.DB)
	orderSvc := orderapp.NewOrderService(
		orderRepo,
		ordermysql.NewTxManager(database, cfg.Kafka.OrderTopic, cfg.Kafka.StockTopic),
		m,
	)
	invoiceSvc := orderapp.NewInvoiceService(
		orderRepo,
		ordermysql.NewCustomerReader(database.DB),
		ordermysql.NewUserReader(database.DB),
		ordermysql.NewProductReader(database.DB),
		orderpdf.NewReceiptRenderer(cfg.Invoice.OutputDir),
		printing.NewLPPrinter(cfg.Invoice.Printer),
		cfg.Invoice,
		m,
	)

	// Outbox 中继
	relayCtx, stopRelay := context.WithCancel(ctx)
	defer stopRelay()
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "Failed to create Kafka producer", "error", err)
		}
		defer producer.Close()

		relay := messaging.NewRelay(database.DB, producer, m,
			time.Duration(cfg.Kafka.RelayInterval)*time.Second, cfg.Kafka.RelayBatchSize)
		go relay.Run(relayCtx)
	}

	// HTTP 服务
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.GinLoggingMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinCORSMiddleware(),
	)
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewRedisLimiter(redisCache.GetClient(),
			cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.Window)*time.Second)
		engine.Use(middleware.RateLimitMiddleware(limiter, cfg.RateLimit))
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})

	accountHandler := accounthttp.NewAccountHandler(accountSvc)

	public := engine.Group("/api/v1")
	accountHandler.RegisterPublicRoutes(public)

	protected := engine.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(tokens))
	accountHandler.RegisterProtectedRoutes(protected)
	cataloghttp.NewCatalogHandler(catalogSvc).RegisterRoutes(protected)
	customerhttp.NewCustomerHandler(customerSvc).RegisterRoutes(protected)
	merchanthttp.NewMerchantHandler(merchantSvc).RegisterRoutes(protected)
	purchasehttp.NewPurchaseHandler(purchaseSvc).RegisterRoutes(protected)
	paymenthttp.NewPaymentHandler(paymentSvc).RegisterRoutes(protected)
	orderhttp.NewOrderHandler(orderSvc, invoiceSvc).RegisterRoutes(protected)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info(ctx, "HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server failed", "error", err)
		}
	}()

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "Shutting down server")

	stopRelay()
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server forced to shutdown", "error", err)
	}
	logger.Info(ctx, "Server exited")
}

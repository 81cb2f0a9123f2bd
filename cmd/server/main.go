package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/findash/backend/docs"
	financeapp "github.com/findash/backend/internal/application/finance"
	identityapp "github.com/findash/backend/internal/application/identity"
	"github.com/findash/backend/internal/infrastructure/auth"
	"github.com/findash/backend/internal/infrastructure/cache"
	"github.com/findash/backend/internal/infrastructure/config"
	"github.com/findash/backend/internal/infrastructure/logger"
	"github.com/findash/backend/internal/infrastructure/persistence"
	"github.com/findash/backend/internal/infrastructure/telemetry"
	"github.com/findash/backend/internal/interfaces/http/handler"
	"github.com/findash/backend/internal/interfaces/http/middleware"
	"github.com/findash/backend/internal/interfaces/http/router"
	"github.com/findash/backend/internal/interfaces/web"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			FinDash API
//	@version		1.0
//	@description	Role-gated finance dashboard: budgets, cash requests and expenses.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting FinDash backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	logsProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logsProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metric export", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	exportLevel, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		exportLevel = zapcore.InfoLevel
	}
	log = logsProvider.Bridge(log, exportLevel)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.GormMode))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:          cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		IncludeVariables: cfg.Telemetry.DBTraceVariables,
		DBName:           cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if sqlDB, err := db.DB.DB(); err == nil {
		poolMetrics, err := telemetry.RegisterDBPoolMetrics(meterProvider.Meter("db"), sqlDB.Stats)
		if err != nil {
			log.Fatal("Failed to register database pool metrics", zap.Error(err))
		}
		defer func() { _ = poolMetrics.Unregister() }()
	}

	// Production refuses to start without Redis: revocations must be shared
	stores, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).Create()
	if err != nil {
		log.Fatal("Failed to initialize session stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()

	// Repositories
	userDirectory := persistence.NewGormUserDirectory(db.DB)
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)
	cashRequestRepo := persistence.NewGormCashRequestRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userDirectory, jwtService, stores.Blacklist, stores.ResetTokens,
		identityapp.AuthServiceConfig{ResetTokenTTL: cfg.Auth.ResetTokenTTL, BaseURL: cfg.App.BaseURL}, log)
	userService := identityapp.NewUserService(userDirectory, stores.Blacklist, cfg.JWT.AccessTokenExpiration, log)
	budgetService := financeapp.NewBudgetService(budgetRepo, log)
	cashRequestService := financeapp.NewCashRequestService(cashRequestRepo, budgetRepo, txScope, log)
	expenseService := financeapp.NewExpenseService(expenseRepo, budgetRepo, log)
	dashboardService := financeapp.NewDashboardService(budgetRepo, cashRequestRepo, expenseRepo, log)

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, db)
	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService, cfg.Cookie),
		Budget:      handler.NewBudgetHandler(budgetService),
		CashRequest: handler.NewCashRequestHandler(cashRequestService),
		Expense:     handler.NewExpenseHandler(expenseService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		User:        handler.NewUserHandler(userService),
		System:      systemHandler,
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order:
	// 1. RequestID - generate/propagate request ID
	// 2. Recovery - catch panics
	// 3. Logger - log requests
	// 4. Tracing - request spans
	// 5. Security - security headers and CSP
	// 6. CORS - cross-origin requests
	// 7. BodyLimit - bound request bodies
	// 8. Authenticate - resolve the session principal
	// 9. Metrics - request counts and latency by route and role
	// 10. Span tagging and error marking
	// 11. RateLimit - global rate limiting (if enabled)
	tracingConfig := middleware.DefaultTracingConfig()
	tracingConfig.Enabled = cfg.Telemetry.Enabled
	if cfg.Telemetry.ServiceName != "" {
		tracingConfig.ServiceName = cfg.Telemetry.ServiceName
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(tracingConfig))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Authenticate(middleware.AuthConfig{
		Resolver:   authService,
		CookieName: cfg.Cookie.Name,
		Logger:     log,
	}))
	engine.Use(middleware.HTTPMetrics(meterProvider.Meter("http.server")))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	defer authLimiter.Stop()

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	for _, group := range router.APIGroups(handlers, router.APIOptions{Logger: log, AuthLimiter: authLimiter}) {
		r.Register(group)
	}
	r.Setup()
	router.RegisterProbes(engine, systemHandler)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, middleware.RequireAuth()),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	pages, err := web.NewPages(web.Deps{
		Auth:         authService,
		Users:        userService,
		Budgets:      budgetService,
		CashRequests: cashRequestService,
		Expenses:     expenseService,
		Dashboard:    dashboardService,
		Cookie:       cfg.Cookie,
		AppName:      cfg.App.Name,
		APIBase:      r.BasePath(),
		Logger:       log,
	})
	if err != nil {
		log.Fatal("Failed to load page templates", zap.Error(err))
	}
	if err := pages.Register(engine); err != nil {
		log.Fatal("Failed to register pages", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

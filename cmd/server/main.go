package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "trust_feed/internal/domain/common"
	_ "trust_feed/internal/domain/notification"
	_ "trust_feed/internal/domain/post"
	_ "trust_feed/internal/domain/profile"
	_ "trust_feed/internal/domain/report"
	"trust_feed/internal/pkg/config"
	"trust_feed/internal/pkg/lock"
	"trust_feed/internal/pkg/middleware"
	"trust_feed/internal/pkg/oracle"
	"trust_feed/internal/pkg/registry"
	"trust_feed/pkg/cache"
	"trust_feed/pkg/database"
	"trust_feed/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// @title Trust Feed API
// @version 1.0
// @description 带信任分与自动审核的社交动态服务
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadConfig()
	cfg := config.GlobalConfig

	if err := logger.Init(cfg.App.Env, cfg.App.Debug); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDatabase(cfg.Database, cfg.App.Debug)
	if err != nil {
		return err
	}
	rdb, err := database.InitRedis(cfg.Redis)
	if err != nil {
		return err
	}

	o, err := newOracle(ctx, cfg.Oracle)
	if err != nil {
		return err
	}

	var store cache.CacheService
	if rdb != nil {
		store = cache.NewRedisCache(rdb, cfg.App.Env)
	} else {
		store = cache.NewMemoryCache(1024, cfg.Moderation.RankingCacheTTL)
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(rate.Limit(20), 40)),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	if err := registry.InitModules(&registry.ModuleContext{
		DB:     db,
		Redis:  rdb,
		Router: r,
		Oracle: o,
		Cache:  store,
		Locker: lock.New(rdb),
		Config: cfg,
	}); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newOracle 按配置选择分类服务，并包上超时、限流与重试
func newOracle(ctx context.Context, cfg config.OracleConfig) (oracle.ClassificationOracle, error) {
	var next oracle.ClassificationOracle
	switch cfg.Provider {
	case "gemini":
		g, err := oracle.NewGeminiOracle(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		next = g
	case "openai":
		// 重试统一由 Guard 负责，单次分类最多请求 1+MaxRetries 次
		next = oracle.NewOpenAIOracle(oracle.OpenAIConfig{
			BaseURL:    cfg.BaseURL,
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			MaxRetries: 0,
			RetryWait:  cfg.RetryWait,
		}, logger.Log)
	case "static":
		next = oracle.NewStaticOracle()
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Provider)
	}

	logger.Log.Info("classification oracle ready", zap.String("provider", cfg.Provider), zap.String("model", cfg.Model))
	return oracle.NewGuard(next, oracle.GuardConfig{
		Timeout:           cfg.Timeout,
		MaxRetries:        cfg.MaxRetries,
		RetryWait:         cfg.RetryWait,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}), nil
}

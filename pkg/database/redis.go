package database

import (
	"context"
	"fmt"
	"time"
	"trust_feed/internal/pkg/config"
	"trust_feed/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InitRedis 初始化 Redis 连接；未配置地址时返回 nil
func InitRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		logger.Log.Info("redis disabled, falling back to in-process lock and cache")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		// 连接池配置
		PoolSize:     50,
		MinIdleConns: 10,
		MaxRetries:   3,
		DialTimeout:  time.Second * 5,
		ReadTimeout:  time.Second * 3,
		WriteTimeout: time.Second * 3,
		PoolTimeout:  time.Second * 4,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Log.Info("redis connection established", zap.String("addr", cfg.Addr))
	return rdb, nil
}

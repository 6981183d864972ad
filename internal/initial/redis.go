package initial

import (
	"context"
	"fmt"
	"time"

	"GroupLink/internal/config"
	"GroupLink/pkg/redis"
	"GroupLink/pkg/zlog"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InitRedis 未配置主机时跳过，连接失败返回错误
func InitRedis(conf config.RedisConfig) error {
	if conf.Host == "" {
		zlog.Info("Redis 未配置，跳过初始化")
		return nil
	}

	port := conf.Port
	if port == 0 {
		port = 6379
	}
	addr := fmt.Sprintf("%s:%d", conf.Host, port)

	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     conf.Password,
		DB:           conf.DB,
		PoolSize:     conf.PoolSize,
		MinIdleConns: conf.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis 连接失败: %w", err)
	}

	redis.SetClient(client)
	zlog.Info("Redis 连接成功", zap.String("addr", addr))
	return nil
}

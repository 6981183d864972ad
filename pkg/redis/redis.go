package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// SetClient 设置 Redis 客户端（由 internal/initial 调用）
func SetClient(c *redis.Client) {
	client = c
}

// Close 关闭 Redis 连接
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

// IsConnected 检查 Redis 是否已连接
func IsConnected() bool {
	return client != nil
}

// GetClient 获取原始 Redis 客户端
func GetClient() *redis.Client {
	return client
}

// Ping 健康检查用
func Ping(ctx context.Context) error {
	if client == nil {
		return fmt.Errorf("Redis 未连接")
	}
	return client.Ping(ctx).Err()
}

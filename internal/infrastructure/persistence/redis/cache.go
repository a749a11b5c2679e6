// Package redis 提供 Redis 缓存实现
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"eduforge-api/pkg/metrics"
)

var cacheTracer = otel.Tracer("redis.cache")

// Cache JSON 缓存服务
type Cache struct {
	client *Client
	group  singleflight.Group
}

// NewCache 创建缓存服务
func NewCache(client *Client) *Cache {
	return &Cache{client: client}
}

// GetJSON 读取并反序列化，未命中返回 (false, nil)
func (c *Cache) GetJSON(ctx context.Context, kind, key string, dst any) (bool, error) {
	ctx, span := cacheTracer.Start(ctx, "cache.GetJSON",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	val, err := c.client.rdb.Get(ctx, key).Bytes()
	switch {
	case IsNil(err):
		metrics.CacheRequestsTotal.WithLabelValues(kind, "miss").Inc()
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return false, nil
	case err != nil:
		metrics.CacheRequestsTotal.WithLabelValues(kind, "error").Inc()
		span.RecordError(err)
		return false, err
	}

	if err := json.Unmarshal(val, dst); err != nil {
		metrics.CacheRequestsTotal.WithLabelValues(kind, "error").Inc()
		span.RecordError(err)
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	metrics.CacheRequestsTotal.WithLabelValues(kind, "hit").Inc()
	span.SetAttributes(attribute.Bool("cache.hit", true))
	return true, nil
}

// SetJSON 序列化后写入
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	ctx, span := cacheTracer.Start(ctx, "cache.SetJSON",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.Int64("cache.ttl_ms", ttl.Milliseconds()),
		))
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := c.client.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// GetOrLoad Read-Through 读取，singleflight 合并同一键的并发加载
// loader 返回 nil 时不写缓存
func (c *Cache) GetOrLoad(ctx context.Context, kind, key string, ttl time.Duration, dst any, loader func(ctx context.Context) (any, error)) (bool, error) {
	ctx, span := cacheTracer.Start(ctx, "cache.GetOrLoad",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	if hit, err := c.GetJSON(ctx, kind, key, dst); err == nil && hit {
		return true, nil
	}

	result, err, shared := c.group.Do(key, func() (any, error) {
		v, err := loader(ctx)
		if err != nil || v == nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal value: %w", err)
		}
		// 写缓存失败不影响返回结果
		if setErr := c.client.rdb.Set(ctx, key, data, ttl).Err(); setErr != nil {
			span.RecordError(setErr)
		}
		return data, nil
	})
	span.SetAttributes(attribute.Bool("cache.shared", shared))
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if result == nil {
		return false, nil
	}

	if err := json.Unmarshal(result.([]byte), dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal loaded value: %w", err)
	}
	return true, nil
}

// Delete 删除缓存
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	ctx, span := cacheTracer.Start(ctx, "cache.Delete",
		trace.WithAttributes(attribute.Int("cache.key_count", len(keys))))
	defer span.End()

	if err := c.client.rdb.Del(ctx, keys...).Err(); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

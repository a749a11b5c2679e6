// Package wire 提供依赖注入配置
package wire

import (
	"eduforge-api/internal/application/progress"
	"eduforge-api/internal/application/wizard"
	"eduforge-api/internal/config"
	"eduforge-api/internal/domain/entity"
	"eduforge-api/internal/domain/repository"
	"eduforge-api/internal/infrastructure/messaging"
	"eduforge-api/internal/infrastructure/persistence/postgres"
	"eduforge-api/internal/infrastructure/persistence/redis"
	"eduforge-api/internal/interfaces/http/handler"
)

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideProjectRepository 项目仓储，配置了 project_ttl 时叠加 Redis 缓存
func ProvideProjectRepository(repo *postgres.ProjectRepository, cache *redis.Cache, cfg *config.Config) repository.ProjectRepository {
	return redis.NewCachedProjectRepository(repo, cache, cfg.Cache.ProjectTTL)
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

// ProvideEventPublisher 流水线事件发布者，Stream 关闭时返回 nil
func ProvideEventPublisher(producer *messaging.Producer, cfg *config.Config) repository.EventPublisher {
	if !cfg.Messaging.RedisStream.Enabled || producer == nil {
		return nil
	}
	return producer
}

// ProvideResolver 提供阶段进度推导器
func ProvideResolver() *progress.Resolver {
	return progress.NewResolver(entity.PipelineStages())
}

// ProvideNavigator 提供向导状态机
func ProvideNavigator() *wizard.Navigator {
	return wizard.NewNavigator(entity.WizardSteps())
}

// ProvideProjectFeed 提供仪表盘项目快照
func ProvideProjectFeed(repo repository.ProjectRepository, cfg *config.Config) *progress.ProjectFeed {
	f := cfg.Features.ProjectFeed
	return progress.NewProjectFeed(repo, progress.FeedConfig{
		TTL:            f.TTL,
		RefreshTimeout: f.RefreshTimeout,
		PageSize:       f.PageSize,
	})
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, redisClient *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, pg, redisClient)
}

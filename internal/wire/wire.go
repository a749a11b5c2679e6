//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"eduforge-api/internal/application/wizard"
	"eduforge-api/internal/config"
	"eduforge-api/internal/domain/repository"
	"eduforge-api/internal/infrastructure/persistence/postgres"
	"eduforge-api/internal/infrastructure/persistence/redis"
	"eduforge-api/internal/interfaces/http/handler"
	"eduforge-api/internal/interfaces/http/middleware"
	"eduforge-api/internal/interfaces/http/router"
)

// InitializeApp 初始化 API 网关（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		ApplicationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializePostgresOnly 仅初始化 PostgreSQL（用于 bootstrap migrate）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*postgres.Client, func(), error) {
	wire.Build(
		ProvidePostgresClient,
	)
	return nil, nil, nil
}

// InitializeRedisOnly 仅初始化 Redis（用于 bootstrap events）
func InitializeRedisOnly(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	wire.Build(
		ProvideRedisClient,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewProjectRepository,
	postgres.NewWizardSessionRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	ProvideProjectRepository,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.WizardSessionRepository), new(*postgres.WizardSessionRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	ProvideEventPublisher,
)

// ApplicationSet 应用层提供者集合
var ApplicationSet = wire.NewSet(
	ProvideResolver,
	ProvideNavigator,
	ProvideProjectFeed,
	wizard.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewCatalogHandler,
	handler.NewProjectHandler,
	handler.NewProgressHandler,
	handler.NewWizardHandler,
	handler.NewDashboardHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

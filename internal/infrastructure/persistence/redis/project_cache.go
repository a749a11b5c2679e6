// Package redis 提供 Redis 缓存实现
package redis

import (
	"context"
	"fmt"
	"time"

	"eduforge-api/internal/domain/entity"
	"eduforge-api/internal/domain/repository"
	"eduforge-api/pkg/logger"
)

const projectCacheKind = "project"

// CachedProjectRepository 为 GetByID 加一层 Redis 缓存
// 事务内的读取直接穿透到底层仓储
type CachedProjectRepository struct {
	repository.ProjectRepository
	cache *Cache
	ttl   time.Duration
}

var _ repository.ProjectRepository = (*CachedProjectRepository)(nil)

// NewCachedProjectRepository 创建带缓存的项目仓储，ttl<=0 时返回原仓储
func NewCachedProjectRepository(inner repository.ProjectRepository, cache *Cache, ttl time.Duration) repository.ProjectRepository {
	if ttl <= 0 || cache == nil {
		return inner
	}
	return &CachedProjectRepository{ProjectRepository: inner, cache: cache, ttl: ttl}
}

// ProjectKey 项目缓存键
func ProjectKey(id string) string {
	return fmt.Sprintf("project:%s", id)
}

func (r *CachedProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	if inTx(ctx) {
		return r.ProjectRepository.GetByID(ctx, id)
	}

	var project entity.Project
	found, err := r.cache.GetOrLoad(ctx, projectCacheKind, ProjectKey(id), r.ttl, &project, func(ctx context.Context) (any, error) {
		p, err := r.ProjectRepository.GetByID(ctx, id)
		if err != nil || p == nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &project, nil
}

func (r *CachedProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	if err := r.ProjectRepository.Update(ctx, project); err != nil {
		return err
	}
	r.invalidate(ctx, project.ID)
	return nil
}

func (r *CachedProjectRepository) Delete(ctx context.Context, id string) error {
	if err := r.ProjectRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedProjectRepository) UpdatePipelineStatus(ctx context.Context, id string, stage entity.StageID, completion float64) error {
	if err := r.ProjectRepository.UpdatePipelineStatus(ctx, id, stage, completion); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// invalidate 删除缓存键；事务内的写入在提交后才删除
func (r *CachedProjectRepository) invalidate(ctx context.Context, id string) {
	repository.AfterCommit(ctx, func(ctx context.Context) {
		if err := r.cache.Delete(ctx, ProjectKey(id)); err != nil {
			logger.Warn(ctx, "failed to invalidate project cache", "project_id", id, "error", err.Error())
		}
	})
}

func inTx(ctx context.Context) bool {
	return ctx.Value(repository.TxKey{}) != nil
}

package progress

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"eduforge-api/internal/domain/entity"
	"eduforge-api/internal/domain/repository"
	"eduforge-api/pkg/logger"
	"eduforge-api/pkg/metrics"
	"eduforge-api/pkg/tracer"
)

// FeedConfig 项目列表快照配置
type FeedConfig struct {
	TTL            time.Duration
	RefreshTimeout time.Duration
	PageSize       int
}

// ProjectSnapshot 某一时刻的项目列表
// Loading 为 true 时列表可能过期或为空，后台正在刷新
type ProjectSnapshot struct {
	Projects    []*entity.Project
	Loading     bool
	Err         error
	RefreshedAt time.Time
}

type feedEntry struct {
	projects    []*entity.Project
	err         error
	refreshedAt time.Time
}

// ProjectFeed 按租户和用户缓存项目列表，过期后在后台刷新
type ProjectFeed struct {
	repo repository.ProjectRepository
	cfg  FeedConfig

	mu      sync.RWMutex
	entries map[string]*feedEntry
	// gens 每次 Invalidate 递增，加载期间变化的结果不写入
	gens  map[string]uint64
	group singleflight.Group

	now func() time.Time
}

// NewProjectFeed 创建项目列表源
func NewProjectFeed(repo repository.ProjectRepository, cfg FeedConfig) *ProjectFeed {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = 5 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	return &ProjectFeed{
		repo:    repo,
		cfg:     cfg,
		entries: make(map[string]*feedEntry),
		gens:    make(map[string]uint64),
		now:     time.Now,
	}
}

// Snapshot 返回最近一次加载的列表，缺失或过期时触发后台刷新
func (f *ProjectFeed) Snapshot(ctx context.Context, tenantID, ownerID string) ProjectSnapshot {
	key := feedKey(tenantID, ownerID)

	f.mu.RLock()
	entry := f.entries[key]
	f.mu.RUnlock()

	if entry != nil && f.now().Sub(entry.refreshedAt) < f.cfg.TTL {
		return entry.snapshot(false)
	}

	bgCtx := context.WithoutCancel(ctx)
	f.group.DoChan(key, func() (any, error) {
		return nil, f.load(bgCtx, tenantID, ownerID)
	})

	if entry == nil {
		return ProjectSnapshot{Projects: []*entity.Project{}, Loading: true}
	}
	return entry.snapshot(true)
}

// Refresh 同步加载列表
func (f *ProjectFeed) Refresh(ctx context.Context, tenantID, ownerID string) (ProjectSnapshot, error) {
	key := feedKey(tenantID, ownerID)
	_, err, _ := f.group.Do(key, func() (any, error) {
		return nil, f.load(ctx, tenantID, ownerID)
	})

	f.mu.RLock()
	entry := f.entries[key]
	f.mu.RUnlock()
	if entry == nil {
		return ProjectSnapshot{Projects: []*entity.Project{}, Err: err}, err
	}
	return entry.snapshot(false), err
}

// Invalidate 丢弃租户下所有快照
func (f *ProjectFeed) Invalidate(tenantID string) {
	prefix := tenantID + "/"
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gens[tenantID]++
	for k := range f.entries {
		if strings.HasPrefix(k, prefix) {
			delete(f.entries, k)
		}
	}
}

// maxLoadAttempts 加载期间被 Invalidate 时的最大重读次数
const maxLoadAttempts = 3

// load 读取首页项目列表并写入快照；失败时保留上次的列表
// 读取期间租户被 Invalidate 时重新读取，不写入过期结果
func (f *ProjectFeed) load(ctx context.Context, tenantID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.RefreshTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "progress.ProjectFeed.load")
	defer span.End()

	key := feedKey(tenantID, ownerID)
	for attempt := 1; ; attempt++ {
		f.mu.RLock()
		gen := f.gens[tenantID]
		f.mu.RUnlock()

		start := f.now()
		result, err := f.repo.List(ctx, &repository.ProjectFilter{TenantID: tenantID, OwnerID: ownerID}, repository.NewPagination(1, f.cfg.PageSize))
		metrics.ProjectFeedRefreshDuration.Observe(time.Since(start).Seconds())

		f.mu.Lock()
		superseded := f.gens[tenantID] != gen
		if superseded && attempt < maxLoadAttempts {
			f.mu.Unlock()
			metrics.ProjectFeedRefreshTotal.WithLabelValues("superseded").Inc()
			continue
		}
		// 重读次数用尽仍被 Invalidate 时写入已过期的快照
		refreshedAt := f.now()
		if superseded {
			refreshedAt = time.Time{}
		}

		prev := f.entries[key]
		if err != nil {
			span.RecordError(err)
			metrics.ProjectFeedRefreshTotal.WithLabelValues("error").Inc()
			logger.Error(ctx, "failed to refresh project feed", err, "owner_id", ownerID)
			entry := &feedEntry{projects: []*entity.Project{}, err: err, refreshedAt: refreshedAt}
			if prev != nil {
				entry.projects = prev.projects
			}
			f.entries[key] = entry
			f.mu.Unlock()
			return err
		}

		metrics.ProjectFeedRefreshTotal.WithLabelValues("success").Inc()
		items := result.Items
		if items == nil {
			items = []*entity.Project{}
		}
		f.entries[key] = &feedEntry{projects: items, refreshedAt: refreshedAt}
		f.mu.Unlock()
		return nil
	}
}

func (e *feedEntry) snapshot(loading bool) ProjectSnapshot {
	projects := make([]*entity.Project, len(e.projects))
	copy(projects, e.projects)
	return ProjectSnapshot{
		Projects:    projects,
		Loading:     loading,
		Err:         e.err,
		RefreshedAt: e.refreshedAt,
	}
}

func feedKey(tenantID, ownerID string) string {
	return tenantID + "/" + ownerID
}

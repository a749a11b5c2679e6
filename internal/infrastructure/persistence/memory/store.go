// Package memory 提供仓储接口的内存实现，供测试使用
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"eduforge-api/internal/domain/entity"
	"eduforge-api/internal/domain/repository"
)

// Store 内存数据集
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	projects map[string]*entity.Project
	sessions map[string]*entity.WizardSession
}

// NewStore 创建内存数据集
func NewStore() *Store {
	return &Store{
		projects: make(map[string]*entity.Project),
		sessions: make(map[string]*entity.WizardSession),
	}
}

// WithTransaction 串行执行 fn，不支持回滚；fn 成功后执行提交回调
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(repository.TxKey{}).(*Store); ok {
		return fn(ctx)
	}
	txCtx, hooks := repository.WithCommitHooks(context.WithValue(ctx, repository.TxKey{}, s))
	err := func() error {
		s.txMu.Lock()
		defer s.txMu.Unlock()
		return fn(txCtx)
	}()
	if err != nil {
		return err
	}
	hooks.Run(ctx)
	return nil
}

// Projects 返回项目仓储
func (s *Store) Projects() *ProjectRepository {
	return &ProjectRepository{store: s}
}

// WizardSessions 返回向导会话仓储
func (s *Store) WizardSessions() *WizardSessionRepository {
	return &WizardSessionRepository{store: s}
}

// ProjectRepository 内存项目仓储
type ProjectRepository struct {
	store *Store
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)

// Create 保存项目，ID 为空时生成
func (r *ProjectRepository) Create(_ context.Context, p *entity.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.store.projects[p.ID] = cloneProject(p)
	return nil
}

// GetByID 获取项目，不存在返回 (nil, nil)
func (r *ProjectRepository) GetByID(_ context.Context, id string) (*entity.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.projects[id]
	if !ok {
		return nil, nil
	}
	return cloneProject(p), nil
}

// Update 覆盖保存项目
func (r *ProjectRepository) Update(_ context.Context, p *entity.Project) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p.UpdatedAt = time.Now()
	r.store.projects[p.ID] = cloneProject(p)
	return nil
}

// Delete 删除项目
func (r *ProjectRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.projects, id)
	return nil
}

// List 按过滤条件分页，按更新时间倒序
func (r *ProjectRepository) List(_ context.Context, filter *repository.ProjectFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var items []*entity.Project
	for _, p := range r.store.projects {
		if filter != nil {
			if filter.TenantID != "" && p.TenantID != filter.TenantID {
				continue
			}
			if filter.OwnerID != "" && p.OwnerID != filter.OwnerID {
				continue
			}
			if filter.PipelineStatus != "" && p.PipelineStatus != filter.PipelineStatus {
				continue
			}
		}
		items = append(items, cloneProject(p))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})

	total := int64(len(items))
	start := min(pagination.Offset(), len(items))
	end := min(start+pagination.Limit(), len(items))
	return repository.NewPagedResult(items[start:end], total, pagination), nil
}

// UpdatePipelineStatus 更新流水线阶段和完成度，项目不存在时忽略
func (r *ProjectRepository) UpdatePipelineStatus(_ context.Context, id string, stage entity.StageID, completion float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.projects[id]
	if !ok {
		return nil
	}
	p.SetPipelineProgress(stage, completion)
	return nil
}

// WizardSessionRepository 内存向导会话仓储
type WizardSessionRepository struct {
	store *Store
}

var _ repository.WizardSessionRepository = (*WizardSessionRepository)(nil)

// Create 保存会话，ID 为空时生成
func (r *WizardSessionRepository) Create(_ context.Context, s *entity.WizardSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	r.store.sessions[s.ID] = cloneSession(s)
	return nil
}

// GetByID 获取会话，不存在返回 (nil, nil)
func (r *WizardSessionRepository) GetByID(_ context.Context, id string) (*entity.WizardSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	s, ok := r.store.sessions[id]
	if !ok {
		return nil, nil
	}
	return cloneSession(s), nil
}

// GetByIDForUpdate 事务由 Store 串行化，直接读取
func (r *WizardSessionRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.WizardSession, error) {
	return r.GetByID(ctx, id)
}

// Update 覆盖保存会话
func (r *WizardSessionRepository) Update(_ context.Context, s *entity.WizardSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s.UpdatedAt = time.Now()
	r.store.sessions[s.ID] = cloneSession(s)
	return nil
}

// Publisher 记录已发布事件
type Publisher struct {
	mu     sync.Mutex
	events []*entity.PipelineEvent
	// Err 非空时发布失败
	Err error
}

var _ repository.EventPublisher = (*Publisher)(nil)

// PublishPipelineEvent 记录事件，Err 非空时返回该错误
func (p *Publisher) PublishPipelineEvent(_ context.Context, event *entity.PipelineEvent) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return "", p.Err
	}
	p.events = append(p.events, event)
	return uuid.NewString(), nil
}

// Events 返回已发布事件副本
func (p *Publisher) Events() []*entity.PipelineEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*entity.PipelineEvent, len(p.events))
	copy(out, p.events)
	return out
}

func cloneProject(p *entity.Project) *entity.Project {
	cp := *p
	cp.Configuration = p.Configuration.Clone()
	return &cp
}

func cloneSession(s *entity.WizardSession) *entity.WizardSession {
	cp := *s
	cp.FormData = s.FormData.Clone()
	cp.VisitedSteps = append(pq.StringArray(nil), s.VisitedSteps...)
	if s.ProjectID != nil {
		pid := *s.ProjectID
		cp.ProjectID = &pid
	}
	return &cp
}

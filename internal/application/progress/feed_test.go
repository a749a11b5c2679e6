package progress

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduforge-api/internal/domain/entity"
	"eduforge-api/internal/domain/repository"
	"eduforge-api/internal/infrastructure/persistence/memory"
)

// countingRepo 统计 List 调用次数，可注入错误或阻塞
type countingRepo struct {
	repository.ProjectRepository
	calls   atomic.Int32
	err     error
	release chan struct{}
}

func (r *countingRepo) List(ctx context.Context, filter *repository.ProjectFilter, p repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	r.calls.Add(1)
	if r.release != nil {
		<-r.release
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.ProjectRepository.List(ctx, filter, p)
}

// readThenBlockRepo 首次 List 先读出结果再阻塞，模拟读取与写入并发
type readThenBlockRepo struct {
	repository.ProjectRepository
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (r *readThenBlockRepo) List(ctx context.Context, filter *repository.ProjectFilter, p repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	result, err := r.ProjectRepository.List(ctx, filter, p)
	r.once.Do(func() {
		close(r.read)
		<-r.release
	})
	return result, err
}

func seedProjects(t *testing.T, store *memory.Store, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, store.Projects().Create(context.Background(), entity.NewProjectFromWizard("t1", "u1", nil)))
	}
}

func TestProjectFeed_FirstSnapshotIsLoading(t *testing.T) {
	store := memory.NewStore()
	seedProjects(t, store, 2)
	feed := NewProjectFeed(store.Projects(), FeedConfig{TTL: time.Minute})

	snap := feed.Snapshot(context.Background(), "t1", "u1")
	assert.True(t, snap.Loading)
	assert.Empty(t, snap.Projects)

	assert.Eventually(t, func() bool {
		s := feed.Snapshot(context.Background(), "t1", "u1")
		return !s.Loading && len(s.Projects) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestProjectFeed_RefreshIsSynchronous(t *testing.T) {
	store := memory.NewStore()
	seedProjects(t, store, 3)
	feed := NewProjectFeed(store.Projects(), FeedConfig{TTL: time.Minute})

	snap, err := feed.Refresh(context.Background(), "t1", "u1")

	require.NoError(t, err)
	assert.False(t, snap.Loading)
	assert.Len(t, snap.Projects, 3)
	assert.False(t, feed.Snapshot(context.Background(), "t1", "u1").Loading)
}

func TestProjectFeed_StaleEntryServedWhileRefreshing(t *testing.T) {
	store := memory.NewStore()
	seedProjects(t, store, 1)
	repo := &countingRepo{ProjectRepository: store.Projects()}
	feed := NewProjectFeed(repo, FeedConfig{TTL: time.Minute})

	_, err := feed.Refresh(context.Background(), "t1", "u1")
	require.NoError(t, err)

	now := time.Now()
	feed.now = func() time.Time { return now.Add(2 * time.Minute) }
	repo.release = make(chan struct{})

	snap := feed.Snapshot(context.Background(), "t1", "u1")
	assert.True(t, snap.Loading)
	assert.Len(t, snap.Projects, 1, "previous list is kept while loading")

	// 刷新进行中，重复请求不会触发新的加载
	feed.Snapshot(context.Background(), "t1", "u1")
	close(repo.release)

	assert.Eventually(t, func() bool {
		return !feed.Snapshot(context.Background(), "t1", "u1").Loading
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), repo.calls.Load())
}

func TestProjectFeed_ErrorKeepsPreviousProjects(t *testing.T) {
	store := memory.NewStore()
	seedProjects(t, store, 2)
	repo := &countingRepo{ProjectRepository: store.Projects()}
	feed := NewProjectFeed(repo, FeedConfig{TTL: time.Minute})

	_, err := feed.Refresh(context.Background(), "t1", "u1")
	require.NoError(t, err)

	repo.err = errors.New("db down")
	snap, err := feed.Refresh(context.Background(), "t1", "u1")

	assert.Error(t, err)
	assert.Len(t, snap.Projects, 2)
	assert.Error(t, snap.Err)
}

func TestProjectFeed_Invalidate(t *testing.T) {
	store := memory.NewStore()
	seedProjects(t, store, 1)
	feed := NewProjectFeed(store.Projects(), FeedConfig{TTL: time.Minute})

	_, err := feed.Refresh(context.Background(), "t1", "u1")
	require.NoError(t, err)

	feed.Invalidate("t1")

	assert.True(t, feed.Snapshot(context.Background(), "t1", "u1").Loading)
}

func TestProjectFeed_ScopedByTenant(t *testing.T) {
	store := memory.NewStore()
	seedProjects(t, store, 2)
	feed := NewProjectFeed(store.Projects(), FeedConfig{TTL: time.Minute})

	snap, err := feed.Refresh(context.Background(), "t2", "u1")

	require.NoError(t, err)
	assert.Empty(t, snap.Projects)
}

func TestProjectFeed_InvalidateDuringLoadDropsStaleRows(t *testing.T) {
	store := memory.NewStore()
	repo := &readThenBlockRepo{
		ProjectRepository: store.Projects(),
		read:              make(chan struct{}),
		release:           make(chan struct{}),
	}
	feed := NewProjectFeed(repo, FeedConfig{TTL: time.Minute})
	ctx := context.Background()

	assert.True(t, feed.Snapshot(ctx, "t1", "u1").Loading)
	<-repo.read

	require.NoError(t, store.Projects().Create(ctx, entity.NewProjectFromWizard("t1", "u1", nil)))
	feed.Invalidate("t1")
	close(repo.release)

	assert.Eventually(t, func() bool {
		s := feed.Snapshot(ctx, "t1", "u1")
		return !s.Loading && len(s.Projects) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestProjectFeed_InvalidateOtherTenantKeepsLoad(t *testing.T) {
	store := memory.NewStore()
	seedProjects(t, store, 1)
	repo := &countingRepo{ProjectRepository: store.Projects()}
	feed := NewProjectFeed(repo, FeedConfig{TTL: time.Minute})

	feed.Invalidate("t2")
	snap, err := feed.Refresh(context.Background(), "t1", "u1")

	require.NoError(t, err)
	assert.Len(t, snap.Projects, 1)
	assert.Equal(t, int32(1), repo.calls.Load())
}

package redis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduforge-api/internal/domain/entity"
	"eduforge-api/internal/domain/repository"
	"eduforge-api/internal/infrastructure/persistence/memory"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return Wrap(rdb), s
}

type countingProjects struct {
	repository.ProjectRepository
	gets atomic.Int32
}

func (c *countingProjects) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	c.gets.Add(1)
	return c.ProjectRepository.GetByID(ctx, id)
}

func TestHealthCheck(t *testing.T) {
	client, _ := newTestClient(t)

	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestCache_SetAndGetJSON(t *testing.T) {
	client, _ := newTestClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	var got map[string]string
	hit, err := cache.GetJSON(ctx, "test", "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.SetJSON(ctx, "k", map[string]string{"a": "b"}, time.Minute))

	hit, err = cache.GetJSON(ctx, "test", "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "b", got["a"])
}

func TestCache_GetOrLoadSkipsNil(t *testing.T) {
	client, s := newTestClient(t)
	cache := NewCache(client)

	var dst map[string]int
	found, err := cache.GetOrLoad(context.Background(), "test", "missing", time.Minute, &dst, func(context.Context) (any, error) {
		return nil, nil
	})

	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, s.Exists("missing"))
}

func TestCachedProjectRepository_CachesAndInvalidates(t *testing.T) {
	client, s := newTestClient(t)
	store := memory.NewStore()
	inner := &countingProjects{ProjectRepository: store.Projects()}
	repo := NewCachedProjectRepository(inner, NewCache(client), time.Minute)
	ctx := context.Background()

	p := entity.NewProjectFromWizard("t1", "u1", entity.WizardFormData{entity.FieldTitle: "Cells"})
	require.NoError(t, repo.Create(ctx, p))

	for i := 0; i < 3; i++ {
		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Cells", got.Title)
	}
	assert.Equal(t, int32(1), inner.gets.Load())
	assert.True(t, s.Exists(ProjectKey(p.ID)))

	require.NoError(t, repo.UpdatePipelineStatus(ctx, p.ID, entity.StageRefinement, 80))
	assert.False(t, s.Exists(ProjectKey(p.ID)))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StageRefinement, got.PipelineStatus)
	assert.Equal(t, int32(2), inner.gets.Load())
}

func TestCachedProjectRepository_MissingProject(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewCachedProjectRepository(memory.NewStore().Projects(), NewCache(client), time.Minute)

	got, err := repo.GetByID(context.Background(), "nope")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCachedProjectRepository_BypassesCacheInTransaction(t *testing.T) {
	client, s := newTestClient(t)
	store := memory.NewStore()
	inner := &countingProjects{ProjectRepository: store.Projects()}
	repo := NewCachedProjectRepository(inner, NewCache(client), time.Minute)
	ctx := context.Background()
	p := entity.NewProjectFromWizard("t1", "u1", nil)
	require.NoError(t, repo.Create(ctx, p))

	err := store.WithTransaction(ctx, func(txCtx context.Context) error {
		_, err := repo.GetByID(txCtx, p.ID)
		return err
	})

	require.NoError(t, err)
	assert.False(t, s.Exists(ProjectKey(p.ID)))
}

func TestCachedProjectRepository_InvalidatesAfterCommit(t *testing.T) {
	client, s := newTestClient(t)
	store := memory.NewStore()
	repo := NewCachedProjectRepository(store.Projects(), NewCache(client), time.Minute)
	ctx := context.Background()
	p := entity.NewProjectFromWizard("t1", "u1", entity.WizardFormData{entity.FieldTitle: "Old"})
	require.NoError(t, repo.Create(ctx, p))
	_, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, s.Exists(ProjectKey(p.ID)))

	err = store.WithTransaction(ctx, func(txCtx context.Context) error {
		p.Title = "New"
		if err := repo.Update(txCtx, p); err != nil {
			return err
		}
		assert.True(t, s.Exists(ProjectKey(p.ID)), "key survives until commit")
		return nil
	})

	require.NoError(t, err)
	assert.False(t, s.Exists(ProjectKey(p.ID)))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
}

func TestCachedProjectRepository_FailedTransactionKeepsCache(t *testing.T) {
	client, s := newTestClient(t)
	store := memory.NewStore()
	repo := NewCachedProjectRepository(store.Projects(), NewCache(client), time.Minute)
	ctx := context.Background()
	p := entity.NewProjectFromWizard("t1", "u1", nil)
	require.NoError(t, repo.Create(ctx, p))
	_, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)

	err = store.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := repo.Delete(txCtx, p.ID); err != nil {
			return err
		}
		return errors.New("abort")
	})

	assert.Error(t, err)
	assert.True(t, s.Exists(ProjectKey(p.ID)))
}

func TestNewCachedProjectRepository_DisabledWithoutTTL(t *testing.T) {
	inner := memory.NewStore().Projects()

	assert.Same(t, repository.ProjectRepository(inner), NewCachedProjectRepository(inner, nil, time.Minute))
}

func TestRateLimiter_Allow(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()
	key := BuildRateLimitKey("t1", "/v1/projects")

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, key, 3, time.Second)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := limiter.Allow(ctx, key, 3, time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	remaining, err := limiter.Remaining(ctx, key, 3, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewRateLimiter(client)
	now := time.Now()
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	ok, _ = limiter.Allow(ctx, "k", 1, time.Second)
	assert.False(t, ok)

	limiter.now = func() time.Time { return now.Add(2 * time.Second) }
	ok, err = limiter.Allow(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

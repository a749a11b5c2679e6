package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduforge-api/internal/domain/entity"
	"eduforge-api/pkg/logger"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestMessage_Metadata(t *testing.T) {
	msg, err := NewMessage("m1", "x", "t1", "p1", map[string]int{"a": 1})
	require.NoError(t, err)

	msg.SetMetadata("k", "v")
	msg.SetMetadata("empty", "")

	assert.Equal(t, "v", msg.GetMetadata("k"))
	_, ok := msg.Metadata["empty"]
	assert.False(t, ok)

	var payload map[string]int
	require.NoError(t, msg.UnmarshalPayload(&payload))
	assert.Equal(t, 1, payload["a"])
	assert.Equal(t, "dlq:stream:pipeline:events", StreamPipelineEvents.DLQStream())
}

func TestProducer_PublishPipelineEvent(t *testing.T) {
	rdb := newRedis(t)
	producer := NewProducer(rdb, 0)
	ctx := logger.WithContext(context.Background(), logger.RequestIDKey, "req-1")

	id, err := producer.PublishPipelineEvent(ctx, entity.NewPipelineEvent(entity.EventProjectConfigured, "t1", "u1", "p1", entity.StageProjectConfig))

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	n, err := rdb.XLen(ctx, string(StreamPipelineEvents)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestConsumer_DeliversPublishedEvents(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	producer := NewProducer(rdb, 100)
	consumer := NewConsumer(rdb, ConsumerConfig{
		Stream:       StreamPipelineEvents,
		Group:        ConsumerGroupPipelineTail,
		BlockTimeout: 50 * time.Millisecond,
	})
	require.NoError(t, consumer.EnsureGroup(ctx))
	require.NoError(t, consumer.EnsureGroup(ctx), "group creation is idempotent")

	var got []*entity.PipelineEvent
	var requestIDs []string
	consumer.RegisterHandler(string(entity.EventStageSelected), func(_ context.Context, msg *Message) error {
		var ev entity.PipelineEvent
		if err := msg.UnmarshalPayload(&ev); err != nil {
			return err
		}
		got = append(got, &ev)
		requestIDs = append(requestIDs, msg.GetMetadata("request_id"))
		return nil
	})

	pubCtx := logger.WithContext(ctx, logger.RequestIDKey, "req-9")
	_, err := producer.PublishPipelineEvent(pubCtx, entity.NewPipelineEvent(entity.EventStageSelected, "t1", "u1", "p1", entity.StageRefinement))
	require.NoError(t, err)

	n, err := consumer.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, got, 1)
	assert.Equal(t, entity.StageRefinement, got[0].Stage)
	assert.Equal(t, "p1", got[0].ProjectID)
	assert.Equal(t, []string{"req-9"}, requestIDs)

	pending, err := rdb.XPending(ctx, string(StreamPipelineEvents), string(ConsumerGroupPipelineTail)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestConsumer_FailedMessageMovesToDLQ(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	producer := NewProducer(rdb, 100)
	consumer := NewConsumer(rdb, ConsumerConfig{
		Stream:       StreamPipelineEvents,
		Group:        ConsumerGroupPipelineTail,
		BlockTimeout: 50 * time.Millisecond,
		RetryLimit:   1,
	})
	require.NoError(t, consumer.EnsureGroup(ctx))
	consumer.RegisterFallback(func(context.Context, *Message) error {
		return errors.New("boom")
	})

	_, err := producer.PublishPipelineEvent(ctx, entity.NewPipelineEvent(entity.EventProjectConfigured, "t1", "u1", "p1", entity.StageProjectConfig))
	require.NoError(t, err)

	_, err = consumer.Poll(ctx)
	require.NoError(t, err)

	n, err := rdb.XLen(ctx, StreamPipelineEvents.DLQStream()).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

package publisher

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Publisher = (*RedisPublisher)(nil)

func TestStreamNames(t *testing.T) {
	p := NewRedisPublisher("localhost:6379", 0, "coupons", 0, 10)
	defer p.Close()

	assert.Equal(t, 1, p.streamCount)
	assert.Equal(t, "coupons:0", p.streamName(0))
}

// This test requires a running Redis instance
// If Redis is not available, the test will be skipped
func TestRedisPublisher(t *testing.T) {
	ctx := context.Background()
	publisher := NewRedisPublisher("localhost:6379", 0, "test_coupons", 1, 5)
	defer publisher.Close()

	if err := publisher.Ping(ctx); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 0})
	defer client.Close()
	client.Del(ctx, "test_coupons:0")

	err := publisher.Publish(ctx, "listing", []byte("test_message"))
	require.NoError(t, err)

	messages, err := client.XRange(ctx, "test_coupons:0", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	// The message should be base64 encoded
	assert.Equal(t, "dGVzdF9tZXNzYWdl", messages[0].Values["listing"])

	for i := 0; i < 10; i++ {
		require.NoError(t, publisher.Publish(ctx, "listing", []byte("m")))
	}
	require.NoError(t, publisher.TrimStreams(ctx))

	length, err := client.XLen(ctx, "test_coupons:0").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(5), length)

	client.Del(ctx, "test_coupons:0")
}

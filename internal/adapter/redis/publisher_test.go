package redis

import (
	"context"
	"testing"
	"time"

	"nbrb-rates/internal/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEvent(t *testing.T) {
	payload, err := encodeEvent(entity.ImportEvent{Date: "2024-03-01", Inserted: 27})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-01","inserted":27}`, payload)
}

func unreachableOptions() *redis.Options {
	return &redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	}
}

func TestInitPublisher_Unreachable(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, err := InitPublisher(context.Background(), unreachableOptions(), "rates_imported", logger)
	assert.ErrorContains(t, err, "redis ping 127.0.0.1:1")
}

func TestNotifyImported_PublishError(t *testing.T) {
	logger, _ := test.NewNullLogger()
	p := NewPublisher(redis.NewClient(unreachableOptions()), "rates_imported", logger)
	defer p.Close()

	err := p.NotifyImported(context.Background(), entity.ImportEvent{Date: "2024-03-01", Inserted: 1})
	assert.ErrorContains(t, err, "publish to rates_imported")
}

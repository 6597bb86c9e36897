package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"nbrb-rates/internal/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Publisher struct {
	rdb     *redis.Client
	channel string
	logger  *logrus.Logger
}

func NewPublisher(client *redis.Client, channel string, logger *logrus.Logger) *Publisher {
	return &Publisher{
		rdb:     client,
		channel: channel,
		logger:  logger,
	}
}

// InitPublisher connects to redis and checks the connection with a ping.
func InitPublisher(ctx context.Context, options *redis.Options, channel string, logger *logrus.Logger) (*Publisher, error) {
	client := redis.NewClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", options.Addr, err)
	}

	logger.WithField("addr", options.Addr).Info("Connected to redis")
	return NewPublisher(client, channel, logger), nil
}

func encodeEvent(event entity.ImportEvent) (string, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal import event: %w", err)
	}
	return string(payload), nil
}

func (p *Publisher) NotifyImported(ctx context.Context, event entity.ImportEvent) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}

	receivers, err := p.rdb.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}

	p.logger.WithFields(logrus.Fields{
		"channel":   p.channel,
		"date":      event.Date,
		"receivers": receivers,
	}).Debug("Published import event")
	return nil
}

func (p *Publisher) Client() *redis.Client {
	return p.rdb
}

func (p *Publisher) Close() error {
	return p.rdb.Close()
}

package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"datenight/internal/pkg/config"
	"datenight/internal/pkg/errs"
	"datenight/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Publisher pushes ledger-change notifications onto the shared channel.
// The interval sweep covers anything a failed publish loses, so errors
// are reported but non-fatal by contract.
type Publisher struct {
	client  *redis.Client
	channel string
}

func NewPublisher(client *redis.Client, cfg config.RedisConfig) shared.LedgerNotifier {
	return &Publisher{client: client, channel: cfg.LedgerChannel}
}

func (p *Publisher) PublishChange(ctx context.Context, change shared.LedgerChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return errs.Wrap(err, "failed to marshal ledger change")
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return errs.Wrap(err, "failed to publish ledger change")
	}
	return nil
}

// Subscriber feeds ledger-change notifications to the sweeper.
type Subscriber struct {
	client  *redis.Client
	channel string
}

func NewSubscriber(client *redis.Client, cfg config.RedisConfig) *Subscriber {
	return &Subscriber{client: client, channel: cfg.LedgerChannel}
}

// Listen subscribes and decodes messages until ctx is cancelled.
// Malformed payloads are logged and skipped.
func (s *Subscriber) Listen(ctx context.Context) (<-chan shared.LedgerChange, error) {
	sub := s.client.Subscribe(ctx, s.channel)
	if _, err := sub.Receive(ctx); err != nil {
		return nil, errs.Wrap(err, "failed to subscribe to ledger channel")
	}

	out := make(chan shared.LedgerChange)
	go func() {
		defer close(out)
		defer func() {
			if err := sub.Close(); err != nil {
				slog.Warn("failed to close redis subscription", "error", err.Error())
			}
		}()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change shared.LedgerChange
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					slog.Warn("dropping malformed ledger change", "error", err.Error())
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

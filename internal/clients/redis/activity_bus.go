package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/relaybot/internal/domain/bot"
	"github.com/yungbote/relaybot/internal/platform/logger"
)

const DefaultChannel = "relaybot.activity"

type Config struct {
	Addr    string
	Channel string
}

// ActivityBus fans store writes out over redis pub/sub.
type ActivityBus interface {
	Publish(ctx context.Context, activity bot.Activity) error
	StartForwarder(ctx context.Context, onMsg func(a bot.Activity)) error
	Ping(ctx context.Context) error
	Close() error
}

type activityBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewActivityBus(log *logger.Logger, cfg Config) (ActivityBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(cfg.Channel)
	if ch == "" {
		ch = DefaultChannel
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &activityBus{
		log:     log.With("service", "RedisActivityBus", "channel", ch),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *activityBus) Publish(ctx context.Context, activity bot.Activity) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis activity bus not initialized")
	}
	raw, err := json.Marshal(activity)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes and calls onMsg for every activity until ctx is done.
func (b *activityBus) StartForwarder(ctx context.Context, onMsg func(a bot.Activity)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis activity bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var a bot.Activity
				if err := json.Unmarshal([]byte(m.Payload), &a); err != nil {
					b.log.Warn("bad redis activity payload", "error", err)
					continue
				}
				onMsg(a)
			}
		}
	}()

	return nil
}

func (b *activityBus) Ping(ctx context.Context) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis activity bus not initialized")
	}
	return b.rdb.Ping(ctx).Err()
}

func (b *activityBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

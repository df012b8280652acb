package relay

import (
	"context"
	"time"

	"apoema_board/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// Bridge mirrors board events across server instances over Redis pub/sub. Each
// board gets its own channel ("board:<id>"), so sessions never see another
// board's traffic. With no Redis configured the bridge is inert and the server
// runs single-instance, same fail-open posture as the rate limiter.
type Bridge struct {
	rdb *redis.Client
}

// New connects to Redis. Empty addr, or a failed ping, yields an inert bridge.
func New(addr, password string, db int) *Bridge {
	if addr == "" {
		return &Bridge{}
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("relay bridge disabled, redis unreachable", "addr", addr, "error", err)
		return &Bridge{}
	}
	logger.Info("relay bridge connected", "addr", addr)
	return &Bridge{rdb: rdb}
}

func (b *Bridge) Enabled() bool { return b != nil && b.rdb != nil }

func channelFor(boardID string) string { return "board:" + boardID }

// Publish sends an encoded event to the board's channel. A publish failure is
// logged and dropped: the mutation is already persisted, late instances catch
// up on their next board load.
func (b *Bridge) Publish(ctx context.Context, boardID string, data []byte) {
	if !b.Enabled() {
		return
	}
	if err := b.rdb.Publish(ctx, channelFor(boardID), data).Err(); err != nil {
		logger.Error("relay publish failed", "board", boardID, "error", err)
	}
}

// Subscribe delivers raw messages from the board's channel to fn until the
// returned cancel func is called. The subscriber also receives this instance's
// own publishes; receivers stay correct because reconciliation is idempotent.
func (b *Bridge) Subscribe(boardID string, fn func([]byte)) (cancel func()) {
	if !b.Enabled() {
		return func() {}
	}

	ctx, stop := context.WithCancel(context.Background())
	sub := b.rdb.Subscribe(ctx, channelFor(boardID))

	go func() {
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fn([]byte(msg.Payload))
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		stop()
		_ = sub.Close()
	}
}

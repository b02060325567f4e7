// internal/history/redis.go
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/match"
)

// DefaultQueueName is the Redis list the historian consumes.
const DefaultQueueName = "tank_matches"

// Publisher pushes match lifecycle records onto a Redis list. It satisfies
// match.Recorder; the push itself runs off the caller's goroutine so the
// matchmaker never blocks on Redis.
type Publisher struct {
	rdb   *redis.Client
	queue string
	log   *logrus.Logger
}

// NewPublisher connects a Redis client and verifies it with a ping.
func NewPublisher(addr, queue string, log *logrus.Logger) (*Publisher, error) {
	if queue == "" {
		queue = DefaultQueueName
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &Publisher{rdb: rdb, queue: queue, log: log}, nil
}

// RoomCreated implements match.Recorder.
func (p *Publisher) RoomCreated(r *match.Room) {
	p.publish(recordFor(EventRoomCreated, r, ""))
}

// RoomClosed implements match.Recorder.
func (p *Publisher) RoomClosed(r *match.Room, reason string) {
	p.publish(recordFor(EventRoomClosed, r, reason))
}

func (p *Publisher) publish(rec MatchRecord) {
	go func() {
		data, err := json.Marshal(rec)
		if err != nil {
			p.log.Warnf("history: failed to marshal record for room %s: %v", rec.RoomID, err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
			p.log.Warnf("history: failed to push record for room %s: %v", rec.RoomID, err)
		}
	}()
}

// Close releases the underlying Redis client.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}

// cmd/historian is an asynchronous service that pops match records from the
// Redis queue and persists them to PostgreSQL.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/config"
	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/history"
)

// Historian batches records popped from Redis and flushes them to the store
// either when the batch fills or on a timer.
type Historian struct {
	cfg   config.HistorianConfig
	rdb   *redis.Client
	store *history.Store

	batchMu sync.Mutex
	batch   []history.MatchRecord
}

func main() {
	cfg := config.LoadHistorian()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := history.ConnectStore(ctx)
	if err != nil {
		log.Fatalf("historian: %v", err)
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("historian: ensure schema: %v", err)
	}

	h := &Historian{
		cfg:   cfg,
		rdb:   redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}),
		store: store,
		batch: make([]history.MatchRecord, 0, cfg.BatchSize),
	}

	log.Println("tank-historian service started.")
	h.run(ctx)
	h.flush(context.Background())
	log.Println("tank-historian shutting down.")
}

// run reads from the Redis queue until the context is cancelled, flushing
// on the configured cadence.
func (h *Historian) run(ctx context.Context) {
	ticker := time.NewTicker(h.cfg.FlushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.flush(ctx)
		default:
			// BLPop with a short timeout so cancellation stays responsive.
			res, err := h.rdb.BLPop(ctx, 3*time.Second, h.cfg.Queue).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || ctx.Err() != nil {
					continue
				}
				log.Printf("historian: BLPop: %v", err)
				continue
			}
			if len(res) < 2 {
				continue
			}

			var rec history.MatchRecord
			if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
				log.Printf("historian: invalid match record: %v", err)
				continue
			}
			h.append(ctx, rec)
		}
	}
}

func (h *Historian) append(ctx context.Context, rec history.MatchRecord) {
	h.batchMu.Lock()
	h.batch = append(h.batch, rec)
	full := len(h.batch) >= h.cfg.BatchSize
	h.batchMu.Unlock()

	if full {
		h.flush(ctx)
	}
}

func (h *Historian) flush(ctx context.Context) {
	h.batchMu.Lock()
	if len(h.batch) == 0 {
		h.batchMu.Unlock()
		return
	}
	recs := h.batch
	h.batch = make([]history.MatchRecord, 0, h.cfg.BatchSize)
	h.batchMu.Unlock()

	insertCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.store.InsertRecords(insertCtx, recs); err != nil {
		log.Printf("historian: flush failed, %d records dropped: %v", len(recs), err)
	}
}

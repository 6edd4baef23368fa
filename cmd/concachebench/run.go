package main

import (
	"context"
	"fmt"
	"time"

	"github.com/semihalev/zlog/v2"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/chenyouxiang/concache"
)

// runStress drives spec.md's scenario S5/S6: cfg.Threads goroutines, each
// performing cfg.Iterations uniform insert/get/delete ops over
// [0,cfg.Keyspace), every insert writing (k, k) so a successful Get must
// observe v == k. Each worker fans out under an errgroup the way
// aristanetworks-goarista/gnmireverse/client/client.go fans out its
// stream workers, instead of a bare sync.WaitGroup.
func runStress(cfg *config, m *metrics) error {
	zlog.Info("starting stress run", "log_level", cfg.LogLevel)
	h := concache.WithCapacity(cfg.Buckets)

	g, ctx := errgroup.WithContext(context.Background())
	for worker := 0; worker < cfg.Threads; worker++ {
		worker := worker
		g.Go(func() error {
			return stressWorker(ctx, h.Clone(), cfg, m, int64(worker)+1)
		})
	}

	start := time.Now()
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)
	m.items.Set(float64(h.Len()))

	zlog.Info("stress run complete",
		"threads", cfg.Threads,
		"iterations", cfg.Iterations,
		"items", h.Len(),
		"elapsed", elapsed.String(),
	)
	fmt.Printf("concache stress: %d threads x %d ops, %d live items, %s elapsed\n",
		cfg.Threads, cfg.Iterations, h.Len(), elapsed)
	return nil
}

func stressWorker(ctx context.Context, h *concache.Handle, cfg *config, m *metrics, seed int64) error {
	r := rand.New(rand.NewSource(uint64(seed)))

	for i := 0; i < cfg.Iterations; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		key := uint64(r.Int63n(int64(cfg.Keyspace)))
		switch r.Intn(3) {
		case 0:
			h.Insert(key, key)
			m.ops.WithLabelValues("insert").Inc()
		case 1:
			if v, ok := h.Get(key); ok && v != key {
				return fmt.Errorf("Get(%d) = %d, want %d", key, v, key)
			}
			m.ops.WithLabelValues("get").Inc()
		case 2:
			h.Delete(key)
			m.ops.WithLabelValues("delete").Inc()
		}
	}

	// Scenario S6: the epoch counter must equal exactly 2 * iterations.
	if got, want := h.Epoch(), uint64(2*cfg.Iterations); got != want {
		return fmt.Errorf("worker epoch = %d, want %d", got, want)
	}
	return nil
}

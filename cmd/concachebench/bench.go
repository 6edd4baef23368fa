package main

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"github.com/chenyouxiang/concache"
)

// sweepSizes mirrors the original Rust source's benchmark suite
// (original_source/src/manual/mod.rs: get0128..get8192,
// update0128..update8192, delete0128..delete8192), adapted from
// criterion-style #[bench] functions into a single reported sweep.
var sweepSizes = []int{128, 256, 512, 1024, 2048, 4096, 8192}

type sweepResult struct {
	size     int
	getNs    float64
	updateNs float64
	deleteNs float64
}

// runBench times Get/Insert/Delete at each size in sweepSizes, each on a
// freshly populated table of that size, the way the original benchmarks
// pre-populate handle.insert(key, 0) for key in 0..n before timing.
func runBench(cfg *config, m *metrics) error {
	const samples = 20000

	results := make([]sweepResult, 0, len(sweepSizes))
	for _, n := range sweepSizes {
		h := concache.WithCapacity(cfg.Buckets)
		for key := 0; key < n; key++ {
			h.Insert(uint64(key), 0)
		}

		r := rand.New(rand.NewSource(uint64(n) + 1))

		results = append(results, sweepResult{
			size:     n,
			getNs:    timeOp(samples, func() { h.Get(uint64(r.Int63n(int64(n)))) }),
			updateNs: timeOp(samples, func() { h.Insert(uint64(r.Int63n(int64(n))), 1) }),
			deleteNs: timeOp(samples, func() {
				key := uint64(r.Int63n(int64(n)))
				h.Delete(key)
				h.Insert(key, 0)
			}),
		})
		m.items.Set(float64(h.Len()))
	}

	fmt.Printf("%8s %12s %12s %12s\n", "size", "get(ns)", "update(ns)", "delete(ns)")
	for _, res := range results {
		fmt.Printf("%8d %12.1f %12.1f %12.1f\n", res.size, res.getNs, res.updateNs, res.deleteNs)
	}
	return nil
}

func timeOp(samples int, op func()) float64 {
	start := time.Now()
	for i := 0; i < samples; i++ {
		op()
	}
	return float64(time.Since(start).Nanoseconds()) / float64(samples)
}

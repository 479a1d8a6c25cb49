package bucket

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

// BenchmarkAllowN measures single-threaded throughput on one hot key.
func BenchmarkAllowN(b *testing.B) {
	store := NewInMemory()
	ctx := context.Background()

	for b.Loop() {
		_, _ = store.AllowN(ctx, "ratelimit:submit:ip:bench", 1, 1000, time.Minute)
	}
}

// BenchmarkAllowN_Parallel measures contention on one hot key.
func BenchmarkAllowN_Parallel(b *testing.B) {
	store := NewInMemory()
	ctx := context.Background()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = store.AllowN(ctx, "ratelimit:submit:ip:bench", 1, 1000, time.Minute)
		}
	})
}

// BenchmarkAllowN_HighCardinality spreads requests over many client IPs.
func BenchmarkAllowN_HighCardinality(b *testing.B) {
	store := NewInMemory()
	ctx := context.Background()

	for i := 0; b.Loop(); i++ {
		key := fmt.Sprintf("ratelimit:submit:ip:10.0.%d.%d", (i/256)%256, i%256)
		_, _ = store.AllowN(ctx, key, 1, 100, time.Minute)
	}
}

// BenchmarkAllowN_HighCardinality_Parallel combines key spread with contention.
func BenchmarkAllowN_HighCardinality_Parallel(b *testing.B) {
	store := NewInMemory()
	ctx := context.Background()
	var seq atomic.Int64

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := seq.Add(1)
			key := fmt.Sprintf("ratelimit:submit:ip:10.0.%d.%d", (i/256)%256, i%256)
			_, _ = store.AllowN(ctx, key, 1, 100, time.Minute)
		}
	})
}

package qs

import (
	"context"

	microbatch "github.com/joeycumines/go-microbatch"
)

// BatchingBackend coalesces frames written in quick succession into a
// single underlying WriteFrame call, reducing transport round-trips (e.g.
// TCP segments or UDP datagrams) when the kernel emits many trace records
// in a burst. Grounded on joeycumines-go-utilpkg/microbatch's Batcher,
// wired here to serve the role original_source/crates/qs/src/lib.rs's
// backends fill singly (one write per frame).
type BatchingBackend struct {
	inner   TraceBackend
	batcher *microbatch.Batcher[batchJob]
}

type batchJob struct {
	frame []byte
}

// BatchingConfig configures a BatchingBackend; fields mirror
// microbatch.BatcherConfig.
type BatchingConfig struct {
	MaxSize        int
	MaxConcurrency int
}

// NewBatchingBackend wraps inner, coalescing writes per cfg.
func NewBatchingBackend(inner TraceBackend, cfg BatchingConfig) *BatchingBackend {
	b := &BatchingBackend{inner: inner}
	b.batcher = microbatch.NewBatcher(&microbatch.BatcherConfig{
		MaxSize:        cfg.MaxSize,
		MaxConcurrency: cfg.MaxConcurrency,
	}, b.process)
	return b
}

// process concatenates every frame in the batch and issues one WriteFrame
// call; the returned error is surfaced to every Submit call in the batch
// via JobResult.Wait, so each original WriteFrame caller still observes a
// transport failure.
func (b *BatchingBackend) process(ctx context.Context, jobs []batchJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	concatenated := make([]byte, 0)
	for _, j := range jobs {
		concatenated = append(concatenated, j.frame...)
	}
	return b.inner.WriteFrame(concatenated)
}

// WriteFrame submits frame to the batcher and blocks until it (along with
// whatever frames it was coalesced with) has been flushed to the inner
// backend.
func (b *BatchingBackend) WriteFrame(frame []byte) error {
	ctx := context.Background()
	result, err := b.batcher.Submit(ctx, batchJob{frame: frame})
	if err != nil {
		return err
	}
	return result.Wait(ctx)
}

// Close stops accepting new frames and flushes any pending batch.
func (b *BatchingBackend) Close() error {
	return b.batcher.Close()
}

package db

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/udisondev/warden/internal/model"
)

const (
	journalBatchSize     = 256
	journalFlushInterval = time.Second
	journalFlushTimeout  = 5 * time.Second
)

// TransitionStore persists a batch of transitions.
type TransitionStore interface {
	InsertBatch(ctx context.Context, transitions []model.Transition) error
}

// Journal buffers transitions from the tick goroutine and writes them in
// batches on its own goroutine. Record never blocks.
type Journal struct {
	store     TransitionStore
	ch        chan model.Transition
	batchSize int
	dropped atomic.Int64
	written atomic.Int64
}

// NewJournal creates a journal with a bounded buffer.
func NewJournal(store TransitionStore, buffer int) *Journal {
	if buffer <= 0 {
		buffer = journalBatchSize
	}
	return &Journal{
		store:     store,
		ch:        make(chan model.Transition, buffer),
		batchSize: journalBatchSize,
	}
}

// Record enqueues a transition. Drops it when the buffer is full.
func (j *Journal) Record(t model.Transition) {
	select {
	case j.ch <- t:
	default:
		if j.dropped.Add(1) == 1 {
			slog.Warn("transition journal full, dropping", "npc", t.NpcID)
		}
	}
}

// Dropped returns number of transitions dropped on a full buffer.
func (j *Journal) Dropped() int64 {
	return j.dropped.Load()
}

// Written returns number of transitions persisted.
func (j *Journal) Written() int64 {
	return j.written.Load()
}

// Run writes batches until ctx is canceled, then drains and flushes
// what is left. Blocks; returns nil on shutdown.
func (j *Journal) Run(ctx context.Context) error {
	ticker := time.NewTicker(journalFlushInterval)
	defer ticker.Stop()

	batch := make([]model.Transition, 0, j.batchSize)

	for {
		select {
		case <-ctx.Done():
			return j.shutdown(batch)

		case t := <-j.ch:
			batch = append(batch, t)
			if len(batch) < j.batchSize {
				continue
			}
			// select may pick a ready case over a canceled ctx
			if ctx.Err() != nil {
				return j.shutdown(batch)
			}
			j.flush(ctx, batch)
			batch = batch[:0]

		case <-ticker.C:
			if ctx.Err() != nil {
				return j.shutdown(batch)
			}
			j.flush(ctx, batch)
			batch = batch[:0]
		}
	}
}

// shutdown drains the channel and flushes with a fresh timeout context.
func (j *Journal) shutdown(batch []model.Transition) error {
	batch = j.drain(batch)
	flushCtx, cancel := context.WithTimeout(context.Background(), journalFlushTimeout)
	defer cancel()
	j.flush(flushCtx, batch)

	slog.Info("transition journal stopped",
		"written", j.written.Load(),
		"dropped", j.dropped.Load())
	return nil
}

// drain забирает всё, что осталось в канале, без блокировки.
func (j *Journal) drain(batch []model.Transition) []model.Transition {
	for {
		select {
		case t := <-j.ch:
			batch = append(batch, t)
		default:
			return batch
		}
	}
}

func (j *Journal) flush(ctx context.Context, batch []model.Transition) {
	if len(batch) == 0 {
		return
	}
	if err := j.store.InsertBatch(ctx, batch); err != nil {
		slog.Error("writing transition batch", "size", len(batch), "error", err)
		return
	}
	j.written.Add(int64(len(batch)))
}

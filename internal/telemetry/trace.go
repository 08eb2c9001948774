// Package telemetry writes NPC state transitions to CSV for offline analysis.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/udisondev/warden/internal/model"
)

// TraceFileName is the CSV file created inside the trace directory.
const TraceFileName = "transitions.csv"

// TransitionRecord is one CSV row.
type TransitionRecord struct {
	NpcID   string  `csv:"npc_id"`
	NpcName string  `csv:"npc_name"`
	Tick    uint64  `csv:"tick"`
	SimTime float64 `csv:"sim_time"`
	From    string  `csv:"from"`
	To      string  `csv:"to"`
}

// NewTransitionRecord converts a transition to a CSV row.
func NewTransitionRecord(t model.Transition, name string) TransitionRecord {
	return TransitionRecord{
		NpcID:   t.NpcID.String(),
		NpcName: name,
		Tick:    t.Tick,
		SimTime: t.SimTime,
		From:    t.From.String(),
		To:      t.To.String(),
	}
}

// TraceWriter appends transition rows to transitions.csv.
// A nil *TraceWriter is valid and discards everything (trace disabled).
type TraceWriter struct {
	mu            sync.Mutex
	file          *os.File
	headerWritten bool
	rows          int
}

// NewTraceWriter creates the trace directory and file.
// Returns nil if dir is empty (trace disabled).
func NewTraceWriter(dir string) (*TraceWriter, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating trace directory: %w", err)
	}

	path := filepath.Join(dir, TraceFileName)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", TraceFileName, err)
	}

	return &TraceWriter{file: f}, nil
}

// Write appends records. The header is written with the first batch only.
func (w *TraceWriter) Write(records ...TransitionRecord) error {
	if w == nil || len(records) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.file); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		w.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, w.file); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}

	w.rows += len(records)
	return nil
}

// Rows returns number of rows written.
func (w *TraceWriter) Rows() int {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

// Path returns the trace file path.
func (w *TraceWriter) Path() string {
	if w == nil {
		return ""
	}
	return w.file.Name()
}

// Close flushes and closes the file.
func (w *TraceWriter) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.file.Sync(); err != nil {
		w.file.Close()
		return fmt.Errorf("syncing trace: %w", err)
	}
	return w.file.Close()
}

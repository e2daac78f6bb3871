package sink

import (
	"context"
	"errors"
)

// ErrNotFound is returned by readers for a missing record.
var ErrNotFound = errors.New("record not found")

// Sink stores the records of one run.
type Sink interface {
	// WriteComponent stores a component batch atomically.
	WriteComponent(ctx context.Context, rec *ComponentRecord) error
	// WriteAssembly stores the assembly summary.
	WriteAssembly(ctx context.Context, rec *AssemblyRecord) error
	// Close flushes and releases the sink.
	Close() error
}

// Reader reads back the records of the latest run.
type Reader interface {
	Assembly(ctx context.Context) (*AssemblyRecord, error)
	// Components returns component summaries in rank order.
	Components(ctx context.Context) ([]ComponentRecord, error)
	Component(ctx context.Context, rank int) (*ComponentRecord, error)
}

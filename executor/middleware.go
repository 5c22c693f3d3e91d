package executor

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
)

// Component is the base interface for executor components/middleware.
type Component interface {
	Name() string
	Init(e *Executor) error
	Shutdown() error
}

// Batch is one ordered set of statements travelling through the
// middleware chain toward the dispatcher.
type Batch struct {
	Statements []Statement
	MaxWorkers int

	fields map[string]any
}

// WithFields attaches structured logging fields (request id, client ip)
// to the batch. Used by the tracing middleware.
func (b *Batch) WithFields(fields map[string]any) {
	if b.fields == nil {
		b.fields = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		b.fields[k] = v
	}
}

// ReadOnly reports whether every statement in the batch takes the read
// path. Cache middlewares refuse to cache anything else.
func (b *Batch) ReadOnly() bool {
	for _, s := range b.Statements {
		if !isQuery(s.SQL) || !s.FetchResults {
			return false
		}
	}
	return true
}

// CacheKey derives a stable key from the batch's statements.
func (b *Batch) CacheKey() string {
	h := sha1.New()
	for _, s := range b.Statements {
		io.WriteString(h, s.SQL)
		fmt.Fprintf(h, "|%v|%s|%t\n", s.Params, s.Name, s.FetchResults)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// BatchFunc is the next step in the middleware chain.
type BatchFunc func(ctx context.Context, batch *Batch) ([]Outcome, error)

// Middleware intercepts batch execution. The error return is reserved for
// infrastructure refusals (e.g. an open circuit); per-statement failures
// stay inside the outcomes.
type Middleware interface {
	Component
	Process(ctx context.Context, batch *Batch, next BatchFunc) ([]Outcome, error)
}

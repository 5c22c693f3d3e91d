package middleware

import (
	"context"

	"github.com/shrek82/stationd/executor"
)

// TracingMiddleware copies request identifiers from the context onto the
// batch so the dispatcher's log lines carry them.
type TracingMiddleware struct{}

func NewTracing() *TracingMiddleware {
	return &TracingMiddleware{}
}

func (m *TracingMiddleware) Name() string { return "Tracing" }

func (m *TracingMiddleware) Init(e *executor.Executor) error { return nil }

func (m *TracingMiddleware) Shutdown() error { return nil }

func (m *TracingMiddleware) Process(ctx context.Context, batch *executor.Batch, next executor.BatchFunc) ([]executor.Outcome, error) {
	fields := make(map[string]any)
	if reqID := ctx.Value("request_id"); reqID != nil {
		fields["request_id"] = reqID
	}
	if userIP := ctx.Value("user_ip"); userIP != nil {
		fields["user_ip"] = userIP
	}
	if traceID := ctx.Value("trace_id"); traceID != nil {
		fields["trace_id"] = traceID
	}
	if len(fields) > 0 {
		batch.WithFields(fields)
	}
	return next(ctx, batch)
}

// Package executor is the concurrent SQL executor at the heart of
// stationd: a bounded connection pool plus a bounded worker fan-out that
// runs independent statements in parallel, isolates per-statement failure
// and reassembles results in submission order.
package executor

import (
	"context"
	"fmt"

	"github.com/shrek82/stationd/config"
	"github.com/shrek82/stationd/dialect"
	"github.com/shrek82/stationd/logger"
	"github.com/shrek82/stationd/pool"
)

// Executor owns the connection pool for the process lifetime and exposes
// the two execution entry points used by the HTTP layer. Create it at
// startup with Open and release it with Close at shutdown.
type Executor struct {
	pool        pool.Pool
	dialect     dialect.Dialect
	logger      logger.Logger
	stats       *statsRegistry
	middlewares []Middleware
}

// Open validates the configuration, builds the driver DSN through the
// dialect registry and connects the pool. It fails when the database is
// unreachable or the credentials are rejected.
func Open(driver string, cfg config.Config) (*Executor, error) {
	d, ok := dialect.Get(driver)
	if !ok {
		return nil, fmt.Errorf("%w: %s", dialect.ErrUnknownDialect, driver)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p, err := pool.New(driver, d.DSN(cfg), pool.Options{
		MinConns:       cfg.MinConns,
		MaxConns:       cfg.MaxConns,
		AcquireTimeout: cfg.AcquireTimeout,
	})
	if err != nil {
		return nil, err
	}

	log := logger.NewStdLogger()
	log.Info("connection pool ready, max connections: %d", cfg.MaxConns)
	return &Executor{
		pool:    p,
		dialect: d,
		logger:  log,
		stats:   newStatsRegistry(),
	}, nil
}

// NewWithPool builds an executor over an existing pool. Mainly useful for
// tests that wrap the pool with instrumentation.
func NewWithPool(p pool.Pool, d dialect.Dialect) *Executor {
	return &Executor{
		pool:    p,
		dialect: d,
		logger:  logger.NewStdLogger(),
		stats:   newStatsRegistry(),
	}
}

// SetLogger sets a custom logger.
func (e *Executor) SetLogger(l logger.Logger) {
	e.logger = l
}

// Logger returns the executor's logger, for middleware that wants to log
// through the same sink.
func (e *Executor) Logger() logger.Logger {
	return e.logger
}

// Use registers a middleware and initializes it. Middlewares wrap batch
// execution in registration order (the first registered is outermost).
func (e *Executor) Use(m Middleware) error {
	if err := m.Init(e); err != nil {
		return fmt.Errorf("init middleware %s: %w", m.Name(), err)
	}
	e.middlewares = append(e.middlewares, m)
	return nil
}

// Execute runs a single statement. Convenience wrapper over the batch
// path so middleware still applies.
func (e *Executor) Execute(ctx context.Context, stmt Statement) Outcome {
	return e.ExecuteConcurrent(ctx, []Statement{stmt}, 1)[0]
}

// ExecuteConcurrent runs the batch with at most maxWorkers statements in
// flight and returns exactly one outcome per statement, ordered by
// submission index. It never returns an error: infrastructure refusals
// (closed pool, open circuit) are folded into per-statement outcomes.
func (e *Executor) ExecuteConcurrent(ctx context.Context, stmts []Statement, maxWorkers int) []Outcome {
	batch := &Batch{Statements: stmts, MaxWorkers: maxWorkers}

	fn := e.executeBatch
	for i := len(e.middlewares) - 1; i >= 0; i-- {
		m := e.middlewares[i]
		next := fn
		fn = func(ctx context.Context, b *Batch) ([]Outcome, error) {
			return m.Process(ctx, b, next)
		}
	}

	outcomes, err := fn(ctx, batch)
	if err != nil {
		e.logger.Error("batch refused: %v", err)
		return refusedOutcomes(stmts, err)
	}
	return outcomes
}

// refusedOutcomes builds one failed outcome per statement when the whole
// batch was refused before dispatch.
func refusedOutcomes(stmts []Statement, err error) []Outcome {
	outcomes := make([]Outcome, len(stmts))
	for i, s := range stmts {
		name := s.Name
		if name == "" {
			name = defaultName(i)
		}
		outcomes[i] = Outcome{
			Index:   i,
			Name:    name,
			SQL:     truncateSQL(s.SQL),
			Success: false,
			Result:  ErrorDetail{Message: err.Error()},
		}
	}
	return outcomes
}

// Stats returns per-task execution counters and pool usage.
func (e *Executor) Stats() StatsSnapshot {
	return StatsSnapshot{
		Tasks: e.stats.snapshot(),
		Pool:  e.pool.Stats(),
	}
}

// Ping verifies database connectivity.
func (e *Executor) Ping(ctx context.Context) error {
	return e.pool.Ping(ctx)
}

// Close shuts down middlewares in reverse registration order, then drains
// and closes the connection pool.
func (e *Executor) Close() error {
	for i := len(e.middlewares) - 1; i >= 0; i-- {
		if err := e.middlewares[i].Shutdown(); err != nil {
			e.logger.Warn("shutdown middleware %s: %v", e.middlewares[i].Name(), err)
		}
	}
	err := e.pool.Close()
	e.logger.Info("connection pool closed")
	return err
}

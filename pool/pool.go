// Package pool manages the fixed-capacity set of live database connections
// shared by all executor workers. It layers borrow/release bookkeeping and
// closed-state tracking over database/sql's own pooling.
package pool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sasha-s/go-deadlock"
)

var (
	// ErrConnectionFailed is returned when the database cannot be reached
	// or rejects the credentials at pool creation.
	ErrConnectionFailed = errors.New("connection failed")
	// ErrPoolExhausted is returned when no connection becomes free within
	// the acquire timeout.
	ErrPoolExhausted = errors.New("pool exhausted")
	// ErrPoolClosed is returned by Acquire after Close.
	ErrPoolClosed = errors.New("pool closed")
)

// Pool hands out exclusively-borrowed connections. Callers own a borrowed
// connection until they release it with conn.Close(), exactly once, on
// every exit path.
type Pool interface {
	Acquire(ctx context.Context) (*sql.Conn, error)
	Ping(ctx context.Context) error
	Stats() Stats
	Close() error
}

// Stats is a point-in-time snapshot of pool usage.
type Stats struct {
	MaxOpen   int
	Open      int
	InUse     int
	Idle      int
	WaitCount int64
}

// Options bounds the pool. MinConns idle connections are kept warm;
// at most MaxConns are ever open. A zero AcquireTimeout waits forever.
type Options struct {
	MinConns       int
	MaxConns       int
	AcquireTimeout time.Duration
}

// StdPool implements Pool on top of *sql.DB.
type StdPool struct {
	db             *sql.DB
	acquireTimeout time.Duration

	mu     deadlock.Mutex
	closed bool
}

// New opens a pool and verifies connectivity with a ping. The returned
// pool holds up to opts.MaxConns live sessions for its lifetime.
func New(driver, dsn string, opts Options) (*StdPool, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	if opts.MaxConns > 0 {
		db.SetMaxOpenConns(opts.MaxConns)
	}
	if opts.MinConns > 0 {
		db.SetMaxIdleConns(opts.MinConns)
	}

	ctx := context.Background()
	if opts.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.AcquireTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	return &StdPool{db: db, acquireTimeout: opts.AcquireTimeout}, nil
}

// Acquire borrows one connection, blocking until a connection is free, the
// acquire timeout elapses, or ctx is done. Release the connection with
// conn.Close().
func (p *StdPool) Acquire(ctx context.Context) (*sql.Conn, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.mu.Unlock()

	if p.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.acquireTimeout)
		defer cancel()
	}

	conn, err := p.db.Conn(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrPoolExhausted, err)
		}
		if errors.Is(err, sql.ErrConnDone) {
			return nil, ErrPoolClosed
		}
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return conn, nil
}

// Ping verifies the backing database is still reachable.
func (p *StdPool) Ping(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.mu.Unlock()
	return p.db.PingContext(ctx)
}

// Stats reports current pool usage.
func (p *StdPool) Stats() Stats {
	s := p.db.Stats()
	return Stats{
		MaxOpen:   s.MaxOpenConnections,
		Open:      s.OpenConnections,
		InUse:     s.InUse,
		Idle:      s.Idle,
		WaitCount: s.WaitCount,
	}
}

// Close drains and terminates all pooled connections. Idempotent; after
// Close every Acquire fails with ErrPoolClosed.
func (p *StdPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()
	return p.db.Close()
}

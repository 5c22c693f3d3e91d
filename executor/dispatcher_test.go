package executor_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shrek82/stationd/dialect"
	"github.com/shrek82/stationd/executor"
	"github.com/shrek82/stationd/pool"
)

// countingPool wraps a StdPool and records the highest in-use gauge seen
// at acquire time.
type countingPool struct {
	inner    *pool.StdPool
	acquires atomic.Int64
	maxInUse atomic.Int64
}

func (p *countingPool) Acquire(ctx context.Context) (*sql.Conn, error) {
	conn, err := p.inner.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	p.acquires.Add(1)
	inUse := int64(p.inner.Stats().InUse)
	for {
		cur := p.maxInUse.Load()
		if inUse <= cur || p.maxInUse.CompareAndSwap(cur, inUse) {
			break
		}
	}
	return conn, nil
}

func (p *countingPool) Ping(ctx context.Context) error { return p.inner.Ping(ctx) }
func (p *countingPool) Stats() pool.Stats              { return p.inner.Stats() }
func (p *countingPool) Close() error                   { return p.inner.Close() }

func newCountingExecutor(t *testing.T, maxConns int) (*executor.Executor, *countingPool) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	std, err := pool.New("sqlite3", dsn, pool.Options{MinConns: 1, MaxConns: maxConns})
	if err != nil {
		t.Fatalf("failed to open pool: %v", err)
	}
	cp := &countingPool{inner: std}
	d, _ := dialect.Get("sqlite3")
	exec := executor.NewWithPool(cp, d)
	t.Cleanup(func() { exec.Close() })
	return exec, cp
}

func TestSingleWorkerRunsSequentially(t *testing.T) {
	exec, cp := newCountingExecutor(t, 4)

	stmts := make([]executor.Statement, 5)
	for i := range stmts {
		stmts[i] = executor.Statement{SQL: "SELECT 1", FetchResults: true}
	}
	outs := exec.ExecuteConcurrent(context.Background(), stmts, 1)

	if len(outs) != 5 {
		t.Fatalf("want 5 outcomes, got %d", len(outs))
	}
	for i, out := range outs {
		if out.Index != i || !out.Success {
			t.Errorf("outcome %d: index=%d success=%v", i, out.Index, out.Success)
		}
	}
	if got := cp.maxInUse.Load(); got > 1 {
		t.Errorf("maxWorkers=1 must never borrow more than one connection, saw %d", got)
	}
	if got := cp.acquires.Load(); got != 5 {
		t.Errorf("each statement borrows exactly once, saw %d acquires", got)
	}
}

func TestBorrowReleaseBalanced(t *testing.T) {
	exec, cp := newCountingExecutor(t, 3)

	stmts := []executor.Statement{
		{SQL: "SELECT 1", FetchResults: true},
		{SQL: "SELECT broken FROM missing", FetchResults: true},
		{SQL: "SELECT 2", FetchResults: true},
		{SQL: "SELECT 3", FetchResults: true},
		{SQL: "SELECT 4", FetchResults: true},
	}
	exec.ExecuteConcurrent(context.Background(), stmts, 3)

	if inUse := cp.Stats().InUse; inUse != 0 {
		t.Errorf("all borrowed connections must be released after the batch, %d still in use", inUse)
	}
	if max := cp.maxInUse.Load(); max > 3 {
		t.Errorf("never more than maxConns connections in use, saw %d", max)
	}
}

func TestWorkersClampedToBatchSize(t *testing.T) {
	exec, _ := newCountingExecutor(t, 2)
	outs := exec.ExecuteConcurrent(context.Background(), []executor.Statement{
		{SQL: "SELECT 1", FetchResults: true},
	}, 50)
	if len(outs) != 1 || !outs[0].Success {
		t.Fatalf("oversized maxWorkers should be harmless: %+v", outs)
	}
}

func TestAcquireFailureBecomesOutcome(t *testing.T) {
	exec, cp := newCountingExecutor(t, 2)
	cp.Close()

	outs := exec.ExecuteConcurrent(context.Background(), []executor.Statement{
		{SQL: "SELECT 1", FetchResults: true},
		{SQL: "SELECT 2", FetchResults: true},
	}, 2)
	if len(outs) != 2 {
		t.Fatalf("closed pool must still yield one outcome per statement, got %d", len(outs))
	}
	for i, out := range outs {
		if out.Success {
			t.Errorf("outcome %d should fail once the pool is closed", i)
		}
		if _, ok := out.Result.(executor.ErrorDetail); !ok {
			t.Errorf("outcome %d payload should be ErrorDetail, got %#v", i, out.Result)
		}
	}
}

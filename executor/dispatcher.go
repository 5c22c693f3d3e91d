package executor

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// executeBatch fans the batch out over a bounded worker pool and restores
// submission order. Each outcome lands in the slot of its original index,
// so completion order never leaks into the returned slice.
func (e *Executor) executeBatch(ctx context.Context, batch *Batch) ([]Outcome, error) {
	stmts := batch.Statements
	if len(stmts) == 0 {
		return []Outcome{}, nil
	}

	workers := batch.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(stmts) {
		workers = len(stmts)
	}

	log := e.logger
	if len(batch.fields) > 0 {
		log = log.WithFields(batch.fields)
	}
	log.Info("executing %d statements, max workers: %d", len(stmts), workers)

	start := time.Now()
	results := make([]Outcome, len(stmts))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.runOne(ctx, i, stmts[i])
			}
		}()
	}
	for i := range stmts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	succeeded := 0
	for _, out := range results {
		if out.Success {
			succeeded++
		}
	}
	log.Info("batch done: total=%d success=%d failed=%d elapsed=%v",
		len(stmts), succeeded, len(stmts)-succeeded, time.Since(start))

	return results, nil
}

// runOne executes a single statement on its own borrowed connection. The
// connection is released before the worker takes its next assignment. A
// panic escaping the runner is converted into a failed outcome so the
// batch always holds one outcome per statement.
func (e *Executor) runOne(ctx context.Context, index int, stmt Statement) (out Outcome) {
	if stmt.Name == "" {
		stmt.Name = defaultName(index)
	}
	out = Outcome{
		Index: index,
		Name:  stmt.Name,
		SQL:   truncateSQL(stmt.SQL),
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out.Success = false
			out.Duration = time.Since(start)
			out.Result = ErrorDetail{Message: fmt.Sprintf("statement aborted: %v", r)}
			e.stats.record(stmt.Name, out.Duration, false)
			e.logger.Error("task %q aborted: %v", stmt.Name, r)
		}
	}()

	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		out.Duration = time.Since(start)
		out.Result = ErrorDetail{Message: fmt.Sprintf("failed to acquire connection: %v", err)}
		e.stats.record(stmt.Name, out.Duration, false)
		e.logger.Error("task %q could not borrow a connection: %v", stmt.Name, err)
		return out
	}
	defer conn.Close()

	payload, ok := e.runStatement(ctx, conn, stmt)
	out.Duration = time.Since(start)
	out.Success = ok
	out.Result = payload
	e.stats.record(stmt.Name, out.Duration, ok)
	return out
}

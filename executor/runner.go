package executor

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// runStatement executes one statement on a borrowed connection and returns
// the outcome payload. It never returns an error: every failure, including
// timeouts and constraint violations, is captured as an ErrorDetail so the
// dispatcher can treat it as a normal result.
func (e *Executor) runStatement(ctx context.Context, conn *sql.Conn, stmt Statement) (payload any, ok bool) {
	if stmt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, stmt.Timeout)
		defer cancel()
	}

	args := e.dialect.BindParams(stmt.Params)
	start := time.Now()

	if isQuery(stmt.SQL) && stmt.FetchResults {
		res, err := e.query(ctx, conn, stmt.SQL, args)
		elapsed := time.Since(start)
		e.logger.SQL(stmt.Name, stmt.SQL, elapsed, err)
		if err != nil {
			return failureDetail(elapsed, err), false
		}
		return res, true
	}

	res, err := e.exec(ctx, conn, stmt.SQL, args)
	elapsed := time.Since(start)
	e.logger.SQL(stmt.Name, stmt.SQL, elapsed, err)
	if err != nil {
		return failureDetail(elapsed, err), false
	}
	return res, true
}

// query runs the read path: column names in declaration order, all rows
// eagerly materialized. No commit is issued.
func (e *Executor) query(ctx context.Context, conn *sql.Conn, sqlText string, args []any) (*QueryResult, error) {
	rows, err := conn.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var all [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, isBytes := v.([]byte); isBytes {
				values[i] = string(b)
			}
		}
		all = append(all, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &QueryResult{
		Columns:  columns,
		Rows:     all,
		RowCount: len(all),
	}, nil
}

// exec runs the write path inside an explicit transaction on the borrowed
// connection: commit on success, rollback on any failure.
func (e *Executor) exec(ctx context.Context, conn *sql.Conn, sqlText string, args []any) (*ExecResult, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, sqlText, args...)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		// Some drivers cannot report the count after DDL; the statement
		// itself still committed.
		affected = 0
	}
	return &ExecResult{
		AffectedRows: affected,
		Message:      "SQL executed successfully",
	}, nil
}

func failureDetail(elapsed time.Duration, err error) ErrorDetail {
	return ErrorDetail{
		Message: fmt.Sprintf("statement failed after %.2fs: %v", elapsed.Seconds(), err),
	}
}

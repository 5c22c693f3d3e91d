package executor

import (
	"fmt"
	"strings"
	"time"
)

// previewLimit caps the SQL text echoed back in an Outcome.
const previewLimit = 100

// Statement is one SQL text plus optional named parameters, submitted as
// part of a batch. Immutable once submitted.
type Statement struct {
	SQL          string
	Params       map[string]any
	Name         string
	FetchResults bool
	// Timeout optionally bounds this statement alone. When exceeded the
	// statement's outcome is a timeout error; siblings are unaffected.
	Timeout time.Duration
}

// Outcome is the per-statement result record. Exactly one Outcome exists
// per submitted Statement, success or not.
type Outcome struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	SQL     string `json:"sql"`
	Success bool   `json:"success"`
	// Result holds *QueryResult, *ExecResult or ErrorDetail.
	Result   any           `json:"result"`
	Duration time.Duration `json:"-"`
}

// QueryResult is the payload of a successful read.
type QueryResult struct {
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"row_count"`
}

// ExecResult is the payload of a successful write.
type ExecResult struct {
	AffectedRows int64  `json:"affected_rows"`
	Message      string `json:"message"`
}

// ErrorDetail is the payload of a failed statement.
type ErrorDetail struct {
	Message string `json:"message"`
}

// isQuery reports whether the statement takes the read path. The check is
// a trimmed, case-insensitive SELECT prefix: statements opening with a
// comment or a WITH clause land on the write path. Known heuristic;
// callers control it with FetchResults.
func isQuery(sqlText string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(sqlText)), "SELECT")
}

// truncateSQL returns the original text when it fits previewLimit
// characters, otherwise the first previewLimit characters plus "...".
func truncateSQL(sqlText string) string {
	runes := []rune(sqlText)
	if len(runes) <= previewLimit {
		return sqlText
	}
	return string(runes[:previewLimit]) + "..."
}

// defaultName labels unnamed statements by their 1-based position.
func defaultName(i int) string {
	return fmt.Sprintf("SQL_%d", i+1)
}

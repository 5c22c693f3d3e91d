package stationd

import (
	"github.com/shrek82/stationd/executor"
)

// Re-export the executor surface so callers only import the root package.
type Executor = executor.Executor
type Statement = executor.Statement
type Outcome = executor.Outcome
type QueryResult = executor.QueryResult
type ExecResult = executor.ExecResult
type ErrorDetail = executor.ErrorDetail

var (
	Open        = executor.Open
	NewWithPool = executor.NewWithPool
)

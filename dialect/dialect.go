// Package dialect maps a database/sql driver name to the pieces of behavior
// that differ per backend: how a DSN is built from the pool configuration
// and how a name→value parameter map is turned into driver arguments.
package dialect

import (
	"database/sql"
	"errors"
	"sort"

	"github.com/shrek82/stationd/config"
)

// ErrUnknownDialect is returned when no dialect is registered for a driver.
var ErrUnknownDialect = errors.New("unknown dialect")

// Dialect represents the database-specific configuration behavior.
type Dialect interface {
	// Name returns the database/sql driver name.
	Name() string
	// DSN builds the driver's data source name from the configuration.
	DSN(cfg config.Config) string
	// BindParams converts a parameter map into execution arguments.
	BindParams(params map[string]any) []any
}

var dialects = make(map[string]Dialect)

// Register registers a dialect under its driver name.
func Register(d Dialect) {
	dialects[d.Name()] = d
}

// Get retrieves a registered dialect by driver name.
func Get(name string) (Dialect, bool) {
	d, ok := dialects[name]
	return d, ok
}

// namedArgs converts a parameter map into sql.Named arguments, sorted by
// name so argument order is deterministic. Drivers without named-parameter
// support reject these at execution time, which surfaces as a normal
// per-statement failure.
func namedArgs(params map[string]any) []any {
	if len(params) == 0 {
		return nil
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		args = append(args, sql.Named(k, params[k]))
	}
	return args
}

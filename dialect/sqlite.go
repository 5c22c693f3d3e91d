package dialect

import (
	"github.com/shrek82/stationd/config"
)

func init() {
	Register(&sqlite{})
}

// sqlite treats Service as the database file path (or ":memory:").
// Used mainly by the test suite and local development.
type sqlite struct{}

func (s *sqlite) Name() string { return "sqlite3" }

func (s *sqlite) DSN(cfg config.Config) string {
	return cfg.Service
}

func (s *sqlite) BindParams(params map[string]any) []any {
	return namedArgs(params)
}

package dialect

import (
	go_ora "github.com/sijms/go-ora/v2"

	"github.com/shrek82/stationd/config"
)

func init() {
	Register(&oracle{})
}

// oracle is the production dialect. go-ora registers itself with
// database/sql under the driver name "oracle".
type oracle struct{}

func (o *oracle) Name() string { return "oracle" }

func (o *oracle) DSN(cfg config.Config) string {
	return go_ora.BuildUrl(cfg.Host, cfg.Port, cfg.Service, cfg.Username, cfg.Password, nil)
}

func (o *oracle) BindParams(params map[string]any) []any {
	return namedArgs(params)
}

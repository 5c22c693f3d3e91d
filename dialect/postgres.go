package dialect

import (
	"fmt"
	"net/url"

	"github.com/shrek82/stationd/config"
)

func init() {
	Register(&postgres{})
}

type postgres struct{}

func (p *postgres) Name() string { return "postgres" }

func (p *postgres) DSN(cfg config.Config) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Service,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (p *postgres) BindParams(params map[string]any) []any {
	return namedArgs(params)
}

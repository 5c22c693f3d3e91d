package dialect

import (
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/shrek82/stationd/config"
)

func init() {
	Register(&mysqlDialect{})
}

type mysqlDialect struct{}

func (m *mysqlDialect) Name() string { return "mysql" }

func (m *mysqlDialect) DSN(cfg config.Config) string {
	c := mysql.NewConfig()
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	c.DBName = cfg.Service
	c.ParseTime = true
	return c.FormatDSN()
}

func (m *mysqlDialect) BindParams(params map[string]any) []any {
	return namedArgs(params)
}

package dialect

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/shrek82/stationd/config"
)

var testCfg = config.Config{
	Host:     "db.example.com",
	Port:     1521,
	Service:  "ORCLPDB1",
	Username: "monitor",
	Password: "secret",
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"oracle", "mysql", "postgres", "sqlite3"} {
		d, ok := Get(name)
		if !ok {
			t.Fatalf("dialect %q not registered", name)
		}
		if d.Name() != name {
			t.Errorf("dialect %q reports name %q", name, d.Name())
		}
	}
	if _, ok := Get("mssql"); ok {
		t.Error("unregistered dialect should not resolve")
	}
}

func TestOracleDSN(t *testing.T) {
	d, _ := Get("oracle")
	dsn := d.DSN(testCfg)
	if !strings.HasPrefix(dsn, "oracle://") {
		t.Errorf("oracle DSN should be a go-ora URL, got %q", dsn)
	}
	for _, part := range []string{"db.example.com", "1521", "ORCLPDB1", "monitor"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("oracle DSN missing %q: %q", part, dsn)
		}
	}
}

func TestMySQLDSN(t *testing.T) {
	d, _ := Get("mysql")
	cfg := testCfg
	cfg.Port = 3306
	cfg.Service = "hydrology"
	dsn := d.DSN(cfg)
	if !strings.Contains(dsn, "tcp(db.example.com:3306)") || !strings.Contains(dsn, "/hydrology") {
		t.Errorf("unexpected mysql DSN %q", dsn)
	}
}

func TestPostgresDSN(t *testing.T) {
	d, _ := Get("postgres")
	cfg := testCfg
	cfg.Port = 5432
	dsn := d.DSN(cfg)
	if !strings.HasPrefix(dsn, "postgres://") || !strings.Contains(dsn, "db.example.com:5432") {
		t.Errorf("unexpected postgres DSN %q", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("postgres DSN should default sslmode=disable: %q", dsn)
	}
}

func TestSQLiteDSN(t *testing.T) {
	d, _ := Get("sqlite3")
	cfg := testCfg
	cfg.Service = "/tmp/stations.db"
	if dsn := d.DSN(cfg); dsn != "/tmp/stations.db" {
		t.Errorf("sqlite DSN should be the file path, got %q", dsn)
	}
}

func TestNamedArgsDeterministic(t *testing.T) {
	args := namedArgs(map[string]any{"b": 2, "a": 1, "c": 3})
	if len(args) != 3 {
		t.Fatalf("want 3 args, got %d", len(args))
	}
	names := make([]string, len(args))
	for i, a := range args {
		named, ok := a.(sql.NamedArg)
		if !ok {
			t.Fatalf("arg %d is not sql.NamedArg: %#v", i, a)
		}
		names[i] = named.Name
	}
	if names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("args should be sorted by name, got %v", names)
	}
	if namedArgs(nil) != nil {
		t.Error("empty params should bind no args")
	}
}

package executor

import (
	"errors"
	"strings"
	"testing"
)

func TestIsQuery(t *testing.T) {
	cases := []struct {
		sql  string
		want bool
	}{
		{"SELECT 1 FROM DUAL", true},
		{"select stcd from ST_STBPRP_B", true},
		{"  \n\tSeLeCt 1", true},
		{"INSERT INTO t VALUES (1)", false},
		{"UPDATE t SET a = 1", false},
		{"DELETE FROM t", false},
		// Known heuristic limits: WITH-headed and comment-headed reads
		// classify as writes.
		{"WITH x AS (SELECT 1) SELECT * FROM x", false},
		{"/* hint */ SELECT 1", false},
	}
	for _, c := range cases {
		if got := isQuery(c.sql); got != c.want {
			t.Errorf("isQuery(%q) = %v, want %v", c.sql, got, c.want)
		}
	}
}

func TestTruncateSQL(t *testing.T) {
	short := "SELECT 1 FROM DUAL"
	if got := truncateSQL(short); got != short {
		t.Errorf("short SQL should be returned unchanged, got %q", got)
	}

	exact := strings.Repeat("a", 100)
	if got := truncateSQL(exact); got != exact {
		t.Errorf("SQL of exactly 100 chars should not be truncated")
	}

	long := strings.Repeat("b", 150)
	got := truncateSQL(long)
	if got != strings.Repeat("b", 100)+"..." {
		t.Errorf("long SQL should be cut to 100 chars plus ellipsis, got %d chars", len(got))
	}

	// Multibyte text counts characters, not bytes.
	wide := strings.Repeat("站", 120)
	got = truncateSQL(wide)
	if got != strings.Repeat("站", 100)+"..." {
		t.Errorf("multibyte SQL truncated incorrectly: %d runes", len([]rune(got)))
	}
}

func TestDefaultName(t *testing.T) {
	if got := defaultName(0); got != "SQL_1" {
		t.Errorf("defaultName(0) = %q, want SQL_1", got)
	}
	if got := defaultName(4); got != "SQL_5" {
		t.Errorf("defaultName(4) = %q, want SQL_5", got)
	}
}

func TestRefusedOutcomes(t *testing.T) {
	stmts := []Statement{
		{SQL: "SELECT 1", Name: "first"},
		{SQL: "SELECT 2"},
	}
	outs := refusedOutcomes(stmts, errors.New("boom"))
	if len(outs) != 2 {
		t.Fatalf("want 2 outcomes, got %d", len(outs))
	}
	if outs[0].Name != "first" || outs[1].Name != "SQL_2" {
		t.Errorf("unexpected names: %q, %q", outs[0].Name, outs[1].Name)
	}
	for i, out := range outs {
		if out.Index != i || out.Success {
			t.Errorf("outcome %d: index=%d success=%v", i, out.Index, out.Success)
		}
		detail, ok := out.Result.(ErrorDetail)
		if !ok || detail.Message != "boom" {
			t.Errorf("outcome %d: unexpected payload %#v", i, out.Result)
		}
	}
}

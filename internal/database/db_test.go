package database

import (
	"strings"
	"testing"
)

func TestSettingsDSN(t *testing.T) {
	dsn := Settings{User: "app", Pass: "s3cret", Host: "db", Port: "3306", Name: "agency"}.DSN()
	if !strings.HasPrefix(dsn, "app:s3cret@tcp(db:3306)/agency?") {
		t.Fatalf("dsn = %q", dsn)
	}
	for _, want := range []string{"parseTime=true", "clientFoundRows=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %s", dsn, want)
		}
	}
}

func TestSettingsDSNWithoutPassword(t *testing.T) {
	dsn := Settings{User: "app", Host: "localhost", Port: "3307", Name: "agency"}.DSN()
	if !strings.HasPrefix(dsn, "app@tcp(localhost:3307)/agency") {
		t.Fatalf("dsn = %q", dsn)
	}
}

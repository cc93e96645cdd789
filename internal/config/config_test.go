package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Core.Telegram.AdminID = 42
	return cfg
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := normalize(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Roster.Path != "data/students.xlsx" {
		t.Errorf("roster path default = %q", cfg.Roster.Path)
	}
	if cfg.Roster.Sheet != "Sheet1" {
		t.Errorf("roster sheet default = %q", cfg.Roster.Sheet)
	}
	if cfg.Roster.StudentIDColumn != "A" || cfg.Roster.LastNameColumn != "D" {
		t.Errorf("column defaults = %q..%q", cfg.Roster.StudentIDColumn, cfg.Roster.LastNameColumn)
	}
	if cfg.Receipts.Dir != "data/receipts" {
		t.Errorf("receipts dir default = %q", cfg.Receipts.Dir)
	}
}

func TestNormalizeRequiresAdmin(t *testing.T) {
	cfg := &Config{}
	err := normalize(cfg)
	if err == nil || !strings.Contains(err.Error(), "admin_id") {
		t.Fatalf("expected admin_id error, got %v", err)
	}
}

func TestNormalizeUppercasesColumns(t *testing.T) {
	cfg := validConfig()
	cfg.Roster.FirstNameColumn = " c "
	if err := normalize(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Roster.FirstNameColumn != "C" {
		t.Fatalf("column = %q, want C", cfg.Roster.FirstNameColumn)
	}
}

func TestNormalizeRejectsBadColumn(t *testing.T) {
	cfg := validConfig()
	cfg.Roster.NationalIDColumn = "7"
	if err := normalize(cfg); err == nil {
		t.Fatal("expected error for non-letter column")
	}
}

func TestNormalizeRejectsNegativeTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Session.TTLMinutes = -1
	if err := normalize(cfg); err == nil {
		t.Fatal("expected error for negative ttl")
	}
}

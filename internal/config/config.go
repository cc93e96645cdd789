package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/langsoc/coursebot/core/config"
	coredatabase "github.com/langsoc/coursebot/core/database"
)

// PaymentConfig carries the card-to-card details and office instructions
// rendered in payment prompts.
type PaymentConfig struct {
	CardNumber    string `yaml:"card_number" envconfig:"CARD_NUMBER"`
	CardOwner     string `yaml:"card_owner" envconfig:"CARD_OWNER"`
	OfficeAddress string `yaml:"office_address" envconfig:"OFFICE_ADDRESS"`
	OfficeHours   string `yaml:"office_hours" envconfig:"OFFICE_HOURS"`
	SupportText   string `yaml:"support_text" envconfig:"SUPPORT_TEXT"`
}

// RosterConfig locates the student roster workbook and maps its columns.
// Columns are spreadsheet letters so the mapping survives schema shuffles.
type RosterConfig struct {
	Path             string `yaml:"path" envconfig:"ROSTER_PATH"`
	Sheet            string `yaml:"sheet" envconfig:"ROSTER_SHEET"`
	StudentIDColumn  string `yaml:"student_id_column" envconfig:"ROSTER_STUDENT_ID_COLUMN"`
	NationalIDColumn string `yaml:"national_id_column" envconfig:"ROSTER_NATIONAL_ID_COLUMN"`
	FirstNameColumn  string `yaml:"first_name_column" envconfig:"ROSTER_FIRST_NAME_COLUMN"`
	LastNameColumn   string `yaml:"last_name_column" envconfig:"ROSTER_LAST_NAME_COLUMN"`
}

// SessionConfig tunes the in-memory conversation store. TTLMinutes of 0
// keeps abandoned sessions forever, matching the reference behavior.
type SessionConfig struct {
	TTLMinutes int `yaml:"ttl_minutes" envconfig:"SESSION_TTL_MINUTES"`
}

// ReceiptsConfig controls where uploaded receipt images are kept.
type ReceiptsConfig struct {
	Dir string `yaml:"dir" envconfig:"RECEIPTS_DIR"`
}

// Config aggregates the application configuration on top of the shared core.
type Config struct {
	Core     coreconfig.Config   `yaml:"core"`
	Database coredatabase.Config `yaml:"database"`
	Payment  PaymentConfig       `yaml:"payment"`
	Roster   RosterConfig        `yaml:"roster"`
	Session  SessionConfig       `yaml:"session"`
	Receipts ReceiptsConfig      `yaml:"receipts"`
	SeedDemo bool                `yaml:"seed_demo" envconfig:"SEED_DEMO"`
}

// CoreConfig exposes the embedded core configuration for the shared runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) error {
	if cfg.Core.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram.admin_id is required")
	}

	if strings.TrimSpace(cfg.Roster.Path) == "" {
		cfg.Roster.Path = "data/students.xlsx"
	}
	if strings.TrimSpace(cfg.Roster.Sheet) == "" {
		cfg.Roster.Sheet = "Sheet1"
	}
	defaults := map[*string]string{
		&cfg.Roster.StudentIDColumn:  "A",
		&cfg.Roster.NationalIDColumn: "B",
		&cfg.Roster.FirstNameColumn:  "C",
		&cfg.Roster.LastNameColumn:   "D",
	}
	for field, def := range defaults {
		col := strings.ToUpper(strings.TrimSpace(*field))
		if col == "" {
			col = def
		}
		for _, r := range col {
			if r < 'A' || r > 'Z' {
				return fmt.Errorf("invalid roster column %q; expected spreadsheet letters", *field)
			}
		}
		*field = col
	}

	if strings.TrimSpace(cfg.Receipts.Dir) == "" {
		cfg.Receipts.Dir = "data/receipts"
	}
	if cfg.Session.TTLMinutes < 0 {
		return fmt.Errorf("session.ttl_minutes must be >= 0")
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API used by
// the daily delivery summary. The integration is optional: an empty access
// token disables it.
type WhatsAppConfig struct {
	AccessToken      string
	PhoneNumberID    string
	BaseURL          string
	APIVersion       string
	OperationsNumber string
}

// Enabled reports whether the WhatsApp integration is configured.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.OperationsNumber != ""
}

// SheetsConfig contains configuration for the Google Sheets financial export.
// Optional: empty credentials disable the export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the Sheets export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// SchedulerConfig holds the cron expressions for the background jobs.
type SchedulerConfig struct {
	GeneratorSchedule string
	SummarySchedule   string
	ExportSchedule    string
	Timezone          string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "estoque"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:      os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID:    os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:          getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:       getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			OperationsNumber: os.Getenv("WHATSAPP_OPERATIONS_NUMBER"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Scheduler: SchedulerConfig{
			GeneratorSchedule: getenvWithDefault("GENERATOR_CRON_SCHEDULE", "0 * * * *"),
			SummarySchedule:   getenvWithDefault("SUMMARY_CRON_SCHEDULE", "30 5 * * *"),
			ExportSchedule:    getenvWithDefault("EXPORT_CRON_SCHEDULE", "0 7 * * 1"),
			Timezone:          getenvWithDefault("TIMEZONE", "America/Sao_Paulo"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated. The
// WhatsApp and Sheets integrations are optional and only checked for internal
// consistency when partially set.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.WhatsApp.AccessToken != "" {
		if c.WhatsApp.PhoneNumberID == "" {
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided when WHATSAPP_TOKEN is set")
		}
		if c.WhatsApp.OperationsNumber == "" {
			return errors.New("WHATSAPP_OPERATIONS_NUMBER must be provided when WHATSAPP_TOKEN is set")
		}
		if c.WhatsApp.BaseURL == "" {
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		}
		if c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided when credentials are set")
	}

	if c.Scheduler.GeneratorSchedule == "" {
		return errors.New("GENERATOR_CRON_SCHEDULE must be provided")
	}
	if c.Scheduler.SummarySchedule == "" {
		return errors.New("SUMMARY_CRON_SCHEDULE must be provided")
	}
	if c.Scheduler.ExportSchedule == "" {
		return errors.New("EXPORT_CRON_SCHEDULE must be provided")
	}
	if c.Scheduler.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

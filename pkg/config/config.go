package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Sink drivers accepted in SINK_DRIVER.
const (
	SinkFirestore = "firestore"
	SinkAirtable  = "airtable"
	SinkSQLite    = "sqlite"
)

// Autofill bindings accepted in AUTOFILL_PROVIDER.
const (
	AutofillNone      = "none"
	AutofillQuery     = "query"
	AutofillInstagram = "instagram"
)

// Config holds all application configuration values
type Config struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	GinMode           string        `env:"GIN_MODE" envDefault:"debug"`
	CORSAllowedOrigin string        `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	DefaultCountry    string        `env:"DEFAULT_COUNTRY" envDefault:"NO"`

	SinkDriver string `env:"SINK_DRIVER"`

	FirebaseAPIKey      string `env:"FIREBASE_API_KEY"`
	FirebaseProjectID   string `env:"FIREBASE_PROJECT_ID"`
	FirestoreCollection string `env:"FIRESTORE_COLLECTION" envDefault:"leads"`
	FirestoreBaseURL    string `env:"FIRESTORE_BASE_URL" envDefault:"https://firestore.googleapis.com/v1"`

	AirtableAPIKey     string `env:"AIRTABLE_API_KEY"`
	AirtableBaseID     string `env:"AIRTABLE_BASE_ID"`
	AirtableLeadsTable string `env:"AIRTABLE_LEADS_TABLE" envDefault:"Leads"`

	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/leads.db"`

	TextMagicUsername string `env:"TEXTMAGIC_USERNAME"`
	TextMagicAPIKey   string `env:"TEXTMAGIC_API_KEY"`

	AutofillProvider      string `env:"AUTOFILL_PROVIDER" envDefault:"query"`
	InstagramClientID     string `env:"INSTAGRAM_CLIENT_ID"`
	InstagramClientSecret string `env:"INSTAGRAM_CLIENT_SECRET"`
	InstagramRedirectURL  string `env:"INSTAGRAM_REDIRECT_URL"`
	OAuthStateSecret      string `env:"OAUTH_STATE_SECRET"`
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.SinkDriver = strings.ToLower(strings.TrimSpace(cfg.SinkDriver))
	cfg.AutofillProvider = strings.ToLower(strings.TrimSpace(cfg.AutofillProvider))
	cfg.DefaultCountry = strings.ToUpper(strings.TrimSpace(cfg.DefaultCountry))
	return &cfg, nil
}

// HasFirestore mirrors the minimum configuration the hosted database needs.
func (c *Config) HasFirestore() bool {
	return c.FirebaseAPIKey != "" && c.FirebaseProjectID != ""
}

func (c *Config) HasAirtable() bool {
	return c.AirtableAPIKey != "" && c.AirtableBaseID != "" && c.AirtableLeadsTable != ""
}

// HasTextMagic reports whether confirmation messages can be sent.
func (c *Config) HasTextMagic() bool {
	return c.TextMagicUsername != "" && c.TextMagicAPIKey != ""
}

func (c *Config) HasInstagram() bool {
	return c.InstagramClientID != "" && c.InstagramClientSecret != "" &&
		c.InstagramRedirectURL != "" && c.OAuthStateSecret != ""
}

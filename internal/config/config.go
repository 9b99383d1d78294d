// Package config loads all environment-provided settings into a single
// immutable Config that mains build once and hand to constructors.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// MongoConfig holds the document database connection settings.
type MongoConfig struct {
	Username string `envconfig:"MONGO_USERNAME"`
	Password string `envconfig:"MONGO_PASSWORD"`
	Host     string `envconfig:"MONGO_HOST" default:"localhost"`
	Port     int    `envconfig:"MONGO_PORT" default:"27017"`
	Database string `envconfig:"MONGO_DATABASE" default:"footballDB"`
}

// URI builds the mongodb connection string. Credentials are omitted when no
// username is configured (local dev instances often run without auth).
func (m MongoConfig) URI() string {
	if m.Username == "" {
		return fmt.Sprintf("mongodb://%s:%d", m.Host, m.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%d", m.Username, m.Password, m.Host, m.Port)
}

// Auth0Config holds the identity provider settings. Only the secret, domain
// and audience are needed to verify ID tokens; client id and callback are kept
// because the deployment documents them alongside the rest.
type Auth0Config struct {
	ClientID     string `envconfig:"AUTH0_CLIENT_ID"`
	ClientSecret string `envconfig:"AUTH0_CLIENT_SECRET"`
	Domain       string `envconfig:"AUTH0_DOMAIN"`
	CallbackURL  string `envconfig:"AUTH0_CALLBACK_URL"`
	Audience     string `envconfig:"AUTH0_AUDIENCE"`
}

// Issuer is the expected iss claim for tokens minted by this tenant.
func (a Auth0Config) Issuer() string {
	return fmt.Sprintf("https://%s/", a.Domain)
}

// SheetConfig holds the Google sheet import settings.
type SheetConfig struct {
	CredentialsFile       string `envconfig:"GOOGLE_KEY_FILE"`
	SpreadsheetID         string `envconfig:"GOOGLE_SHEET_ID"`
	SpreadsheetName       string `envconfig:"GOOGLE_SHEET_NAME"`
	TransactionsWorksheet string `envconfig:"TRANSACTIONS_WORKSHEET" default:"Transactions"`
	GamesWorksheet        string `envconfig:"GAMES_WORKSHEET" default:"Games"`
	SummaryWorksheet      string `envconfig:"SUMMARY_WORKSHEET" default:"Summary"`
}

// Config is the root configuration object.
type Config struct {
	Mongo     MongoConfig
	Auth0     Auth0Config
	Sheet     SheetConfig
	SecretKey string `envconfig:"SECRET_KEY"`
	ExportDir string `envconfig:"EXPORT_DIRECTORY" default:"."`
	AdminUser string `envconfig:"ADMIN_USER_SUBJECT"`
	Tenant    string `envconfig:"TENANT" default:"club"`
}

// Load reads a .env file when one is present, then processes the documented
// environment variables into a Config. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("processing environment: %w", err)
	}
	return cfg, nil
}

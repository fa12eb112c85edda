package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4343"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	PubMedBaseURL  string `envconfig:"PUBMED_BASE_URL" default:"https://eutils.ncbi.nlm.nih.gov/entrez/eutils"`
	PubMedAPIKey   string `envconfig:"PUBMED_API_KEY"`
	PubMedRetMax   int    `envconfig:"PUBMED_RETMAX" default:"200"`
	CTGovBaseURL   string `envconfig:"CTGOV_BASE_URL" default:"https://clinicaltrials.gov/api/v2/studies"`
	CTGovPageSize  int    `envconfig:"CTGOV_PAGE_SIZE" default:"100"`
	CTGovMaxTrials int    `envconfig:"CTGOV_MAX_TRIALS" default:"500"`

	// Zeitfenster für Profil-Läufe (Tage rückwirkend), analog zum 30-Tage-Fenster der PubMed-UI.
	IngestWindowDays int `envconfig:"INGEST_WINDOW_DAYS" default:"30"`

	// Verhalten bei doc_id-Konflikt über Snapshots hinweg: skip | update | reject
	IngestOnConflict string `envconfig:"INGEST_ON_CONFLICT" default:"update"`

	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 6 * * *"`

	// S3 für Raw-JSON-Provenance der ingestierten Dokumente
	RawS3Key    string `envconfig:"RAW_S3_KEY" required:"true"`
	RawS3Secret string `envconfig:"RAW_S3_SECRET" required:"true"`
	RawS3URL    string `envconfig:"RAW_S3_URL" required:"true"`
	RawS3Region string `envconfig:"RAW_S3_REGION" required:"true"`
	RawS3Bucket string `envconfig:"RAW_S3_BUCKET" required:"true"`

	// Source-Konfiguration
	EnabledSources string `envconfig:"ENABLED_SOURCES" default:"pubmed,ctgov"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}

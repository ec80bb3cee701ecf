package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Env            string
	ListenAddr     string
	MaxConnections int
	LogLevel       string
	LogFormat      string
	CORSOrigins    []string

	StoreDriver string
	DatabaseURL string
	SQLitePath  string

	TextAnalysisURL      string
	TextAnalysisTimeout  time.Duration
	MediaAnalysisURL     string
	MediaAnalysisTimeout time.Duration
	SightengineAPIUser   string
	SightengineAPISecret string
	LedgerURL            string

	ContentBucket        string
	ContentRegion        string
	ContentEndpoint      string
	ContentPublicBaseURL string
	UploadDir            string
	MaxUploadBytes       int64

	ReconcileWorkers  int
	ReconcileInterval time.Duration

	OTLPEndpoint string
}

// New returns a viper instance with every key defaulted and bound to its
// environment variable of the same upper-case name.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_env", "development")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("max_connections", 512)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("cors_origin", "*")
	v.SetDefault("store_driver", StorePostgres)
	v.SetDefault("database_url", "")
	v.SetDefault("sqlite_path", "threatledger.db")
	v.SetDefault("text_analysis_url", "")
	v.SetDefault("text_analysis_timeout", 10*time.Second)
	v.SetDefault("media_analysis_url", "https://api.sightengine.com/1.0/check.json")
	v.SetDefault("media_analysis_timeout", 20*time.Second)
	v.SetDefault("sightengine_api_user", "")
	v.SetDefault("sightengine_api_secret", "")
	v.SetDefault("ledger_url", "")
	v.SetDefault("content_bucket", "")
	v.SetDefault("content_region", "us-east-1")
	v.SetDefault("content_endpoint", "")
	v.SetDefault("content_public_base_url", "")
	v.SetDefault("upload_dir", filepath.Join(os.TempDir(), "threatledger-uploads"))
	v.SetDefault("max_upload_bytes", 25<<20)
	v.SetDefault("reconcile_workers", 1)
	v.SetDefault("reconcile_interval", 5*time.Second)
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	return v
}

// Load reads the configuration from the environment.
func Load() (Config, error) { return FromViper(New()) }

// FromViper builds a Config. Missing required values are reported together
// in the error, but the populated Config is still returned so callers can
// decide which ones are fatal for them.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Env:            v.GetString("app_env"),
		ListenAddr:     v.GetString("listen_addr"),
		MaxConnections: v.GetInt("max_connections"),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
		CORSOrigins:    splitList(v.GetString("cors_origin")),

		StoreDriver: strings.ToLower(v.GetString("store_driver")),
		DatabaseURL: v.GetString("database_url"),
		SQLitePath:  v.GetString("sqlite_path"),

		TextAnalysisURL:      v.GetString("text_analysis_url"),
		TextAnalysisTimeout:  v.GetDuration("text_analysis_timeout"),
		MediaAnalysisURL:     v.GetString("media_analysis_url"),
		MediaAnalysisTimeout: v.GetDuration("media_analysis_timeout"),
		SightengineAPIUser:   v.GetString("sightengine_api_user"),
		SightengineAPISecret: v.GetString("sightengine_api_secret"),
		LedgerURL:            v.GetString("ledger_url"),

		ContentBucket:        v.GetString("content_bucket"),
		ContentRegion:        v.GetString("content_region"),
		ContentEndpoint:      v.GetString("content_endpoint"),
		ContentPublicBaseURL: v.GetString("content_public_base_url"),
		UploadDir:            v.GetString("upload_dir"),
		MaxUploadBytes:       v.GetInt64("max_upload_bytes"),

		ReconcileWorkers:  v.GetInt("reconcile_workers"),
		ReconcileInterval: v.GetDuration("reconcile_interval"),

		OTLPEndpoint: v.GetString("otel_exporter_otlp_endpoint"),
	}
	return cfg, cfg.Validate()
}

// Validate reports every missing or inconsistent setting.
func (c Config) Validate() error {
	errs := []error{c.ValidateStore()}
	if c.TextAnalysisURL == "" {
		errs = append(errs, errors.New("TEXT_ANALYSIS_URL not set"))
	}
	if c.SightengineAPIUser == "" || c.SightengineAPISecret == "" {
		errs = append(errs, errors.New("SIGHTENGINE_API_USER and SIGHTENGINE_API_SECRET must be set"))
	}
	if c.LedgerURL == "" {
		errs = append(errs, errors.New("LEDGER_URL not set"))
	}
	if c.ContentBucket == "" {
		errs = append(errs, errors.New("CONTENT_BUCKET not set"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// ValidateStore checks only what the migrate and reconcile commands need.
func (c Config) ValidateStore() error {
	switch c.StoreDriver {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL not set")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH not set")
		}
	default:
		return fmt.Errorf("STORE_DRIVER %q is not one of %s, %s", c.StoreDriver, StorePostgres, StoreSQLite)
	}
	return nil
}

// splitList parses a comma separated setting, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the importer
type Config struct {
	Vendure  VendureConfig  `mapstructure:"vendure"`
	Import   ImportConfig   `mapstructure:"import"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// VendureConfig holds Admin API connection settings
type VendureConfig struct {
	AdminAPI             string `mapstructure:"admin_api"`
	AdminUser            string `mapstructure:"admin_user"`
	AdminPass            string `mapstructure:"admin_pass"`
	ChannelToken         string `mapstructure:"channel_token"`
	DefaultLanguage      string `mapstructure:"default_language"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	RetryBaseDelayMs     int    `mapstructure:"retry_base_delay_ms"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
}

// ImportConfig holds source file and row-processing settings
type ImportConfig struct {
	CSVPath            string `mapstructure:"csv_path"`
	XLSXPath           string `mapstructure:"xlsx_path"`
	DefaultStockOnHand int    `mapstructure:"default_stock_on_hand"`
	AssetWorkers       int    `mapstructure:"asset_workers"`
	AssetTimeout       int    `mapstructure:"asset_timeout"`
	MaxGalleryImages   int    `mapstructure:"max_gallery_images"`
	MaxRowRetries      int    `mapstructure:"max_row_retries"`
	CheckpointInterval int    `mapstructure:"checkpoint_interval"`
	ReindexAfterImport bool   `mapstructure:"reindex_after_import"`
}

// DatabaseConfig holds the import-ledger database connection
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details for the retry queue and
// progress checkpoints
type RedisConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindLegacyEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config.yaml is fine, env vars and defaults carry the run.
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// bindLegacyEnv keeps the short env var names the original import scripts
// were driven with.
func bindLegacyEnv() {
	_ = viper.BindEnv("vendure.admin_api", "VENDURE_ADMIN_API", "ADMIN_API")
	_ = viper.BindEnv("vendure.admin_user", "VENDURE_ADMIN_USER", "ADMIN_USER")
	_ = viper.BindEnv("vendure.admin_pass", "VENDURE_ADMIN_PASS", "ADMIN_PASS")
	_ = viper.BindEnv("vendure.channel_token", "VENDURE_CHANNEL_TOKEN", "VENDURE_CHANNEL")
	_ = viper.BindEnv("vendure.default_language", "VENDURE_DEFAULT_LANGUAGE", "DEFAULT_LANGUAGE")
	_ = viper.BindEnv("import.csv_path", "IMPORT_CSV_PATH", "CSV_PATH")
	_ = viper.BindEnv("import.xlsx_path", "IMPORT_XLSX_PATH", "XLSX_PATH")
	_ = viper.BindEnv("import.default_stock_on_hand", "IMPORT_DEFAULT_STOCK_ON_HAND", "DEFAULT_STOCK_ON_HAND")
}

func setDefaults() {
	viper.SetDefault("vendure.admin_api", "http://localhost:3000/admin-api")
	viper.SetDefault("vendure.admin_user", "superadmin")
	viper.SetDefault("vendure.admin_pass", "superadmin")
	viper.SetDefault("vendure.channel_token", "")
	viper.SetDefault("vendure.default_language", "es")
	viper.SetDefault("vendure.timeout", 30)
	viper.SetDefault("vendure.max_retries", 3)
	viper.SetDefault("vendure.retry_base_delay_ms", 300)
	viper.SetDefault("vendure.max_requests_per_second", 10)

	viper.SetDefault("import.csv_path", "")
	viper.SetDefault("import.xlsx_path", "")
	viper.SetDefault("import.default_stock_on_hand", 100)
	viper.SetDefault("import.asset_workers", 3)
	viper.SetDefault("import.asset_timeout", 10)
	viper.SetDefault("import.max_gallery_images", 5)
	viper.SetDefault("import.max_row_retries", 2)
	viper.SetDefault("import.checkpoint_interval", 10)
	viper.SetDefault("import.reindex_after_import", true)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "importer")
	viper.SetDefault("database.user", "importer_user")
	viper.SetDefault("database.password", "importer_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.consumer_group", "importer_consumer")
}

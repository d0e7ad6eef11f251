package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KinoBytes/filmtally-cli/internal/utils"
)

// Global configuration structure.
type Global struct {
	// Dataset source. DatasetName pins the local filename; empty means
	// keep the name the remote host reports.
	FileID      string `mapstructure:"file_id" yaml:"file_id"`
	DatasetName string `mapstructure:"dataset_name" yaml:"dataset_name"`

	// Local layout
	RawDir       string `mapstructure:"raw_dir" yaml:"raw_dir"`
	ProcessedDir string `mapstructure:"processed_dir" yaml:"processed_dir"`
	HistoryDB    string `mapstructure:"history_db" yaml:"history_db"`

	// HTTP configuration
	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	// Reporting
	ReportTop int `mapstructure:"report_top" yaml:"report_top"`

	// Extra column-name patterns for color detection, appended to the
	// built-in synonym list.
	ColorPatterns []string `mapstructure:"color_patterns" yaml:"color_patterns"`

	// Optional S3-compatible mirror
	S3Enabled   bool   `mapstructure:"s3_enabled" yaml:"s3_enabled"`
	S3Endpoint  string `mapstructure:"s3_endpoint" yaml:"s3_endpoint"`
	S3Region    string `mapstructure:"s3_region" yaml:"s3_region"`
	S3Bucket    string `mapstructure:"s3_bucket" yaml:"s3_bucket"`
	S3Key       string `mapstructure:"s3_key" yaml:"s3_key"`
	S3AccessKey string `mapstructure:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key" yaml:"s3_secret_key"`
}

// DefaultFileID is the public file identifier of the movie dataset on the
// cloud host. Overridable via config file or FILMTALLY_FILE_ID.
const DefaultFileID = "1yjfZurxrTVTTTvEo-Uqkk-21_sqqzD4W"

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.filmtally/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".filmtally")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("FILMTALLY")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("file_id", DefaultFileID)
	v.SetDefault("dataset_name", "")
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("report_top", 10)
	v.SetDefault("color_patterns", []string{})
	v.SetDefault("s3_enabled", false)
	v.SetDefault("s3_region", "us-east-1")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".filmtally")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve data dirs: default under ~/.filmtally/data
	if c.RawDir == "" || c.ProcessedDir == "" || c.HistoryDB == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		base := filepath.Join(home, ".filmtally")
		if c.RawDir == "" {
			c.RawDir = filepath.Join(base, "data", "raw")
		}
		if c.ProcessedDir == "" {
			c.ProcessedDir = filepath.Join(base, "data", "processed")
		}
		if c.HistoryDB == "" {
			c.HistoryDB = filepath.Join(base, "history.db")
		}
	}
	return &c, nil
}

// EnsureDirs creates the raw and processed data directories.
func EnsureDirs(c *Global) error {
	for _, dir := range []string{c.RawDir, c.ProcessedDir} {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}
	return nil
}

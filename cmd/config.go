package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KinoBytes/filmtally-cli/internal/columns"
	cfgpkg "github.com/KinoBytes/filmtally-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set FilmTally configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("file_id: %s\n", cfg.FileID)
		if cfg.DatasetName != "" {
			fmt.Printf("dataset_name: %s\n", cfg.DatasetName)
		}
		fmt.Printf("raw_dir: %s\n", cfg.RawDir)
		fmt.Printf("processed_dir: %s\n", cfg.ProcessedDir)
		fmt.Printf("history_db: %s\n", cfg.HistoryDB)
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Printf("report_top: %d\n", cfg.ReportTop)
		if len(cfg.ColorPatterns) > 0 {
			fmt.Printf("color_patterns: %s\n", strings.Join(cfg.ColorPatterns, ", "))
		}
		fmt.Printf("s3_enabled: %v\n", cfg.S3Enabled)
		if cfg.S3Endpoint != "" {
			fmt.Printf("s3_endpoint: %s\n", cfg.S3Endpoint)
		}
		if cfg.S3Region != "" {
			fmt.Printf("s3_region: %s\n", cfg.S3Region)
		}
		if cfg.S3Bucket != "" {
			fmt.Printf("s3_bucket: %s\n", cfg.S3Bucket)
		}
		if cfg.S3Key != "" {
			fmt.Printf("s3_key: %s\n", cfg.S3Key)
		}
		if cfg.S3AccessKey != "" {
			fmt.Printf("s3_access_key: %s\n", cfg.S3AccessKey)
		}
		if cfg.S3SecretKey != "" {
			fmt.Printf("s3_secret_key: %s\n", mask(cfg.S3SecretKey))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "file_id":
			cfg.FileID = val
		case "dataset_name":
			cfg.DatasetName = val
		case "raw_dir":
			cfg.RawDir = val
		case "processed_dir":
			cfg.ProcessedDir = val
		case "history_db":
			cfg.HistoryDB = val
		case "http_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
			}
			cfg.HTTPTimeoutSec = i
		case "report_top":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for report_top: %v", val)
			}
			cfg.ReportTop = i
		case "color_patterns":
			var patterns []string
			for _, p := range strings.Split(val, ",") {
				if p = strings.TrimSpace(p); p != "" {
					patterns = append(patterns, p)
				}
			}
			if _, err := columns.New(patterns...); err != nil {
				return fmt.Errorf("invalid color_patterns: %w", err)
			}
			cfg.ColorPatterns = patterns
		case "s3_enabled":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for s3_enabled: %v", val)
			}
			cfg.S3Enabled = b
		case "s3_endpoint":
			cfg.S3Endpoint = val
		case "s3_region":
			cfg.S3Region = val
		case "s3_bucket":
			cfg.S3Bucket = val
		case "s3_key":
			cfg.S3Key = val
		case "s3_access_key":
			cfg.S3AccessKey = val
		case "s3_secret_key":
			cfg.S3SecretKey = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}

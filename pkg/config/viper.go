// Package config is responsible for initializing the application's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/johannesgottschalk/hadithAnalyzer/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and enables
// reading from environment variables. This function is designed to be called
// once at application startup so configuration is loaded and available to
// all other packages. A non-empty cfgFile overrides the search paths.
func InitConfig(cfgFile string) {
	// --- Set Search Paths ---
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")                     // Current working directory
		viper.AddConfigPath("/etc/hadithanalyzer/")  // System-wide configuration
		viper.AddConfigPath("$HOME/.hadithanalyzer") // User-specific configuration
	}

	// --- Set Defaults ---
	const defaultUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"Chrome/120.0.0.0 Safari/537.36"
	viper.SetDefault("scraper.user_agent", defaultUA)
	viper.SetDefault("scraper.workers", 3)
	viper.SetDefault("scraper.wait_timeout", "25s")
	viper.SetDefault("scraper.headless", true)
	viper.SetDefault("scraper.backend", "browser")
	viper.SetDefault("scraper.checkpoint_dir", "checkpoints")
	viper.SetDefault("scraper.output_dir", ".")
	viper.SetDefault("scraper.host_qps", 1.0)

	// Retry policy around each volume's page walk.
	viper.SetDefault("scraper.retry_attempts", 3)
	viper.SetDefault("scraper.retry_base_delay", "1s")
	viper.SetDefault("scraper.retry_backoff_factor", 2.0)

	// Known source collections keyed by their URL slug.
	viper.SetDefault("collections.muslim.base_url", "https://sunnah.com/muslim")
	viper.SetDefault("collections.muslim.volumes", 56)
	viper.SetDefault("collections.bukhari.base_url", "https://sunnah.com/bukhari")
	viper.SetDefault("collections.bukhari.volumes", 97)

	// --- Environment Variables ---
	viper.SetEnvPrefix("HADITH") // e.g., HADITH_SCRAPER_WORKERS=5
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// --- Read Config File ---
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; proceed with defaults and env vars.
			logging.L.Debug("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}

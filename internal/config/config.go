// Package config wraps viper access to the routepin JSON config file.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// MapConfig holds the initial view of the map surface.
type MapConfig struct {
	CenterLat float64 `json:"centerLat" mapstructure:"centerLat"`
	CenterLng float64 `json:"centerLng" mapstructure:"centerLng"`
	Zoom      int     `json:"zoom" mapstructure:"zoom"`
}

// ExportConfig holds route export settings.
type ExportConfig struct {
	OutputDir string `json:"outputDir" mapstructure:"outputDir"`
}

// Load reads configuration from the JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("listenAddr", "127.0.0.1:8000")
	viper.SetDefault("defaultRouteColor", "red")

	viper.SetDefault("map.centerLat", 48.1374)
	viper.SetDefault("map.centerLng", 11.5755)
	viper.SetDefault("map.zoom", 13)

	viper.SetDefault("export.outputDir", "./exports")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "routepin-metrics")

	viper.SetConfigName("routepin.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetMapConfig returns the initial map view settings.
func GetMapConfig() MapConfig {
	return MapConfig{
		CenterLat: viper.GetFloat64("map.centerLat"),
		CenterLng: viper.GetFloat64("map.centerLng"),
		Zoom:      viper.GetInt("map.zoom"),
	}
}

// GetExportConfig returns route export settings.
func GetExportConfig() ExportConfig {
	return ExportConfig{
		OutputDir: viper.GetString("export.outputDir"),
	}
}

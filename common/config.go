package common

import (
	log "github.com/sirupsen/logrus"

	"dev.lkm.one/crosscheck/util"
)

// AppName - Application name.
const AppName = "Crosscheck"

// AppVersion - Application version.
const AppVersion = "1.1.0"

// AppAuthor - Application author.
const AppAuthor = "LKM"

// PrometheusNamespace - Prometheus metrics namespace.
const PrometheusNamespace = "crosscheck"

// Config - Runtime settings. Loaded once and passed by reference, never global.
type Config struct {
	HTTPEndpoint          string  `json:"http_endpoint"`
	KeyPath               string  `json:"key_path"`
	CredentialsPath       string  `json:"credentials_path"`
	FailureDBPath         string  `json:"failure_db_path"`
	InfluxDBURL           string  `json:"influxdb_url"`
	InfluxDBToken         string  `json:"influxdb_token"`
	InfluxDBOrg           string  `json:"influxdb_org"`
	LookbackSeconds       int     `json:"lookback_seconds"`
	MaxInFlight           int     `json:"max_in_flight"`
	RequestTimeoutSeconds float64 `json:"request_timeout"`
}

// DefaultConfig - Settings used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		HTTPEndpoint:          ":8080",
		KeyPath:               "env_config.key",
		CredentialsPath:       "env_config.enc",
		FailureDBPath:         "failure_db",
		LookbackSeconds:       86400,
		MaxInFlight:           8,
		RequestTimeoutSeconds: 30.0,
	}
}

// LoadConfig - Load the configuration file. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		// Allow no config
		return config, nil
	}

	log.WithFields(log.Fields{
		"config_path": path,
	}).Info("Loading config")

	if err := util.ParseJSONFile(config, path); err != nil {
		return nil, err
	}

	// Validate
	if config.LookbackSeconds <= 0 {
		config.LookbackSeconds = 86400
	}
	if config.MaxInFlight <= 0 {
		config.MaxInFlight = 8
	}
	if config.RequestTimeoutSeconds <= 0 {
		config.RequestTimeoutSeconds = 30.0
	}

	return config, nil
}

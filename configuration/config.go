package configuration

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"math"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"trafficwarden/errors"
)

const (
	packageName = "configuration"
)

// InstanceConfig describes one managed instance and its traffic budget.
type InstanceConfig struct {
	Region      string  `json:"region"`
	InstanceID  string  `json:"id"`
	ThresholdGB float64 `json:"threshold"`
}

// Config holds the application configuration
type Config struct {
	AccessKeyID     string
	AccessKeySecret string
	Instances       []InstanceConfig
	LogLevel        string
	Schedule        string
	HTTPTimeout     int
}

// Initialize sets up the configuration system
func Initialize() (*Config, error) {
	logger := zap.L().With(
		zap.String("package", packageName),
		zap.String("function", "Initialize"),
	)

	// Set default values
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SCHEDULE", "@every 10m")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 15)

	// Configure Viper to read from environment
	viper.AutomaticEnv()

	// Read from .env file
	viper.SetConfigFile(".env")
	if err := viper.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New(errors.ErrConfigParse, "error reading config file",
				map[string]interface{}{
					"config_file": ".env",
				}, err)
		}
		logger.Info("No .env file found, using environment variables and defaults",
			zap.String("operation", "config_loading"),
		)
	}

	// Validate credentials
	accessKeyID := viper.GetString("ACCESS_KEY_ID")
	if accessKeyID == "" {
		return nil, errors.New(errors.ErrCredentialsMissing, "missing ACCESS_KEY_ID",
			map[string]interface{}{
				"config_key": "ACCESS_KEY_ID",
			}, nil)
	}

	accessKeySecret := viper.GetString("ACCESS_KEY_SECRET")
	if accessKeySecret == "" {
		return nil, errors.New(errors.ErrCredentialsMissing, "missing ACCESS_KEY_SECRET",
			map[string]interface{}{
				"config_key": "ACCESS_KEY_SECRET",
			}, nil)
	}

	// Parse and validate the instance list
	instances, err := ParseInstances(viper.GetString("INSTANCES"))
	if err != nil {
		return nil, err
	}
	logger.Info("Instance list configured",
		zap.Int("instances", len(instances)),
		zap.String("operation", "config_validation"),
	)

	// Validate the per-call timeout
	timeout := viper.GetInt("HTTP_TIMEOUT_SECONDS")
	if timeout <= 0 {
		return nil, errors.New(errors.ErrConfigInvalid, "invalid HTTP_TIMEOUT_SECONDS",
			map[string]interface{}{
				"config_key": "HTTP_TIMEOUT_SECONDS",
				"value":      timeout,
			}, nil)
	}
	logger.Info("HTTP timeout configured",
		zap.Int("seconds", timeout),
		zap.String("operation", "config_validation"),
	)

	schedule := viper.GetString("SCHEDULE")
	if schedule == "" {
		return nil, errors.New(errors.ErrConfigInvalid, "invalid SCHEDULE",
			map[string]interface{}{
				"config_key": "SCHEDULE",
			}, nil)
	}
	logger.Info("Schedule configured",
		zap.String("schedule", schedule),
		zap.String("operation", "config_validation"),
	)

	config := &Config{
		AccessKeyID:     accessKeyID,
		AccessKeySecret: accessKeySecret,
		Instances:       instances,
		LogLevel:        viper.GetString("LOG_LEVEL"),
		Schedule:        schedule,
		HTTPTimeout:     timeout,
	}

	logger.Info("Configuration loaded successfully",
		zap.String("operation", "config_complete"),
	)
	return config, nil
}

// ParseInstances decodes the INSTANCES JSON array. A malformed array is
// fatal; individual entries that fail validation are skipped with a warning.
func ParseInstances(raw string) ([]InstanceConfig, error) {
	logger := zap.L().With(
		zap.String("package", packageName),
		zap.String("function", "ParseInstances"),
	)

	if raw == "" {
		return nil, errors.New(errors.ErrConfigInvalid, "missing INSTANCES",
			map[string]interface{}{
				"config_key": "INSTANCES",
			}, nil)
	}

	var entries []InstanceConfig
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, errors.New(errors.ErrConfigParse, "malformed INSTANCES JSON",
			map[string]interface{}{
				"config_key": "INSTANCES",
			}, err)
	}

	instances := make([]InstanceConfig, 0, len(entries))
	for _, entry := range entries {
		if !entry.valid() {
			logger.Warn("Skipping invalid instance entry",
				zap.String("operation", "config_validation"),
				zap.String("region", entry.Region),
				zap.String("instance_id", entry.InstanceID),
				zap.Float64("threshold_gb", entry.ThresholdGB),
			)
			continue
		}
		instances = append(instances, entry)
	}

	if len(instances) == 0 {
		return nil, errors.New(errors.ErrConfigInvalid, "no valid instance entries in INSTANCES",
			map[string]interface{}{
				"config_key": "INSTANCES",
				"entries":    len(entries),
			}, nil)
	}

	return instances, nil
}

func (c InstanceConfig) valid() bool {
	if c.Region == "" || c.InstanceID == "" {
		return false
	}
	if math.IsNaN(c.ThresholdGB) || math.IsInf(c.ThresholdGB, 0) {
		return false
	}
	return c.ThresholdGB >= 0
}

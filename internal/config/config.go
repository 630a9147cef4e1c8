package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"kalpha/domain/reliability"
	"kalpha/internal/errors"
	"kalpha/internal/krippendorff"
)

// Config represents the complete application configuration
type Config struct {
	Compute ComputeConfig
	Input   InputConfig
	Output  OutputConfig
	Logging LoggingConfig
}

// ComputeConfig holds defaults for the alpha computation
type ComputeConfig struct {
	Level         string // Empty means the caller must supply one
	Bootstrap     int
	Confidence    float64
	Seed          *int64
	Workers       int
	Normalization string
	Interval      string
}

// InputConfig holds rating-file loading settings
type InputConfig struct {
	Separator  string
	Missing    []string // Extra missing-value spellings, comma separated in KALPHA_MISSING
	Header     bool
	ItemLabels bool
	KeepLabels bool
}

// OutputConfig holds result export settings
type OutputConfig struct {
	Format string // Empty means infer from the output file extension
}

// LoggingConfig holds structured logging settings
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	compute, err := loadComputeConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load compute configuration")
	}

	input, err := loadInputConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load input configuration")
	}

	config := &Config{
		Compute: *compute,
		Input:   *input,
		Output:  *loadOutputConfig(),
		Logging: *loadLoggingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadComputeConfig() (*ComputeConfig, error) {
	seed, err := getEnvInt64Ptr("KALPHA_SEED")
	if err != nil {
		return nil, err
	}
	bootstrap, err := getEnvIntOrDefault("KALPHA_BOOTSTRAP", 0)
	if err != nil {
		return nil, err
	}
	confidence, err := getEnvFloatOrDefault("KALPHA_CONFIDENCE", krippendorff.DefaultConfidence)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvIntOrDefault("KALPHA_WORKERS", 0)
	if err != nil {
		return nil, err
	}

	return &ComputeConfig{
		Level:         getEnvOrDefault("KALPHA_LEVEL", ""),
		Bootstrap:     bootstrap,
		Confidence:    confidence,
		Seed:          seed,
		Workers:       workers,
		Normalization: getEnvOrDefault("KALPHA_NORMALIZATION", "canonical"),
		Interval:      getEnvOrDefault("KALPHA_INTERVAL", "bias-corrected"),
	}, nil
}

func loadInputConfig() (*InputConfig, error) {
	in := &InputConfig{
		Separator: getEnvOrDefault("KALPHA_SEPARATOR", "auto"),
		Missing:   splitList(os.Getenv("KALPHA_MISSING")),
	}
	for key, dst := range map[string]*bool{
		"KALPHA_HEADER":      &in.Header,
		"KALPHA_ITEM_LABELS": &in.ItemLabels,
		"KALPHA_KEEP_LABELS": &in.KeepLabels,
	} {
		value, err := getEnvBoolOrDefault(key, false)
		if err != nil {
			return nil, err
		}
		*dst = value
	}
	return in, nil
}

func loadOutputConfig() *OutputConfig {
	return &OutputConfig{
		Format: strings.ToLower(getEnvOrDefault("KALPHA_OUTPUT_FORMAT", "")),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:  strings.ToLower(getEnvOrDefault("KALPHA_LOG_LEVEL", "warn")),
		Format: strings.ToLower(getEnvOrDefault("KALPHA_LOG_FORMAT", "text")),
	}
}

func validateConfig(config *Config) error {
	c := config.Compute
	if c.Level != "" {
		if _, err := reliability.ParseLevel(c.Level); err != nil {
			return errors.ConfigInvalid(err.Error())
		}
	}
	if c.Bootstrap < 0 {
		return errors.ConfigInvalid(fmt.Sprintf("KALPHA_BOOTSTRAP must be non-negative, got %d", c.Bootstrap))
	}
	if c.Confidence <= 0 || c.Confidence >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("KALPHA_CONFIDENCE must be between 0 and 1, got %v", c.Confidence))
	}
	if c.Workers < 0 {
		return errors.ConfigInvalid(fmt.Sprintf("KALPHA_WORKERS must be non-negative, got %d", c.Workers))
	}
	if _, err := reliability.ParseNormalization(c.Normalization); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	if _, err := reliability.ParseIntervalMethod(c.Interval); err != nil {
		return errors.ConfigInvalid(err.Error())
	}

	switch config.Input.Separator {
	case "auto", ",", ";", "\t", `\t`, "tab", "|":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("KALPHA_SEPARATOR %q is not supported", config.Input.Separator))
	}

	switch config.Output.Format {
	case "", "json", "csv", "txt", "xlsx", "html":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("KALPHA_OUTPUT_FORMAT %q is not supported", config.Output.Format))
	}

	switch config.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("KALPHA_LOG_LEVEL %q is not supported", config.Logging.Level))
	}
	if config.Logging.Format != "text" && config.Logging.Format != "json" {
		return errors.ConfigInvalid(fmt.Sprintf("KALPHA_LOG_FORMAT %q is not supported", config.Logging.Format))
	}
	return nil
}

// Options converts the compute defaults into engine options. The level
// override wins over KALPHA_LEVEL when non-empty.
func (c ComputeConfig) Options(level string) (krippendorff.Options, error) {
	if level == "" {
		level = c.Level
	}
	if level == "" {
		return krippendorff.Options{}, errors.ConfigInvalid("parameter 'level' is required; choose from nominal, ordinal, interval, ratio")
	}
	lvl, err := reliability.ParseLevel(level)
	if err != nil {
		return krippendorff.Options{}, errors.ConfigInvalid(err.Error())
	}
	norm, err := reliability.ParseNormalization(c.Normalization)
	if err != nil {
		return krippendorff.Options{}, errors.ConfigInvalid(err.Error())
	}
	method, err := reliability.ParseIntervalMethod(c.Interval)
	if err != nil {
		return krippendorff.Options{}, errors.ConfigInvalid(err.Error())
	}

	opts := krippendorff.DefaultOptions(lvl)
	opts.Bootstrap = c.Bootstrap
	opts.Confidence = c.Confidence
	opts.Seed = c.Seed
	opts.Workers = c.Workers
	opts.Normalization = norm
	opts.Interval = method
	return opts, nil
}

// MissingValues converts the extra missing spellings into engine sentinels.
// Numeric spellings become numeric sentinels, the rest label sentinels.
func (c InputConfig) MissingValues() []reliability.Value {
	out := make([]reliability.Value, 0, len(c.Missing))
	for _, tok := range c.Missing {
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			out = append(out, reliability.Num(f))
			continue
		}
		out = append(out, reliability.Label(tok))
	}
	return out
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault and getEnvFloatOrDefault fall back only when the
// variable is unset; a malformed value is a configuration error
func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return intValue, nil
}

func getEnvFloatOrDefault(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(floatValue) {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be a number, got %q", key, value))
	}
	return floatValue, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, errors.ConfigInvalid(fmt.Sprintf("%s must be true or false, got %q", key, value))
	}
	return boolValue, nil
}

// getEnvInt64Ptr is strict: a set but malformed seed is an error, not a default
func getEnvInt64Ptr(key string) (*int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return nil, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return &parsed, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

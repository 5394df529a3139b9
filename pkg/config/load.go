package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides
// for that.
func LoadConfig(path string) (*Config, error) {
	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. An empty path skips the file, so a
// deployment can be configured from the environment alone.
//
// The loading sequence is:
//  1. Load .env from the working directory, if present
//  2. Load YAML from file on top of defaults
//  3. Apply environment variable overrides
//  4. Validate final configuration
//
// Environment variables follow the naming convention AYA_SECTION_FIELD
// (e.g., AYA_MODEL_ENDPOINT). The variable names of the original deployment
// (DATABRICKS_ENDPOINT, DATABRICKS_PAT, HOST, PORT, FRONTEND_URL,
// ENVIRONMENT) are honoured too; AYA_ variables win when both are set.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	var (
		cfg *Config
		err error
	)
	if path == "" {
		cfg = NewDefault()
	} else if cfg, err = readConfig(path); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads environment variables from the given files, or ".env"
// when none are given. Missing files are skipped. Variables already set in
// the process environment are never overwritten.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load environment file %q: %w", f, err)
		}
	}
	return nil
}

func readConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := NewDefault()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	applyLegacyEnv(cfg)

	if val := os.Getenv("AYA_ENVIRONMENT"); val != "" {
		cfg.Environment = val
	}

	// Server overrides
	if val := os.Getenv("AYA_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	setDuration("AYA_SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	setDuration("AYA_SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	setDuration("AYA_SERVER_REQUEST_TIMEOUT", &cfg.Server.RequestTimeout)
	setDuration("AYA_SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	if val := os.Getenv("AYA_SERVER_CORS_ALLOWED_ORIGINS"); val != "" {
		cfg.Server.CORS.AllowedOrigins = splitList(val)
	}
	setBool("AYA_SERVER_CORS_ENABLED", &cfg.Server.CORS.Enabled)
	if val := os.Getenv("AYA_SERVER_ADMIN_API_KEYS"); val != "" {
		var keys []APIKeyConfig
		for i, k := range splitList(val) {
			keys = append(keys, APIKeyConfig{Name: fmt.Sprintf("key-%d", i+1), Key: k})
		}
		cfg.Server.Admin.APIKeys = keys
	}

	// Model overrides
	if val := os.Getenv("AYA_MODEL_ENDPOINT"); val != "" {
		cfg.Model.Endpoint = val
	}
	if val := os.Getenv("AYA_MODEL_TOKEN"); val != "" {
		cfg.Model.Token = val
	}
	if val := os.Getenv("AYA_MODEL_TOKEN_FILE"); val != "" {
		cfg.Model.TokenFile = val
	}
	setDuration("AYA_MODEL_TIMEOUT", &cfg.Model.Timeout)
	if val := os.Getenv("AYA_MODEL_MAX_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Model.MaxTokens = i
		}
	}
	if val := os.Getenv("AYA_MODEL_TEMPERATURE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Model.Temperature = &f
		}
	}
	if val := os.Getenv("AYA_MODEL_TOP_P"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Model.TopP = &f
		}
	}

	// Session overrides
	if val := os.Getenv("AYA_SESSIONS_MAX_MESSAGES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Sessions.MaxMessages = i
		}
	}
	setDuration("AYA_SESSIONS_MAX_AGE", &cfg.Sessions.MaxAge)
	if val, ok := os.LookupEnv("AYA_SESSIONS_CLEANUP_SCHEDULE"); ok {
		cfg.Sessions.CleanupSchedule = val
	}
	setBool("AYA_SESSIONS_RATE_LIMIT_ENABLED", &cfg.Sessions.RateLimit.Enabled)

	// Privacy overrides
	setBool("AYA_PRIVACY_ENABLED", &cfg.Privacy.Enabled)

	// Telemetry overrides
	if val := os.Getenv("AYA_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("AYA_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	setBool("AYA_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	setBool("AYA_TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	if val := os.Getenv("AYA_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("AYA_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

// applyLegacyEnv maps the variable names used by the original deployment.
func applyLegacyEnv(cfg *Config) {
	if val := os.Getenv("DATABRICKS_ENDPOINT"); val != "" {
		cfg.Model.Endpoint = val
	}
	if val := os.Getenv("DATABRICKS_PAT"); val != "" {
		cfg.Model.Token = val
	}
	if val := os.Getenv("ENVIRONMENT"); val != "" {
		cfg.Environment = val
	}
	if val := os.Getenv("FRONTEND_URL"); val != "" {
		cfg.Server.CORS.AllowedOrigins = splitList(val)
	}

	host, port := os.Getenv("HOST"), os.Getenv("PORT")
	if host != "" || port != "" {
		curHost, curPort, err := net.SplitHostPort(cfg.Server.ListenAddress)
		if err != nil {
			curHost, curPort = "0.0.0.0", "8000"
		}
		if host != "" {
			curHost = host
		}
		if port != "" {
			curPort = port
		}
		cfg.Server.ListenAddress = net.JoinHostPort(curHost, curPort)
	}
}

func setDuration(key string, dst *time.Duration) {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func setBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func splitList(val string) []string {
	var out []string
	for _, s := range strings.Split(val, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

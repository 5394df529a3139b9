package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable the loader reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABRICKS_ENDPOINT", "DATABRICKS_PAT", "HOST", "PORT", "FRONTEND_URL", "ENVIRONMENT",
		"AYA_ENVIRONMENT", "AYA_SERVER_LISTEN_ADDRESS", "AYA_SERVER_CORS_ALLOWED_ORIGINS",
		"AYA_MODEL_ENDPOINT", "AYA_MODEL_TOKEN", "AYA_MODEL_TIMEOUT", "AYA_MODEL_MAX_TOKENS",
		"AYA_MODEL_TEMPERATURE", "AYA_MODEL_TOP_P", "AYA_SESSIONS_MAX_MESSAGES",
		"AYA_PRIVACY_ENABLED", "AYA_TELEMETRY_LOGGING_LEVEL", "AYA_TELEMETRY_LOGGING_FORMAT",
		"AYA_TELEMETRY_METRICS_ENABLED", "AYA_TELEMETRY_TRACING_ENABLED", "AYA_SERVER_ADMIN_API_KEYS",
		"AYA_MODEL_TOKEN_FILE",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
environment: staging
server:
  listen_address: "127.0.0.1:9000"
  read_timeout: 10s
model:
  endpoint: "https://example.cloud.databricks.com/serving-endpoints/claude/invocations"
  token: "dapi-test"
  timeout: 20s
  temperature: 0
sessions:
  max_messages: 10
privacy:
  enabled: false
telemetry:
  logging:
    level: debug
    format: text
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Environment != "staging" {
		t.Errorf("expected environment %q, got %q", "staging", cfg.Environment)
	}
	if cfg.Server.ListenAddress != "127.0.0.1:9000" {
		t.Errorf("expected listen address %q, got %q", "127.0.0.1:9000", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("expected read timeout 10s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Model.Timeout != 20*time.Second {
		t.Errorf("expected model timeout 20s, got %v", cfg.Model.Timeout)
	}
	if cfg.Model.Temperature == nil || *cfg.Model.Temperature != 0 {
		t.Errorf("expected explicit zero temperature to survive defaults, got %v", cfg.Model.Temperature)
	}
	if cfg.Model.TopP == nil || *cfg.Model.TopP != DefaultTopP {
		t.Errorf("expected default top_p, got %v", cfg.Model.TopP)
	}
	if cfg.Sessions.MaxMessages != 10 {
		t.Errorf("expected max messages 10, got %d", cfg.Sessions.MaxMessages)
	}
	if cfg.Privacy.Enabled {
		t.Error("expected privacy screening disabled")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled by default when omitted")
	}
	if !cfg.Server.CORS.Enabled {
		t.Error("expected CORS enabled by default when omitted")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped not-exist error, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "model: [unclosed")
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadConfig_MissingCredentials(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	_, err := LoadConfig(path)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	fields := map[string]bool{}
	for _, fe := range verr.Errors {
		fields[fe.Field] = true
	}
	if !fields["model.endpoint"] || !fields["model.token"] {
		t.Errorf("expected endpoint and token errors, got %+v", verr.Errors)
	}
}

func TestLoadConfigWithEnvOverrides_EnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABRICKS_ENDPOINT", "https://legacy.example.com/invocations")
	t.Setenv("DATABRICKS_PAT", "legacy-token")
	t.Setenv("PORT", "9100")
	t.Setenv("FRONTEND_URL", "https://aya.example.org, https://staff.example.org")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Model.Endpoint != "https://legacy.example.com/invocations" {
		t.Errorf("endpoint = %q", cfg.Model.Endpoint)
	}
	if cfg.Model.Token != "legacy-token" {
		t.Errorf("token = %q", cfg.Model.Token)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:9100" {
		t.Errorf("listen address = %q", cfg.Server.ListenAddress)
	}
	if len(cfg.Server.CORS.AllowedOrigins) != 2 || cfg.Server.CORS.AllowedOrigins[1] != "https://staff.example.org" {
		t.Errorf("allowed origins = %v", cfg.Server.CORS.AllowedOrigins)
	}
}

func TestLoadConfigWithEnvOverrides_Precedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
model:
  endpoint: "https://file.example.com/invocations"
  token: "file-token"
  max_tokens: 500
`)
	t.Setenv("DATABRICKS_ENDPOINT", "https://legacy.example.com/invocations")
	t.Setenv("AYA_MODEL_ENDPOINT", "https://aya.example.com/invocations")
	t.Setenv("AYA_MODEL_MAX_TOKENS", "800")
	t.Setenv("AYA_MODEL_TEMPERATURE", "0.2")
	t.Setenv("AYA_TELEMETRY_LOGGING_LEVEL", "warn")
	t.Setenv("AYA_PRIVACY_ENABLED", "false")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Model.Endpoint != "https://aya.example.com/invocations" {
		t.Errorf("endpoint = %q, want AYA_ override", cfg.Model.Endpoint)
	}
	if cfg.Model.Token != "file-token" {
		t.Errorf("token = %q, want file value", cfg.Model.Token)
	}
	if cfg.Model.MaxTokens != 800 {
		t.Errorf("max tokens = %d", cfg.Model.MaxTokens)
	}
	if cfg.Model.Temperature == nil || *cfg.Model.Temperature != 0.2 {
		t.Errorf("temperature = %v", cfg.Model.Temperature)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("logging level = %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Privacy.Enabled {
		t.Error("expected privacy disabled by env")
	}
}

func TestLoadDotEnv(t *testing.T) {
	// godotenv never overrides a variable that is set, even to "".
	t.Setenv("AYA_DOTENV_PROBE", "")
	os.Unsetenv("AYA_DOTENV_PROBE")

	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("AYA_DOTENV_PROBE=from-dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("AYA_DOTENV_PROBE"); got != "from-dotenv" {
		t.Errorf("AYA_DOTENV_PROBE = %q", got)
	}

	t.Setenv("AYA_DOTENV_PROBE", "from-process")
	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("AYA_DOTENV_PROBE"); got != "from-process" {
		t.Errorf("process value overwritten: %q", got)
	}
}

func TestLoadConfigWithEnvOverrides_AdminKeys(t *testing.T) {
	clearEnv(t)
	t.Setenv("AYA_MODEL_ENDPOINT", "https://aya.example.com/invocations")
	t.Setenv("AYA_MODEL_TOKEN", "dapi-test")
	t.Setenv("AYA_SERVER_ADMIN_API_KEYS", "ops-key-0123456789, oncall-key-0123456789")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	keys := cfg.Server.Admin.APIKeys
	if len(keys) != 2 {
		t.Fatalf("expected 2 admin keys, got %d", len(keys))
	}
	if keys[0].Name != "key-1" || keys[1].Name != "key-2" {
		t.Errorf("names = %q, %q", keys[0].Name, keys[1].Name)
	}
	if keys[1].Key != "oncall-key-0123456789" || keys[1].Disabled {
		t.Errorf("second key = %+v", keys[1])
	}
}

package config

import "testing"

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("listen address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Model.Timeout != DefaultModelTimeout {
		t.Errorf("model timeout = %v", cfg.Model.Timeout)
	}
	if cfg.Model.MaxTokens != 1000 {
		t.Errorf("max tokens = %d", cfg.Model.MaxTokens)
	}
	if *cfg.Model.Temperature != 0.7 || *cfg.Model.TopP != 0.9 {
		t.Errorf("temperature/top_p = %v/%v", *cfg.Model.Temperature, *cfg.Model.TopP)
	}
	if cfg.Model.FallbackModel != "claude-3-sonnet" {
		t.Errorf("fallback model = %q", cfg.Model.FallbackModel)
	}
	if cfg.Sessions.MaxMessages != 20 {
		t.Errorf("max messages = %d", cfg.Sessions.MaxMessages)
	}
	if !cfg.Privacy.Enabled || !cfg.Telemetry.Metrics.Enabled || !cfg.Telemetry.Logging.RedactPII {
		t.Error("expected privacy, metrics and log redaction enabled by default")
	}
	if cfg.Telemetry.Tracing.Enabled {
		t.Error("expected tracing disabled by default")
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	zero := 0.0
	cfg := &Config{}
	cfg.Model.Temperature = &zero
	cfg.Model.MaxTokens = 10
	cfg.Sessions.CleanupSchedule = "0 * * * *"

	ApplyDefaults(cfg)

	if *cfg.Model.Temperature != 0 {
		t.Errorf("temperature = %v, want 0", *cfg.Model.Temperature)
	}
	if cfg.Model.MaxTokens != 10 {
		t.Errorf("max tokens = %d, want 10", cfg.Model.MaxTokens)
	}
	if cfg.Sessions.CleanupSchedule != "0 * * * *" {
		t.Errorf("cleanup schedule = %q", cfg.Sessions.CleanupSchedule)
	}
}

func TestApplyDefaults_DoesNotAliasSlices(t *testing.T) {
	a, b := &Config{}, &Config{}
	ApplyDefaults(a)
	ApplyDefaults(b)

	a.Server.CORS.AllowedMethods[0] = "PATCH"
	if b.Server.CORS.AllowedMethods[0] == "PATCH" || DefaultCORSMethods[0] == "PATCH" {
		t.Error("default slices are shared between configs")
	}
}

func TestApplyDefaults_NamesAdminKeys(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Admin.APIKeys = []APIKeyConfig{{Name: "ops", Key: "a"}, {Key: "b"}}
	ApplyDefaults(cfg)

	if got := cfg.Server.Admin.APIKeys[0].Name; got != "ops" {
		t.Errorf("explicit name overwritten: %q", got)
	}
	if got := cfg.Server.Admin.APIKeys[1].Name; got != "key-2" {
		t.Errorf("default name = %q, want key-2", got)
	}
}

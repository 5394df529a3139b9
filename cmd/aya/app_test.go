package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"aya-hq/companion/pkg/chat"
	"aya-hq/companion/pkg/cli"
	"aya-hq/companion/pkg/config"
	"aya-hq/companion/pkg/providers"
	"aya-hq/companion/pkg/server"
)

// fakeModel serves canned model replies and counts requests.
type fakeModel struct {
	status   int
	reply    string
	requests atomic.Int64
}

func (m *fakeModel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.requests.Add(1)
	if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if m.status != 0 && m.status != http.StatusOK {
		w.WriteHeader(m.status)
		_, _ = w.Write([]byte(`{"error":"unavailable"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": "test-model",
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": m.reply}},
		},
		"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 8},
	})
}

func newTestApp(t *testing.T, model *fakeModel) *app {
	t.Helper()

	upstream := httptest.NewServer(model)
	t.Cleanup(upstream.Close)

	cfg := config.NewDefault()
	cfg.Model.Endpoint = upstream.URL
	cfg.Model.Token = "test-token"
	cfg.Model.Timeout = 5 * time.Second
	cfg.Sessions.CleanupSchedule = ""

	a, err := newApp(cfg, io.Discard)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	t.Cleanup(a.close)
	return a
}

func TestNewAppWiring(t *testing.T) {
	a := newTestApp(t, &fakeModel{reply: "ok"})

	if a.limiter == nil {
		t.Error("limiter should be built when rate limiting is enabled")
	}
	if got := a.assistant.Provider(); got != config.DefaultModelName {
		t.Errorf("provider = %q, want %q", got, config.DefaultModelName)
	}
	checks := a.health.ListChecks()
	if len(checks) != 1 || checks[0] != config.DefaultModelName {
		t.Errorf("health checks = %v, want [%s]", checks, config.DefaultModelName)
	}
	if a.tracer.Enabled() {
		t.Error("tracing should be disabled by default")
	}
}

func TestNewAppRateLimitDisabled(t *testing.T) {
	upstream := httptest.NewServer(&fakeModel{reply: "ok"})
	defer upstream.Close()

	cfg := config.NewDefault()
	cfg.Model.Endpoint = upstream.URL
	cfg.Model.Token = "test-token"
	cfg.Sessions.RateLimit.Enabled = false

	a, err := newApp(cfg, io.Discard)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	defer a.close()

	if a.limiter != nil {
		t.Error("limiter should be nil when rate limiting is disabled")
	}
}

func TestNewAppMissingEndpoint(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Model.Token = "test-token"

	_, err := newApp(cfg, io.Discard)
	if err == nil {
		t.Fatal("newApp() error = nil, want config error")
	}
	if code := cli.ExitCode(err); code != cli.ExitConfig {
		t.Errorf("ExitCode() = %d, want %d", code, cli.ExitConfig)
	}
}

func TestNewAppTokenFile(t *testing.T) {
	upstream := httptest.NewServer(&fakeModel{reply: "OK"})
	defer upstream.Close()

	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("test-token\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := config.NewDefault()
	cfg.Model.Endpoint = upstream.URL
	cfg.Model.TokenFile = path
	cfg.Sessions.CleanupSchedule = ""

	a, err := newApp(cfg, io.Discard)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	defer a.close()

	if status := a.assistant.HealthCheck(context.Background()); !status.Healthy() {
		t.Errorf("health = %+v, want healthy with the file credential", status)
	}
}

func TestAsk(t *testing.T) {
	model := &fakeModel{reply: "The AYA program offers support groups and resources."}
	a := newTestApp(t, model)

	var out bytes.Buffer
	err := ask(context.Background(), a.chat, cli.NewFormatter(cli.FormatText), &out, chat.Request{
		Message:  "What does the program offer?",
		Language: "en",
	})
	if err != nil {
		t.Fatalf("ask() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{model.reply, chat.PhoneHref, chat.ProgramURL} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if a.sessions.Len() != 1 {
		t.Errorf("sessions = %d, want 1", a.sessions.Len())
	}
}

func TestAskUpstreamFailure(t *testing.T) {
	a := newTestApp(t, &fakeModel{status: http.StatusServiceUnavailable})

	var out bytes.Buffer
	err := ask(context.Background(), a.chat, cli.NewFormatter(cli.FormatJSON), &out, chat.Request{
		Message:  "Hola",
		Language: "es",
	})
	if err == nil {
		t.Fatal("ask() error = nil, want command error")
	}
	var cmdErr *cli.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error = %T, want *cli.CommandError", err)
	}

	var resp chat.Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if resp.ErrorKind != providers.KindUpstreamUnavailable {
		t.Errorf("error_kind = %q, want %q", resp.ErrorKind, providers.KindUpstreamUnavailable)
	}
	if resp.Message != chat.ErrorMessage("es") {
		t.Errorf("message = %q, want the Spanish apology", resp.Message)
	}
}

func TestAskValidationError(t *testing.T) {
	a := newTestApp(t, &fakeModel{reply: "ok"})

	err := ask(context.Background(), a.chat, cli.NewFormatter(cli.FormatText), io.Discard, chat.Request{Message: "   "})
	if code := cli.ExitCode(err); code != cli.ExitConfig {
		t.Errorf("ExitCode() = %d, want %d (err = %v)", code, cli.ExitConfig, err)
	}
}

func TestAskInteractive(t *testing.T) {
	model := &fakeModel{reply: "Noted."}
	a := newTestApp(t, model)

	in := strings.NewReader("first question\n\nsecond question\n")
	var out bytes.Buffer
	err := askInteractive(context.Background(), a.chat, cli.NewFormatter(cli.FormatText), in, &out, "", "en")
	if err != nil {
		t.Fatalf("askInteractive() error = %v", err)
	}

	if got := model.requests.Load(); got != 2 {
		t.Errorf("model requests = %d, want 2", got)
	}
	if a.sessions.Len() != 1 {
		t.Fatalf("sessions = %d, want 1 shared session", a.sessions.Len())
	}
	if got := strings.Count(out.String(), "Noted."); got != 2 {
		t.Errorf("replies printed = %d, want 2", got)
	}
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantErr     bool
		wantStatus  string
		wantCodeOut int
	}{
		{name: "healthy", status: http.StatusOK, wantStatus: "healthy", wantCodeOut: http.StatusOK},
		{name: "unhealthy", status: http.StatusServiceUnavailable, wantErr: true, wantStatus: "unhealthy", wantCodeOut: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, &fakeModel{status: tt.status, reply: "OK"})

			var out bytes.Buffer
			err := probe(context.Background(), a.assistant, cli.NewFormatter(cli.FormatJSON), &out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("probe() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && cli.ExitCode(err) != cli.ExitUnhealthy {
				t.Errorf("ExitCode() = %d, want %d", cli.ExitCode(err), cli.ExitUnhealthy)
			}

			var got struct {
				Provider   string `json:"provider"`
				Status     string `json:"status"`
				StatusCode int    `json:"status_code"`
			}
			if err := json.Unmarshal(out.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
			}
			if got.Provider != config.DefaultModelName {
				t.Errorf("provider = %q, want %q", got.Provider, config.DefaultModelName)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.StatusCode != tt.wantCodeOut {
				t.Errorf("status_code = %d, want %d", got.StatusCode, tt.wantCodeOut)
			}
		})
	}
}

func TestAppServerRoutes(t *testing.T) {
	a := newTestApp(t, &fakeModel{reply: "Hello from AYA."})

	ts := httptest.NewServer(a.server().Handler())
	defer ts.Close()

	body := strings.NewReader(`{"message":"Hello","language":"en"}`)
	resp, err := http.Post(ts.URL+"/api/chat/message", "application/json", body)
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got chat.Response
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if got.Message != "Hello from AYA." || got.SessionID == "" {
		t.Errorf("response = %+v", got)
	}

	ver, err := http.Get(ts.URL + "/version")
	if err != nil {
		t.Fatalf("GET /version error = %v", err)
	}
	ver.Body.Close()
	if ver.StatusCode != http.StatusOK {
		t.Errorf("/version status = %d, want 200", ver.StatusCode)
	}
}

func TestWaitForServerReady(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Server.ListenAddress = "127.0.0.1:0"

	t.Run("ready", func(t *testing.T) {
		srv := server.New(cfg, server.Deps{})
		ctx, cancel := context.WithCancel(context.Background())
		errChan := make(chan error, 1)
		go func() { errChan <- srv.Start(ctx) }()

		if err := waitForServerReady(srv, errChan, 2*time.Second); err != nil {
			t.Fatalf("waitForServerReady() error = %v", err)
		}
		cancel()
		if err := <-errChan; err != nil {
			t.Errorf("Start() error = %v", err)
		}
	})

	t.Run("start fails", func(t *testing.T) {
		srv := server.New(cfg, server.Deps{})
		errChan := make(chan error, 1)
		errChan <- errors.New("listen failed")

		if err := waitForServerReady(srv, errChan, time.Second); err == nil {
			t.Error("waitForServerReady() error = nil, want start error")
		}
	})
}

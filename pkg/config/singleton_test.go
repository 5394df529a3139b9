package config

import (
	"sync"
	"testing"
)

func resetGlobal() {
	SetConfig(nil)
	initOnce = sync.Once{}
	initErr = nil
}

func TestInitialize(t *testing.T) {
	resetGlobal()
	defer resetGlobal()
	clearEnv(t)

	path := writeConfig(t, `
model:
  endpoint: "https://example.com/invocations"
  token: "t"
`)

	if err := Initialize(path); err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}
	cfg := GetConfig()
	if cfg == nil || cfg.Model.Token != "t" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	// Second call is a no-op.
	if err := Initialize("/does/not/exist.yaml"); err != nil {
		t.Errorf("expected second Initialize to be ignored, got %v", err)
	}
	if GetConfig() != cfg {
		t.Error("config replaced by second Initialize")
	}
}

func TestInitialize_ErrorIsSticky(t *testing.T) {
	resetGlobal()
	defer resetGlobal()
	clearEnv(t)

	if err := Initialize("/does/not/exist.yaml"); err == nil {
		t.Fatal("expected error")
	}
	if err := Initialize("/does/not/exist.yaml"); err == nil {
		t.Error("expected the first error to be returned again")
	}
	if GetConfig() != nil {
		t.Error("expected nil config after failed Initialize")
	}
}

func TestMustGetConfig_Panics(t *testing.T) {
	resetGlobal()
	defer resetGlobal()

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustGetConfig()
}

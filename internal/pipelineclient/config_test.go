package pipelineclient

import (
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("BUILDLEDGER_API_URL", "http://api:8080")
		t.Setenv("PIPELINE_API_KEY", "k")
		t.Setenv("REQUEST_TIMEOUT", "")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.RequestTimeout != 2*time.Minute {
			t.Errorf("expected default timeout, got %v", cfg.RequestTimeout)
		}
	})

	t.Run("missing URL", func(t *testing.T) {
		t.Setenv("BUILDLEDGER_API_URL", "")
		t.Setenv("PIPELINE_API_KEY", "k")

		if _, err := LoadConfig(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		t.Setenv("BUILDLEDGER_API_URL", "http://api:8080")
		t.Setenv("PIPELINE_API_KEY", "")

		if _, err := LoadConfig(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("bad timeout", func(t *testing.T) {
		t.Setenv("BUILDLEDGER_API_URL", "http://api:8080")
		t.Setenv("PIPELINE_API_KEY", "k")

		for _, v := range []string{"soon", "-5s", "0s"} {
			t.Setenv("REQUEST_TIMEOUT", v)
			if _, err := LoadConfig(); err == nil {
				t.Errorf("%s: expected error", v)
			}
		}
	})
}

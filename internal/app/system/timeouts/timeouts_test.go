package timeouts

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	Reset()
	if Short() != DefaultShort {
		t.Errorf("Short: got %v, want %v", Short(), DefaultShort)
	}
	if Batch() != DefaultBatch {
		t.Errorf("Batch: got %v, want %v", Batch(), DefaultBatch)
	}
}

func TestConfigure_ZeroValuesIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Configure(Config{Medium: 20 * time.Second})

	if Medium() != 20*time.Second {
		t.Errorf("Medium: got %v, want 20s", Medium())
	}
	if Short() != DefaultShort {
		t.Errorf("Short changed by zero-value config: got %v", Short())
	}
}

func TestConfigureFromEnv(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("TIMEOUT_SHORT", "7s")
	t.Setenv("TIMEOUT_LONG", "not-a-duration")

	applied := ConfigureFromEnv()

	if applied != 1 {
		t.Errorf("applied: got %d, want 1", applied)
	}
	if Short() != 7*time.Second {
		t.Errorf("Short: got %v, want 7s", Short())
	}
	if Long() != DefaultLong {
		t.Errorf("Long: got %v, want default", Long())
	}
}

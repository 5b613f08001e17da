package config

import "testing"

func TestLoadDefaultsToZeroValueWhenUnset(t *testing.T) {
	cfg := Load()
	if cfg.SegmentCapacityHint != 0 || cfg.MaxCycles != 0 {
		t.Fatalf("Load() = %+v, want zero value with env unset", cfg)
	}
}

func TestLoadReadsSetEnvironment(t *testing.T) {
	t.Setenv(EnvSegmentCapacityHint, "64")
	t.Setenv(EnvMaxCycles, "1000000")

	cfg := Load()
	if cfg.SegmentCapacityHint != 64 {
		t.Fatalf("SegmentCapacityHint = %d, want 64", cfg.SegmentCapacityHint)
	}
	if cfg.MaxCycles != 1000000 {
		t.Fatalf("MaxCycles = %d, want 1000000", cfg.MaxCycles)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv(EnvSegmentCapacityHint, "not-a-number")
	t.Setenv(EnvMaxCycles, "-5")

	cfg := Load()
	if cfg.SegmentCapacityHint != 0 {
		t.Fatalf("SegmentCapacityHint = %d, want 0 for malformed input", cfg.SegmentCapacityHint)
	}
	if cfg.MaxCycles != 0 {
		t.Fatalf("MaxCycles = %d, want 0 for malformed input", cfg.MaxCycles)
	}
}

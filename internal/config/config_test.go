// ABOUTME: Tests for environment-driven configuration
// ABOUTME: Verifies defaults, overrides, and malformed values
package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"PLATTER_ACCELERATION", "PLATTER_MAX_SPEED", "PLATTER_DRAG_BLEND",
		"PLATTER_MUTE_WHILE_DRAGGING", "PLATTER_GAIN",
		"PLATTER_FILTER_CUTOFF", "PLATTER_FRAME_RATE",
	}
	for _, k := range envVars {
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Acceleration != 0.03 {
		t.Errorf("Acceleration = %v, want 0.03", cfg.Acceleration)
	}
	if cfg.MaxSpeed != 1.5 {
		t.Errorf("MaxSpeed = %v, want 1.5", cfg.MaxSpeed)
	}
	if cfg.DragBlend != 0.05 {
		t.Errorf("DragBlend = %v, want 0.05", cfg.DragBlend)
	}
	if cfg.MuteWhileDragging {
		t.Error("MuteWhileDragging should default to false")
	}
	if cfg.Gain != 0.5 {
		t.Errorf("Gain = %v, want 0.5", cfg.Gain)
	}
	if cfg.FilterCutoff != 22050 {
		t.Errorf("FilterCutoff = %v, want 22050", cfg.FilterCutoff)
	}
	if cfg.FrameRate != 60 {
		t.Errorf("FrameRate = %d, want 60", cfg.FrameRate)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)

	os.Setenv("PLATTER_ACCELERATION", "0.08")
	os.Setenv("PLATTER_MAX_SPEED", "2.0")
	os.Setenv("PLATTER_MUTE_WHILE_DRAGGING", "true")
	os.Setenv("PLATTER_FRAME_RATE", "120")
	defer clearEnv(t)

	cfg := Load()

	if cfg.Acceleration != 0.08 {
		t.Errorf("Acceleration = %v, want 0.08", cfg.Acceleration)
	}
	if cfg.MaxSpeed != 2.0 {
		t.Errorf("MaxSpeed = %v, want 2.0", cfg.MaxSpeed)
	}
	if !cfg.MuteWhileDragging {
		t.Error("MuteWhileDragging should be true")
	}
	if cfg.FrameRate != 120 {
		t.Errorf("FrameRate = %d, want 120", cfg.FrameRate)
	}
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	clearEnv(t)

	os.Setenv("PLATTER_MAX_SPEED", "fast")
	os.Setenv("PLATTER_FRAME_RATE", "sixty")
	os.Setenv("PLATTER_MUTE_WHILE_DRAGGING", "yes please")
	defer clearEnv(t)

	cfg := Load()

	if cfg.MaxSpeed != 1.5 {
		t.Errorf("MaxSpeed = %v, want default 1.5 on parse failure", cfg.MaxSpeed)
	}
	if cfg.FrameRate != 60 {
		t.Errorf("FrameRate = %d, want default 60 on parse failure", cfg.FrameRate)
	}
	if cfg.MuteWhileDragging {
		t.Error("MuteWhileDragging should fall back to false on parse failure")
	}
}

// ABOUTME: Runtime configuration loaded from environment variables
// ABOUTME: Tunables for disc physics, audio defaults, and frame timing
package config

import (
	"os"
	"strconv"
)

// Config holds all runtime configuration, loaded from environment variables.
// CLI flags in main take precedence over these values.
type Config struct {
	// Disc physics
	Acceleration      float64 // velocity change per frame
	MaxSpeed          float64 // angular velocity cap (rad/s)
	DragBlend         float64 // blend factor toward the pointer angle while dragging
	MuteWhileDragging bool    // push rate 0 during a drag instead of freezing it

	// Audio defaults
	Gain         float64 // output gain, 0..1
	FilterCutoff float64 // low-pass cutoff in Hz

	// Frame timing for the headless loop
	FrameRate int // ticks per second
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Acceleration:      envFloat("PLATTER_ACCELERATION", 0.03),
		MaxSpeed:          envFloat("PLATTER_MAX_SPEED", 1.5),
		DragBlend:         envFloat("PLATTER_DRAG_BLEND", 0.05),
		MuteWhileDragging: envBool("PLATTER_MUTE_WHILE_DRAGGING", false),

		Gain:         envFloat("PLATTER_GAIN", 0.5),
		FilterCutoff: envFloat("PLATTER_FILTER_CUTOFF", 22050),

		FrameRate: envInt("PLATTER_FRAME_RATE", 60),
	}
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

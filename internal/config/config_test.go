package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("IRIS_BASE_URL", "http://localhost:3000")
	t.Setenv("IRIS_WS_URL", "ws://localhost:3000/ws")
	t.Setenv("BOT_PREFIX", "/")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RoundTimeout != 60*time.Second {
		t.Fatalf("round timeout: got %v", cfg.RoundTimeout)
	}
	if cfg.MaxHints != 3 || cfg.BasePoints != 10 {
		t.Fatalf("hints/points: got %d/%d", cfg.MaxHints, cfg.BasePoints)
	}
	if cfg.WinThreshold != 0.8 || cfg.WarmThreshold != 0.5 {
		t.Fatalf("thresholds: got %v/%v", cfg.WinThreshold, cfg.WarmThreshold)
	}
	if cfg.EasyMultiplier != 1.0 || cfg.MediumMultiplier != 1.5 || cfg.HardMultiplier != 2.0 {
		t.Fatalf("difficulty multipliers: got %v/%v/%v",
			cfg.EasyMultiplier, cfg.MediumMultiplier, cfg.HardMultiplier)
	}
	if cfg.EgressMode != "http" {
		t.Fatalf("egress mode: got %q", cfg.EgressMode)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ROUND_TIMEOUT_SEC", "90")
	t.Setenv("MAX_HINTS", "5")
	t.Setenv("WIN_THRESHOLD", "0.9")
	t.Setenv("SPEED_BONUS_MULT", "2")
	t.Setenv("DIFFICULTY_MULT_EASY", "1.25")
	t.Setenv("DIFFICULTY_MULT_MEDIUM", "2")
	t.Setenv("DIFFICULTY_MULT_HARD", "3.5")
	t.Setenv("ALLOWED_ROOMS", "room-a, room-b ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RoundTimeout != 90*time.Second {
		t.Fatalf("round timeout: got %v", cfg.RoundTimeout)
	}
	if cfg.MaxHints != 5 {
		t.Fatalf("max hints: got %d", cfg.MaxHints)
	}
	if cfg.WinThreshold != 0.9 {
		t.Fatalf("win threshold: got %v", cfg.WinThreshold)
	}
	if cfg.SpeedBonusMultiplier != 2 {
		t.Fatalf("speed bonus mult: got %v", cfg.SpeedBonusMultiplier)
	}
	if cfg.EasyMultiplier != 1.25 || cfg.MediumMultiplier != 2 || cfg.HardMultiplier != 3.5 {
		t.Fatalf("difficulty multipliers: got %v/%v/%v",
			cfg.EasyMultiplier, cfg.MediumMultiplier, cfg.HardMultiplier)
	}
	if len(cfg.AllowedRooms) != 2 || cfg.AllowedRooms[0] != "room-a" || cfg.AllowedRooms[1] != "room-b" {
		t.Fatalf("allowed rooms: got %v", cfg.AllowedRooms)
	}
}

func TestLoadRejectsBadThresholds(t *testing.T) {
	setRequired(t)
	t.Setenv("WIN_THRESHOLD", "0.6")
	t.Setenv("WARM_THRESHOLD", "0.7")

	if _, err := Load(); err == nil {
		t.Fatal("warm above win must be rejected")
	}
}

func TestLoadRequiresBridge(t *testing.T) {
	t.Setenv("IRIS_BASE_URL", "")
	t.Setenv("IRIS_WS_URL", "ws://localhost:3000/ws")
	t.Setenv("BOT_PREFIX", "/")

	if _, err := Load(); err == nil {
		t.Fatal("missing IRIS_BASE_URL must be rejected")
	}
}

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	IrisBaseURL string
	IrisWSURL   string

	BotPrefix string
	OwnerID   string

	XUserID    string
	XUserEmail string
	XSessionID string

	RedisURL    string
	DatabaseURL string

	AllowedRooms []string

	EgressMode   string
	EgressDryrun bool

	// Puzzle corpus
	PuzzleFile string

	// Game rules
	RoundTimeout         time.Duration
	MaxHints             int
	BasePoints           int
	WinThreshold         float64
	WarmThreshold        float64
	SpeedBonusWindow     time.Duration
	SpeedBonusMultiplier float64
	EasyMultiplier       float64
	MediumMultiplier     float64
	HardMultiplier       float64
	RecentWindow         int

	// Command rate limit per user
	RateLimitMax    int
	RateLimitWindow time.Duration
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		EgressMode:           "http",
		RoundTimeout:         60 * time.Second,
		MaxHints:             3,
		BasePoints:           10,
		WinThreshold:         0.8,
		WarmThreshold:        0.5,
		SpeedBonusWindow:     30 * time.Second,
		SpeedBonusMultiplier: 1.5,
		EasyMultiplier:       1.0,
		MediumMultiplier:     1.5,
		HardMultiplier:       2.0,
		RecentWindow:         100,
		RateLimitMax:         10,
		RateLimitWindow:      time.Minute,
	}

	cfg.IrisBaseURL = strings.TrimSpace(os.Getenv("IRIS_BASE_URL"))
	cfg.IrisWSURL = strings.TrimSpace(os.Getenv("IRIS_WS_URL"))
	cfg.BotPrefix = strings.TrimSpace(os.Getenv("BOT_PREFIX"))
	cfg.OwnerID = strings.TrimSpace(os.Getenv("OWNER_ID"))

	cfg.XUserID = strings.TrimSpace(os.Getenv("X_USER_ID"))
	cfg.XUserEmail = strings.TrimSpace(os.Getenv("X_USER_EMAIL"))
	cfg.XSessionID = strings.TrimSpace(os.Getenv("X_SESSION_ID"))

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.PuzzleFile = strings.TrimSpace(os.Getenv("PUZZLE_FILE"))

	if v := strings.TrimSpace(os.Getenv("ALLOWED_ROOMS")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.AllowedRooms = append(cfg.AllowedRooms, s)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("EGRESS_MODE")); v != "" {
		cfg.EgressMode = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("EGRESS_DRYRUN")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EgressDryrun = b
		}
	}

	if n, ok := envInt("ROUND_TIMEOUT_SEC"); ok {
		cfg.RoundTimeout = time.Duration(n) * time.Second
	}
	if n, ok := envInt("MAX_HINTS"); ok {
		cfg.MaxHints = n
	}
	if n, ok := envInt("BASE_POINTS"); ok {
		cfg.BasePoints = n
	}
	if f, ok := envFloat("WIN_THRESHOLD"); ok {
		cfg.WinThreshold = f
	}
	if f, ok := envFloat("WARM_THRESHOLD"); ok {
		cfg.WarmThreshold = f
	}
	if n, ok := envInt("SPEED_BONUS_WINDOW_SEC"); ok {
		cfg.SpeedBonusWindow = time.Duration(n) * time.Second
	}
	if f, ok := envFloat("SPEED_BONUS_MULT"); ok {
		cfg.SpeedBonusMultiplier = f
	}
	if f, ok := envFloat("DIFFICULTY_MULT_EASY"); ok {
		cfg.EasyMultiplier = f
	}
	if f, ok := envFloat("DIFFICULTY_MULT_MEDIUM"); ok {
		cfg.MediumMultiplier = f
	}
	if f, ok := envFloat("DIFFICULTY_MULT_HARD"); ok {
		cfg.HardMultiplier = f
	}
	if n, ok := envInt("RECENT_WINDOW"); ok {
		cfg.RecentWindow = n
	}
	if n, ok := envInt("RATE_LIMIT_MAX"); ok {
		cfg.RateLimitMax = n
	}
	if n, ok := envInt("RATE_LIMIT_WINDOW_SEC"); ok {
		cfg.RateLimitWindow = time.Duration(n) * time.Second
	}

	if cfg.IrisBaseURL == "" {
		return nil, errors.New("IRIS_BASE_URL is required")
	}
	if cfg.IrisWSURL == "" {
		return nil, errors.New("IRIS_WS_URL is required")
	}
	if cfg.BotPrefix == "" {
		return nil, errors.New("BOT_PREFIX is required")
	}
	if cfg.WarmThreshold > cfg.WinThreshold {
		return nil, errors.New("WARM_THRESHOLD must not exceed WIN_THRESHOLD")
	}

	return cfg, nil
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func envFloat(key string) (float64, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

package config

import (
    "os"
    "time"
)

// RateLimitConfig controls the shared fixed-window limiter applied to
// the credential endpoints. MaxAttempts requests are allowed per client
// IP and route within each Window; further requests get 429 until the
// window rolls over.
type RateLimitConfig struct {
    Enabled     bool
    MaxAttempts int
    Window      time.Duration
    Prefix      string
}

// LoadRateLimitConfig reads the limiter settings from the environment,
// with defaults sized for interactive login traffic: ten attempts per
// minute per IP and route.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:     envBool("RATE_LIMIT_ENABLED", true),
        MaxAttempts: envInt("RATE_LIMIT_MAX_ATTEMPTS", 10),
        Window:      envDur("RATE_LIMIT_WINDOW", time.Minute),
        Prefix:      envStr("RATE_LIMIT_PREFIX", "rl"),
    }
    if cfg.MaxAttempts < 1 {
        cfg.MaxAttempts = 1
    }
    if cfg.Window <= 0 {
        cfg.Window = time.Minute
    }
    return cfg
}

func envStr(k, d string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return d
}

func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    switch v {
    case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
        return true
    case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
        return false
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    if dur, err := time.ParseDuration(v); err == nil {
        return dur
    }
    return d
}

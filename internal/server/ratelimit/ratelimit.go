// Package ratelimit throttles API clients. AI endpoints pay real provider
// money per call, so they get a much tighter budget than plain reads.
package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds limiter settings, loaded from the environment.
type Config struct {
	Enabled bool

	// AILimit applies to /api/ai/ and /api/chat/ routes; DefaultLimit to
	// everything else. Both are requests per Window, per client.
	AILimit      int
	DefaultLimit int
	Window       time.Duration

	CleanupInterval time.Duration
}

// LoadConfig reads limiter settings from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		AILimit:         getEnvInt("RATE_LIMIT_AI_LIMIT", 30),
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		Window:          getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
	}
}

// Info reports the state of one client's budget after an Allow call.
type Info struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type window struct {
	count   int
	started time.Time
}

// Limiter is a fixed-window counter per (client, tier).
type Limiter struct {
	cfg  *Config
	mu   sync.Mutex
	wins map[string]*window
	done chan struct{}
}

// NewLimiter creates a limiter and starts its cleanup loop.
func NewLimiter(cfg *Config) *Limiter {
	l := &Limiter{
		cfg:  cfg,
		wins: make(map[string]*window),
		done: make(chan struct{}),
	}
	if cfg.Enabled {
		go l.cleanupLoop()
	}
	return l
}

// Allow records one request from clientID against path and reports whether
// it fits the budget.
func (l *Limiter) Allow(clientID, path string) (bool, Info) {
	if !l.cfg.Enabled {
		return true, Info{Limit: 0, Remaining: 0}
	}

	limit := l.cfg.DefaultLimit
	tier := "default"
	if strings.HasPrefix(path, "/api/ai/") || strings.HasPrefix(path, "/api/chat/") {
		limit = l.cfg.AILimit
		tier = "ai"
	}

	now := time.Now()
	key := clientID + "|" + tier

	l.mu.Lock()
	defer l.mu.Unlock()

	win, ok := l.wins[key]
	if !ok || now.Sub(win.started) >= l.cfg.Window {
		win = &window{started: now}
		l.wins[key] = win
	}

	info := Info{
		Limit:   limit,
		ResetAt: win.started.Add(l.cfg.Window),
	}
	if win.count >= limit {
		info.Remaining = 0
		return false, info
	}
	win.count++
	info.Remaining = limit - win.count
	return true, info
}

// Stop terminates the cleanup loop.
func (l *Limiter) Stop() {
	if l.cfg.Enabled {
		close(l.done)
	}
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.mu.Lock()
			cutoff := time.Now().Add(-l.cfg.Window)
			for key, win := range l.wins {
				if win.started.Before(cutoff) {
					delete(l.wins, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

package resilience

import (
	"strings"
	"time"
)

// CircuitBreakerConfig tunes the breaker in front of one outbound dependency.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// Riot rate-limit windows and Sheets per-minute quotas both outlast a few
// seconds, so those breakers open early and stay open longer.
var dependencyDefaults = map[string]CircuitBreakerConfig{
	"riot":   {Enabled: true, FailureThreshold: 3, OpenTimeout: 30 * time.Second, HalfOpenMaxReq: 1},
	"sheets": {Enabled: true, FailureThreshold: 3, OpenTimeout: time.Minute, HalfOpenMaxReq: 1},
}

var fallbackDefaults = CircuitBreakerConfig{Enabled: true, FailureThreshold: 5, OpenTimeout: 15 * time.Second, HalfOpenMaxReq: 2}

// DefaultsFor returns the breaker settings used for dependency when nothing is configured.
func DefaultsFor(dependency string) CircuitBreakerConfig {
	if cfg, ok := dependencyDefaults[strings.ToLower(strings.TrimSpace(dependency))]; ok {
		return cfg
	}
	return fallbackDefaults
}

func (cfg CircuitBreakerConfig) withDefaults(defaults CircuitBreakerConfig) CircuitBreakerConfig {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}

package providers

import (
	"context"
	"time"
)

// Upstream is an anime API the aggregator talks to. The samehadaku and
// kuramanime clients both satisfy it.
type Upstream interface {
	Name() string
	BaseURL() string
	HealthCheck(ctx context.Context) error
}

// Role describes how the aggregator uses an upstream
type Role string

const (
	RolePrimary  Role = "primary"
	RoleFallback Role = "fallback"
)

// HealthCheckResult holds detailed health check information
type HealthCheckResult struct {
	URL         string        `json:"url"`
	CurlCommand string        `json:"curl_command"`
	StatusCode  int           `json:"status_code"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
	CheckedAt   time.Time     `json:"checked_at"`
}

// ProviderStatus holds the health status of a provider
type ProviderStatus struct {
	ProviderName string             `json:"provider"`
	Role         Role               `json:"role"`
	Healthy      bool               `json:"healthy"`
	Status       string             `json:"status"` // e.g., "Online", "Offline: ...", "Checking..."
	LastCheck    time.Time          `json:"last_check"`
	LastResult   *HealthCheckResult `json:"last_result,omitempty"`
}

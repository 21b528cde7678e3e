package providers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	providerhttp "github.com/justchokingaround/anistream/internal/providers/http"
)

// DefaultCheckTimeout bounds a single provider health check
const DefaultCheckTimeout = 10 * time.Second

// Registry manages registered upstreams and their health statuses
type Registry struct {
	mu           sync.RWMutex
	providers    map[string]Upstream
	statuses     map[string]*ProviderStatus
	userAgent    string
	checkTimeout time.Duration
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithUserAgent sets the User-Agent shown in generated curl commands
func WithUserAgent(ua string) RegistryOption {
	return func(r *Registry) {
		r.userAgent = ua
	}
}

// WithCheckTimeout overrides DefaultCheckTimeout
func WithCheckTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.checkTimeout = d
		}
	}
}

// NewRegistry creates a new provider registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		providers:    make(map[string]Upstream),
		statuses:     make(map[string]*ProviderStatus),
		checkTimeout: DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a provider to the registry
func (r *Registry) Register(provider Upstream, role Role) error {
	if provider == nil {
		return fmt.Errorf("cannot register nil provider")
	}

	name := provider.Name()
	if name == "" {
		return fmt.Errorf("provider must have a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %s is already registered", name)
	}

	r.providers[name] = provider
	r.statuses[name] = &ProviderStatus{
		ProviderName: name,
		Role:         role,
		Status:       "Pending",
	}

	return nil
}

// Get returns a provider by name
func (r *Registry) Get(name string) (Upstream, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("provider %s not found", name)
	}

	return provider, nil
}

// List returns the names of all registered providers, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered providers
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.providers)
}

// formatCurlCommand generates a curl command for debugging
func formatCurlCommand(url string, headers map[string]string) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("curl -v ")
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("-H '%s: %s' ", k, headers[k]))
	}
	b.WriteString(fmt.Sprintf("'%s'", url))
	return b.String()
}

// CheckAllProviders runs a health check on all registered providers concurrently
func (r *Registry) CheckAllProviders(ctx context.Context) {
	r.mu.RLock()
	providers := make([]Upstream, 0, len(r.providers))
	for _, p := range r.providers {
		providers = append(providers, p)
	}
	r.mu.RUnlock()

	var wg sync.WaitGroup
	for _, p := range providers {
		wg.Add(1)
		go func(provider Upstream) {
			defer wg.Done()
			r.check(ctx, provider)
		}(p)
	}

	wg.Wait()
}

func (r *Registry) check(ctx context.Context, provider Upstream) {
	name := provider.Name()

	r.mu.Lock()
	r.statuses[name].Status = "Checking..."
	r.statuses[name].LastCheck = time.Now()
	r.mu.Unlock()

	checkCtx, cancel := context.WithTimeout(ctx, r.checkTimeout)
	defer cancel()

	startTime := time.Now()
	err := provider.HealthCheck(checkCtx)
	duration := time.Since(startTime)

	headers := map[string]string{}
	if r.userAgent != "" {
		headers["User-Agent"] = r.userAgent
	}

	result := &HealthCheckResult{
		URL:         provider.BaseURL(),
		CurlCommand: formatCurlCommand(provider.BaseURL(), headers),
		Duration:    duration,
		CheckedAt:   time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	status := r.statuses[name]
	if err != nil {
		status.Healthy = false
		status.Status = fmt.Sprintf("Offline: %v", err)
		result.Error = err.Error()
		var se *providerhttp.StatusError
		if errors.As(err, &se) {
			result.StatusCode = se.StatusCode
		}
	} else {
		status.Healthy = true
		status.Status = "Online"
		result.StatusCode = 200
	}
	status.LastCheck = time.Now()
	status.LastResult = result
}

// GetProviderStatuses returns a snapshot of every provider's health status,
// sorted by name
func (r *Registry) GetProviderStatuses() []ProviderStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make([]ProviderStatus, 0, len(r.statuses))
	for _, status := range r.statuses {
		statuses = append(statuses, *status)
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].ProviderName < statuses[j].ProviderName
	})
	return statuses
}

// Healthy reports whether every registered provider passed its last check
func (r *Registry) Healthy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, status := range r.statuses {
		if !status.Healthy {
			return false
		}
	}
	return true
}

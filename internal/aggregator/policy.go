package aggregator

import "github.com/justchokingaround/anistream/internal/normalize"

// Policy controls when the fallback provider is consulted
type Policy struct {
	// FallbackEnabled turns the secondary search on or off entirely
	FallbackEnabled bool
	// FallbackOnFirstPageOnly restricts the secondary search to page 1. The
	// fallback provider has no paging of its own.
	FallbackOnFirstPageOnly bool
	// PreferredQuality picks the default stream of a fallback episode
	PreferredQuality string
}

// DefaultPolicy falls back on first-page searches and prefers 720p streams
func DefaultPolicy() Policy {
	return Policy{
		FallbackEnabled:         true,
		FallbackOnFirstPageOnly: true,
		PreferredQuality:        normalize.DefaultPreferredQuality,
	}
}

// AllowsFallback reports whether a search for page may fall back
func (p Policy) AllowsFallback(page int) bool {
	if !p.FallbackEnabled {
		return false
	}
	return !p.FallbackOnFirstPageOnly || page == 1
}

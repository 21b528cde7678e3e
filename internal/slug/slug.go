// Package slug encodes cross-provider identity into a single opaque token.
//
// Provider A tokens are the native slug verbatim. Provider B tokens have the
// shape
//
//	b-{id}-{slug}            anime
//	b-{id}-{slug}-{episode}  episode
//
// A trailing decimal segment is read as the episode number. Anime tokens whose
// native slug ends in a decimal (or empty) segment carry one terminating "-"
// so they cannot be mistaken for episode tokens: b-7-mob-psycho-100-.
package slug

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/justchokingaround/anistream/internal/catalog"
)

const (
	// PrefixB marks a Provider B token
	PrefixB   = "b-"
	delimiter = "-"
)

// ErrUnrecognizedToken is returned when a token carries the Provider B prefix
// but does not contain both an id and a slug.
var ErrUnrecognizedToken = errors.New("unrecognized token")

// Ref is the decoded form of a token
type Ref struct {
	Source     catalog.Source
	ID         int
	Slug       string
	Episode    int
	HasEpisode bool
}

// A returns a Provider A reference
func A(nativeSlug string) Ref {
	return Ref{Source: catalog.SourceA, Slug: nativeSlug}
}

// B returns a Provider B anime reference
func B(id int, nativeSlug string) Ref {
	return Ref{Source: catalog.SourceB, ID: id, Slug: nativeSlug}
}

// BEpisode returns a Provider B episode reference
func BEpisode(id int, nativeSlug string, episode int) Ref {
	return Ref{Source: catalog.SourceB, ID: id, Slug: nativeSlug, Episode: episode, HasEpisode: true}
}

// Anime drops the episode number, leaving the parent anime reference
func (r Ref) Anime() Ref {
	r.Episode = 0
	r.HasEpisode = false
	return r
}

// WithEpisode returns the same anime identity pointing at another episode
func (r Ref) WithEpisode(episode int) Ref {
	r.Episode = episode
	r.HasEpisode = true
	return r
}

// Validate reports whether the reference can be encoded reversibly
func (r Ref) Validate() error {
	if r.Slug == "" {
		return fmt.Errorf("%w: empty slug", ErrUnrecognizedToken)
	}
	switch r.Source {
	case catalog.SourceA:
		return nil
	case catalog.SourceB:
		if r.ID < 0 {
			return fmt.Errorf("%w: negative id %d", ErrUnrecognizedToken, r.ID)
		}
		if r.HasEpisode && r.Episode < 0 {
			return fmt.Errorf("%w: negative episode %d", ErrUnrecognizedToken, r.Episode)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown source %q", ErrUnrecognizedToken, r.Source)
	}
}

// String encodes the reference
func (r Ref) String() string {
	return Encode(r)
}

// Encode turns a reference into its token. Provider A slugs are returned
// unchanged.
func Encode(r Ref) string {
	if r.Source != catalog.SourceB {
		return r.Slug
	}

	var b strings.Builder
	b.WriteString(PrefixB)
	b.WriteString(strconv.Itoa(r.ID))
	b.WriteString(delimiter)
	b.WriteString(r.Slug)

	if r.HasEpisode {
		b.WriteString(delimiter)
		b.WriteString(strconv.Itoa(r.Episode))
	} else if needsTerminator(r.Slug) {
		b.WriteString(delimiter)
	}

	return b.String()
}

// Decode parses a token. Anything that is not a Provider B token is treated
// as a Provider A slug.
func Decode(token string) (Ref, error) {
	rest, ok := strings.CutPrefix(token, PrefixB)
	if !ok {
		return A(token), nil
	}

	idPart, slugPart, _ := strings.Cut(rest, delimiter)
	if idPart == "" {
		return Ref{}, fmt.Errorf("%w: %q", ErrUnrecognizedToken, token)
	}
	if !isDecimal(idPart) {
		// b-prefixed Provider A slug, e.g. "b-project"
		return A(token), nil
	}

	id, err := strconv.Atoi(idPart)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %q: %v", ErrUnrecognizedToken, token, err)
	}
	if slugPart == "" {
		return Ref{}, fmt.Errorf("%w: %q has no slug", ErrUnrecognizedToken, token)
	}

	// Terminated anime token: strip exactly one trailing delimiter
	if strings.HasSuffix(slugPart, delimiter) {
		nativeSlug := strings.TrimSuffix(slugPart, delimiter)
		if nativeSlug == "" {
			return Ref{}, fmt.Errorf("%w: %q has no slug", ErrUnrecognizedToken, token)
		}
		return B(id, nativeSlug), nil
	}

	head, last, found := cutLast(slugPart)
	if found && head != "" && isDecimal(last) {
		episode, err := strconv.Atoi(last)
		if err == nil {
			return BEpisode(id, head, episode), nil
		}
	}

	return B(id, slugPart), nil
}

// IsB reports whether the token routes to Provider B
func IsB(token string) bool {
	ref, err := Decode(token)
	return err == nil && ref.Source == catalog.SourceB
}

// needsTerminator reports whether an anime token for nativeSlug would
// otherwise decode as an episode token.
func needsTerminator(nativeSlug string) bool {
	if strings.HasSuffix(nativeSlug, delimiter) {
		return true
	}
	_, last, found := cutLast(nativeSlug)
	return found && isDecimal(last)
}

func cutLast(s string) (head, last string, found bool) {
	i := strings.LastIndex(s, delimiter)
	if i < 0 {
		return "", s, false
	}
	return s[:i], s[i+len(delimiter):], true
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

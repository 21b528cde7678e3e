// Package aggregator routes catalog requests to the right upstream, falls
// back from the primary to the secondary provider on empty first-page
// searches, and returns canonical records.
//
// A nil response always comes with an error: ErrTransport when an upstream
// call failed, slug.ErrUnrecognizedToken for malformed tokens, ErrUnsupported
// when the token's provider has no such endpoint and ErrNotFound when the
// upstream answered without a payload. An empty list is a successful result.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/justchokingaround/anistream/internal/catalog"
	"github.com/justchokingaround/anistream/internal/normalize"
	"github.com/justchokingaround/anistream/internal/providers/kuramanime"
	"github.com/justchokingaround/anistream/internal/providers/samehadaku"
	"github.com/justchokingaround/anistream/internal/slug"
)

var (
	// ErrTransport wraps a failed upstream call
	ErrTransport = errors.New("upstream request failed")
	// ErrUnsupported is returned when the provider behind a token does not
	// offer the requested operation
	ErrUnsupported = errors.New("operation not supported by provider")
	// ErrNotFound is returned when the upstream answered without a record
	ErrNotFound = errors.New("not found")
)

// PrimaryClient is the Samehadaku-shaped catalog
type PrimaryClient interface {
	Name() string
	Home(ctx context.Context) (*samehadaku.HomeResponse, error)
	Search(ctx context.Context, query string, page int) (*samehadaku.ListResponse, error)
	Ongoing(ctx context.Context, page int) (*samehadaku.ListResponse, error)
	Anime(ctx context.Context, slug string) (*samehadaku.AnimeResponse, error)
	Episode(ctx context.Context, slug string) (*samehadaku.EpisodeResponse, error)
	Batch(ctx context.Context, slug string) (*samehadaku.BatchResponse, error)
	Server(ctx context.Context, serverID string) (*samehadaku.ServerResponse, error)
}

// FallbackClient is the Kuramanime-shaped catalog
type FallbackClient interface {
	Name() string
	Search(ctx context.Context, query string) (*kuramanime.SearchResponse, error)
	Anime(ctx context.Context, id int, slug string) (*kuramanime.AnimeResponse, error)
	Watch(ctx context.Context, id int, slug string, episode int) (*kuramanime.WatchResponse, error)
}

// Service is the aggregation entry point. It holds no per-request state and
// is safe for concurrent use.
type Service struct {
	primary  PrimaryClient
	fallback FallbackClient
	policy   Policy
	logger   *slog.Logger
}

// New creates a Service
func New(primary PrimaryClient, fallback FallbackClient, policy Policy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		primary:  primary,
		fallback: fallback,
		policy:   policy,
		logger:   logger,
	}
}

// Policy returns the fallback policy in effect
func (s *Service) Policy() Policy {
	return s.policy
}

// Home returns the recently released list
func (s *Service) Home(ctx context.Context) (*catalog.Response[[]catalog.AnimeResult], error) {
	raw, err := s.primary.Home(ctx)
	if err != nil {
		return nil, s.transport("home", s.primary.Name(), "", err)
	}

	return &catalog.Response[[]catalog.AnimeResult]{
		Status: statusOr(raw.Status),
		Data:   normalize.AnimeListA(raw.Data.Recent.AnimeList),
	}, nil
}

// Search looks the query up on the primary provider and, when that yields
// nothing and the policy allows it, on the fallback provider. An exhausted
// chain reports status "error" with an empty list.
func (s *Service) Search(ctx context.Context, query string, page int) (*catalog.Response[[]catalog.AnimeResult], error) {
	if page < 1 {
		page = 1
	}

	var failures []error

	raw, err := s.primary.Search(ctx, query, page)
	switch {
	case err != nil:
		s.logger.Warn("primary search failed",
			"operation", "search",
			"provider", s.primary.Name(),
			"query", query,
			"page", page,
			"error", err,
		)
		failures = append(failures, err)
	case len(raw.Data.AnimeList) > 0:
		return &catalog.Response[[]catalog.AnimeResult]{
			Status:     statusOr(raw.Status),
			Data:       normalize.AnimeListA(raw.Data.AnimeList),
			Pagination: normalize.PaginationA(raw.Pagination),
		}, nil
	}

	attempted := 1
	if s.fallback != nil && s.policy.AllowsFallback(page) {
		attempted++
		s.logger.Debug("falling back", "operation", "search", "provider", s.fallback.Name(), "query", query)

		fb, err := s.fallback.Search(ctx, query)
		if err != nil {
			s.logger.Warn("fallback search failed",
				"operation", "search",
				"provider", s.fallback.Name(),
				"query", query,
				"error", err,
			)
			failures = append(failures, err)
		} else if results := normalize.AnimeListB(fb.Results); len(results) > 0 {
			return &catalog.Response[[]catalog.AnimeResult]{
				Status:     statusOr(fb.Status),
				Data:       results,
				Pagination: catalog.SinglePage(),
			}, nil
		}
	}

	if len(failures) == attempted {
		return nil, fmt.Errorf("%w: search %q: %w", ErrTransport, query, errors.Join(failures...))
	}

	return &catalog.Response[[]catalog.AnimeResult]{
		Status: catalog.StatusError,
		Data:   []catalog.AnimeResult{},
	}, nil
}

// Ongoing returns a page of currently airing titles
func (s *Service) Ongoing(ctx context.Context, page int) (*catalog.Response[[]catalog.AnimeResult], error) {
	if page < 1 {
		page = 1
	}

	raw, err := s.primary.Ongoing(ctx, page)
	if err != nil {
		return nil, s.transport("ongoing", s.primary.Name(), "", err)
	}

	return &catalog.Response[[]catalog.AnimeResult]{
		Status:     statusOr(raw.Status),
		Data:       normalize.AnimeListA(raw.Data.AnimeList),
		Pagination: normalize.PaginationA(raw.Pagination),
	}, nil
}

// AnimeDetail resolves token to the detail page of its provider
func (s *Service) AnimeDetail(ctx context.Context, token string) (*catalog.Response[*catalog.AnimeDetail], error) {
	ref, err := s.decode("anime", token)
	if err != nil {
		return nil, err
	}

	if ref.Source == catalog.SourceB {
		if s.fallback == nil {
			return nil, fmt.Errorf("%w: anime %q", ErrUnsupported, token)
		}
		ref = ref.Anime()

		raw, err := s.fallback.Anime(ctx, ref.ID, ref.Slug)
		if err != nil {
			return nil, s.transport("anime", s.fallback.Name(), token, err)
		}
		if raw.Results == nil {
			return nil, fmt.Errorf("%w: anime %q", ErrNotFound, token)
		}
		return &catalog.Response[*catalog.AnimeDetail]{
			Status: statusOr(raw.Status),
			Data:   normalize.AnimeDetailB(ref, raw.Results),
		}, nil
	}

	raw, err := s.primary.Anime(ctx, ref.Slug)
	if err != nil {
		return nil, s.transport("anime", s.primary.Name(), token, err)
	}
	if raw.Data == nil {
		return nil, fmt.Errorf("%w: anime %q", ErrNotFound, token)
	}
	return &catalog.Response[*catalog.AnimeDetail]{
		Status: statusOr(raw.Status),
		Data:   normalize.AnimeDetailA(token, raw.Data),
	}, nil
}

// Episode resolves an episode token. Provider B tokens must carry an episode
// number; Provider A tokens are passed through verbatim.
func (s *Service) Episode(ctx context.Context, token string) (*catalog.Response[*catalog.EpisodeDetail], error) {
	ref, err := s.decode("episode", token)
	if err != nil {
		return nil, err
	}

	if ref.Source == catalog.SourceB {
		if !ref.HasEpisode {
			return nil, fmt.Errorf("%w: %q has no episode number", slug.ErrUnrecognizedToken, token)
		}
		if s.fallback == nil {
			return nil, fmt.Errorf("%w: episode %q", ErrUnsupported, token)
		}

		raw, err := s.fallback.Watch(ctx, ref.ID, ref.Slug, ref.Episode)
		if err != nil {
			return nil, s.transport("episode", s.fallback.Name(), token, err)
		}
		return &catalog.Response[*catalog.EpisodeDetail]{
			Status: statusOr(raw.Status),
			Data:   normalize.EpisodeB(ref, raw, s.policy.PreferredQuality),
		}, nil
	}

	raw, err := s.primary.Episode(ctx, ref.Slug)
	if err != nil {
		return nil, s.transport("episode", s.primary.Name(), token, err)
	}
	if raw.Data == nil {
		return nil, fmt.Errorf("%w: episode %q", ErrNotFound, token)
	}
	return &catalog.Response[*catalog.EpisodeDetail]{
		Status: statusOr(raw.Status),
		Data:   normalize.EpisodeA(raw.Data),
	}, nil
}

// Batch returns the batch download page. Only the primary provider has one.
func (s *Service) Batch(ctx context.Context, token string) (*catalog.Response[*catalog.BatchDetail], error) {
	ref, err := s.decode("batch", token)
	if err != nil {
		return nil, err
	}
	if ref.Source != catalog.SourceA {
		return nil, fmt.Errorf("%w: batch %q", ErrUnsupported, token)
	}

	raw, err := s.primary.Batch(ctx, ref.Slug)
	if err != nil {
		return nil, s.transport("batch", s.primary.Name(), token, err)
	}
	if raw.Data == nil {
		return nil, fmt.Errorf("%w: batch %q", ErrNotFound, token)
	}
	return &catalog.Response[*catalog.BatchDetail]{
		Status: statusOr(raw.Status),
		Data:   normalize.BatchA(raw.Data),
	}, nil
}

// ResolveServer turns a server id from EpisodeDetail.Server into a playable
// URL. Fallback episodes use the stream URL itself as server id, which is
// returned unchanged.
func (s *Service) ResolveServer(ctx context.Context, serverID string) (*catalog.Response[catalog.ServerLink], error) {
	serverID = strings.TrimSpace(serverID)
	if serverID == "" {
		return nil, fmt.Errorf("%w: empty server id", slug.ErrUnrecognizedToken)
	}

	if IsDirectURL(serverID) {
		return &catalog.Response[catalog.ServerLink]{
			Status: catalog.StatusSuccess,
			Data:   catalog.ServerLink{URL: serverID},
		}, nil
	}

	raw, err := s.primary.Server(ctx, serverID)
	if err != nil {
		return nil, s.transport("server", s.primary.Name(), serverID, err)
	}
	if raw.Data.URL == "" {
		return nil, fmt.Errorf("%w: server %q", ErrNotFound, serverID)
	}
	return &catalog.Response[catalog.ServerLink]{
		Status: statusOr(raw.Status),
		Data:   catalog.ServerLink{URL: raw.Data.URL},
	}, nil
}

// IsDirectURL reports whether a server id is already a stream URL
func IsDirectURL(serverID string) bool {
	lower := strings.ToLower(serverID)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (s *Service) decode(operation, token string) (slug.Ref, error) {
	ref, err := slug.Decode(token)
	if err != nil {
		s.logger.Warn("rejecting token", "operation", operation, "token", token, "error", err)
		return slug.Ref{}, err
	}
	if strings.TrimSpace(ref.Slug) == "" {
		return slug.Ref{}, fmt.Errorf("%w: empty token", slug.ErrUnrecognizedToken)
	}
	return ref, nil
}

func (s *Service) transport(operation, provider, token string, err error) error {
	s.logger.Error("upstream request failed",
		"operation", operation,
		"provider", provider,
		"token", token,
		"error", err,
	)
	return fmt.Errorf("%w: %s: %w", ErrTransport, operation, err)
}

func statusOr(status string) string {
	if status == "" {
		return catalog.StatusSuccess
	}
	return status
}

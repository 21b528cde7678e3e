package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/justchokingaround/anistream/internal/catalog"
	"github.com/justchokingaround/anistream/internal/providers/kuramanime"
	"github.com/justchokingaround/anistream/internal/slug"
	"github.com/justchokingaround/anistream/pkg/types"
)

// Labels of the Kuramanime detail table
const (
	LabelScore    = "Skor:"
	LabelType     = "Tipe:"
	LabelStatus   = "Status:"
	LabelEpisodes = "Episode:"
	LabelDuration = "Durasi:"
	LabelAired    = "Tayang:"
	LabelStudio   = "Studio:"
	LabelGenre    = "Genre:"
)

const (
	// DefaultPreferredQuality is the stream picked as the default streamUrl
	DefaultPreferredQuality = "720"
	// DefaultEpisodeTitle is used when a watch page has no title
	DefaultEpisodeTitle = "Episode"
	// ResolutionGroup titles the synthetic server group built from streams
	ResolutionGroup = "Resolution"
)

// AnimeItemB converts a Kuramanime search hit. Hits without a usable id or
// slug cannot be addressed later and are reported as not ok.
func AnimeItemB(raw kuramanime.SearchItem) (catalog.AnimeResult, bool) {
	ref := slug.B(raw.ID.Value, raw.Slug)
	if !raw.ID.Valid || ref.Validate() != nil {
		return catalog.AnimeResult{}, false
	}

	return catalog.AnimeResult{
		Title:  raw.Title,
		Slug:   slug.Encode(ref),
		Poster: raw.Image,
		Status: raw.Status,
		Score:  raw.Rating.String(),
		Type:   raw.Type,
		Source: catalog.SourceB,
	}, true
}

// AnimeListB converts search hits, dropping unaddressable ones. The result
// is never nil.
func AnimeListB(raw []kuramanime.SearchItem) []catalog.AnimeResult {
	results := make([]catalog.AnimeResult, 0, len(raw))
	for _, item := range raw {
		if result, ok := AnimeItemB(item); ok {
			results = append(results, result)
		}
	}
	return results
}

// AnimeDetailB converts a Kuramanime detail page. Episode entries are
// re-encoded as episode tokens of ref.
func AnimeDetailB(ref slug.Ref, raw *kuramanime.AnimeData) *catalog.AnimeDetail {
	if raw == nil {
		return nil
	}

	anime := ref.Anime()
	detail := &catalog.AnimeDetail{
		Title:         raw.Title,
		Slug:          slug.Encode(anime),
		Poster:        raw.Image,
		Synopsis:      StripHTML(raw.Description),
		JapaneseTitle: raw.TitleRaw,
		Rating:        raw.Lookup(LabelScore),
		Type:          raw.Lookup(LabelType),
		Status:        raw.Lookup(LabelStatus),
		EpisodeCount:  raw.Lookup(LabelEpisodes),
		Duration:      raw.Lookup(LabelDuration),
		Aired:         raw.Lookup(LabelAired),
		Studios:       raw.Lookup(LabelStudio),
		Genres:        SplitGenres(raw.Lookup(LabelGenre)),
		EpisodeLists:  make([]catalog.EpisodeRef, 0, len(raw.Episode)),
		Source:        catalog.SourceB,
	}

	for _, ep := range raw.Episode {
		if !ep.Valid {
			continue
		}
		detail.EpisodeLists = append(detail.EpisodeLists, catalog.EpisodeRef{
			Title: fmt.Sprintf("Episode %d", ep.Value),
			Slug:  slug.Encode(anime.WithEpisode(ep.Value)),
		})
	}

	return detail
}

// SplitGenres turns "Action, Comedy" into genre records keyed by their
// lower-cased title. The result is never nil.
func SplitGenres(list string) []catalog.Genre {
	genres := []catalog.Genre{}
	for _, part := range strings.Split(list, ",") {
		title := strings.TrimSpace(part)
		if title == "" {
			continue
		}
		genres = append(genres, catalog.Genre{Title: title, GenreID: strings.ToLower(title)})
	}
	return genres
}

// EpisodeB converts the unwrapped /watch payload of the episode addressed by
// ref. preferredQuality selects the default stream; empty means
// DefaultPreferredQuality.
func EpisodeB(ref slug.Ref, raw *kuramanime.WatchResponse, preferredQuality string) *catalog.EpisodeDetail {
	if raw == nil {
		return nil
	}
	if preferredQuality == "" {
		preferredQuality = DefaultPreferredQuality
	}

	episode := &catalog.EpisodeDetail{
		Title:        raw.Title,
		StreamURL:    PickStream(raw.Streams, preferredQuality),
		Server:       serversB(raw.Streams),
		DownloadURLs: downloadsB(raw.Downloads),
		Source:       catalog.SourceB,
	}
	if episode.Title == "" {
		episode.Title = DefaultEpisodeTitle
	}

	if raw.Navigation != nil {
		episode.PrevEpisode = neighbour(ref, raw.Navigation.Prev, -1)
		episode.NextEpisode = neighbour(ref, raw.Navigation.Next, +1)
	}

	return episode
}

// PickStream returns the URL of the stream matching quality, else the first
// stream, else "".
func PickStream(streams []kuramanime.Stream, quality string) string {
	want := trimQuality(quality)
	for _, s := range streams {
		if trimQuality(s.Quality.String()) == want {
			return s.URL
		}
	}
	if len(streams) > 0 {
		return streams[0].URL
	}
	return ""
}

// serversB exposes every stream as a selectable "server" whose id is the
// stream URL itself
func serversB(streams []kuramanime.Stream) *catalog.ServerSelection {
	if len(streams) == 0 {
		return nil
	}

	list := make([]catalog.StreamServer, 0, len(streams))
	for _, s := range streams {
		list = append(list, catalog.StreamServer{
			Title:    trimQuality(s.Quality.String()) + "p",
			ServerID: s.URL,
		})
	}
	return &catalog.ServerSelection{
		Qualities: []catalog.ServerQuality{{Title: ResolutionGroup, ServerList: list}},
	}
}

func downloadsB(raw []kuramanime.DownloadGroup) []catalog.DownloadGroup {
	groups := make([]catalog.DownloadGroup, 0, len(raw))
	for _, g := range raw {
		links := make([]catalog.DownloadLink, 0, len(g.Links))
		for _, l := range g.Links {
			if l.URL == "" {
				continue
			}
			links = append(links, catalog.DownloadLink{Provider: l.Provider, URL: l.URL})
		}
		groups = append(groups, catalog.DownloadGroup{Quality: g.QualityGroup, Links: links})
	}
	return groups
}

// neighbour re-encodes a navigation value as an episode token of the same
// anime. Absent values (null, false, 0, "") mean there is no neighbour; values
// that are present but not a number fall back to the adjacent episode.
func neighbour(ref slug.Ref, value types.FlexString, step int) *catalog.EpisodeLink {
	text := strings.TrimSpace(value.String())
	switch text {
	case "", "null", "false", "0":
		return nil
	}

	ep, err := strconv.Atoi(text)
	if err != nil || ep < 0 {
		ep = ref.Episode + step
		if ep < 0 {
			return nil
		}
	}

	return &catalog.EpisodeLink{Slug: slug.Encode(ref.WithEpisode(ep))}
}

func trimQuality(q string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(q)), "p")
}

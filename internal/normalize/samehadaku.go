package normalize

import (
	"fmt"

	"github.com/justchokingaround/anistream/internal/catalog"
	"github.com/justchokingaround/anistream/internal/providers/samehadaku"
)

// UnknownTitle is used when a detail page carries no title in any language
const UnknownTitle = "Unknown Title"

// AnimeItemA converts a Samehadaku list card. Native slugs are already tokens.
func AnimeItemA(raw samehadaku.AnimeCard) catalog.AnimeResult {
	return catalog.AnimeResult{
		Title:      raw.Title,
		Slug:       raw.AnimeID,
		Poster:     raw.Poster,
		Status:     raw.Status,
		Score:      raw.Score.String(),
		Type:       raw.Type,
		Episodes:   raw.Episodes.String(),
		ReleasedOn: raw.ReleasedOn,
		GenreList:  genresA(raw.GenreList),
		Source:     catalog.SourceA,
	}
}

// AnimeListA converts a list of cards. The result is never nil.
func AnimeListA(raw []samehadaku.AnimeCard) []catalog.AnimeResult {
	results := make([]catalog.AnimeResult, 0, len(raw))
	for _, card := range raw {
		results = append(results, AnimeItemA(card))
	}
	return results
}

// PaginationA passes upstream paging through. A missing block stays nil.
func PaginationA(raw *samehadaku.Pagination) *catalog.Pagination {
	if raw == nil {
		return nil
	}

	p := &catalog.Pagination{
		CurrentPage: raw.CurrentPage.Value,
		HasPrevPage: raw.HasPrevPage,
		HasNextPage: raw.HasNextPage,
		TotalPages:  raw.TotalPages.Value,
	}
	if raw.PrevPage.Valid {
		prev := raw.PrevPage.Value
		p.PrevPage = &prev
	}
	if raw.NextPage.Valid {
		next := raw.NextPage.Value
		p.NextPage = &next
	}
	return p
}

// AnimeDetailA converts a Samehadaku detail page addressed by token
func AnimeDetailA(token string, raw *samehadaku.AnimeData) *catalog.AnimeDetail {
	if raw == nil {
		return nil
	}

	detail := &catalog.AnimeDetail{
		Title:         firstNonEmpty(raw.Title, raw.English, raw.Japanese, raw.Synonyms, UnknownTitle),
		Slug:          token,
		Poster:        raw.Poster,
		Synopsis:      joinParagraphs(raw.Synopsis.Paragraphs),
		JapaneseTitle: raw.Japanese,
		EnglishTitle:  raw.English,
		Rating:        raw.Score.Value.String(),
		Producers:     raw.Producers,
		Type:          raw.Type,
		Status:        raw.Status,
		EpisodeCount:  raw.Episodes.String(),
		Duration:      raw.Duration,
		Aired:         raw.Aired,
		Studios:       raw.Studios,
		Genres:        genresA(raw.GenreList),
		EpisodeLists:  make([]catalog.EpisodeRef, 0, len(raw.EpisodeList)),
		Source:        catalog.SourceA,
	}

	if len(raw.BatchList) > 0 {
		b := raw.BatchList[0]
		detail.Batch = &catalog.BatchRef{Title: b.Title, BatchID: b.BatchID, Href: b.Href}
	}

	for _, ep := range raw.EpisodeList {
		detail.EpisodeLists = append(detail.EpisodeLists, catalog.EpisodeRef{
			Title: ep.Title.String(),
			Slug:  ep.EpisodeID,
			Href:  ep.Href,
		})
	}

	return detail
}

// EpisodeA converts a Samehadaku episode page
func EpisodeA(raw *samehadaku.EpisodeData) *catalog.EpisodeDetail {
	if raw == nil {
		return nil
	}

	episode := &catalog.EpisodeDetail{
		Title:        raw.Title,
		StreamURL:    raw.DefaultStreamingURL,
		Server:       serversA(raw.Server),
		DownloadURLs: downloadsA(raw.DownloadURL),
		Source:       catalog.SourceA,
	}
	if raw.HasPrevEpisode && raw.PrevEpisode != nil {
		episode.PrevEpisode = &catalog.EpisodeLink{Slug: raw.PrevEpisode.EpisodeID, Href: raw.PrevEpisode.Href}
	}
	if raw.HasNextEpisode && raw.NextEpisode != nil {
		episode.NextEpisode = &catalog.EpisodeLink{Slug: raw.NextEpisode.EpisodeID, Href: raw.NextEpisode.Href}
	}

	return episode
}

// BatchA converts a Samehadaku batch page
func BatchA(raw *samehadaku.BatchData) *catalog.BatchDetail {
	if raw == nil {
		return nil
	}

	batch := &catalog.BatchDetail{
		Title:     raw.Title,
		AnimeID:   raw.AnimeID,
		Poster:    raw.Poster,
		Japanese:  raw.Japanese,
		Type:      raw.Type,
		Score:     raw.Score.String(),
		Duration:  raw.Duration,
		Studios:   raw.Studios,
		Producers: raw.Producers,
		Aired:     raw.Aired,
		Credit:    raw.Credit,
		GenreList: genresA(raw.GenreList),
		DownloadURL: catalog.BatchDownloads{
			Formats: make([]catalog.BatchFormat, 0, len(raw.DownloadURL.Formats)),
		},
	}
	if batch.GenreList == nil {
		batch.GenreList = []catalog.Genre{}
	}

	for _, f := range raw.DownloadURL.Formats {
		format := catalog.BatchFormat{
			Title:     f.Title,
			Qualities: make([]catalog.BatchQuality, 0, len(f.Qualities)),
		}
		for _, q := range f.Qualities {
			quality := catalog.BatchQuality{
				Title: q.Title,
				Size:  q.Size.String(),
				URLs:  make([]catalog.DownloadURL, 0, len(q.URLs)),
			}
			for _, u := range q.URLs {
				quality.URLs = append(quality.URLs, catalog.DownloadURL{Title: u.Title, URL: u.URL})
			}
			format.Qualities = append(format.Qualities, quality)
		}
		batch.DownloadURL.Formats = append(batch.DownloadURL.Formats, format)
	}

	return batch
}

func genresA(raw []samehadaku.Genre) []catalog.Genre {
	if len(raw) == 0 {
		return nil
	}
	genres := make([]catalog.Genre, 0, len(raw))
	for _, g := range raw {
		genres = append(genres, catalog.Genre{Title: g.Title, GenreID: g.GenreID, Href: g.Href})
	}
	return genres
}

func serversA(raw *samehadaku.ServerBlock) *catalog.ServerSelection {
	if raw == nil {
		return nil
	}

	selection := &catalog.ServerSelection{
		Qualities: make([]catalog.ServerQuality, 0, len(raw.Qualities)),
	}
	for _, q := range raw.Qualities {
		quality := catalog.ServerQuality{
			Title:      q.Title,
			ServerList: make([]catalog.StreamServer, 0, len(q.ServerList)),
		}
		for _, s := range q.ServerList {
			quality.ServerList = append(quality.ServerList, catalog.StreamServer{
				Title:    s.Title,
				ServerID: s.ServerID,
				Href:     s.Href,
			})
		}
		selection.Qualities = append(selection.Qualities, quality)
	}
	return selection
}

// downloadsA flattens format/quality nesting into "<format> - <quality>" groups
func downloadsA(raw *samehadaku.DownloadBlock) []catalog.DownloadGroup {
	groups := []catalog.DownloadGroup{}
	if raw == nil {
		return groups
	}

	for _, f := range raw.Formats {
		for _, q := range f.Qualities {
			links := make([]catalog.DownloadLink, 0, len(q.URLs))
			for _, u := range q.URLs {
				links = append(links, catalog.DownloadLink{Provider: u.Title, URL: u.URL})
			}
			groups = append(groups, catalog.DownloadGroup{
				Quality: fmt.Sprintf("%s - %s", f.Title, q.Title),
				Links:   links,
			})
		}
	}
	return groups
}

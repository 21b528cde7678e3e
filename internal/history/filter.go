package history

import (
	"github.com/sahilm/fuzzy"

	"github.com/justchokingaround/anistream/internal/database"
)

type historySource []database.WatchHistory

func (s historySource) String(i int) string {
	return s[i].AnimeTitle + " " + s[i].EpisodeTitle
}

func (s historySource) Len() int {
	return len(s)
}

type favoriteSource []database.Favorite

func (s favoriteSource) String(i int) string {
	return s[i].AnimeTitle
}

func (s favoriteSource) Len() int {
	return len(s)
}

// FilterHistory fuzzy-matches pattern against anime and episode titles.
// Results are ordered by match quality. An empty pattern returns items.
func FilterHistory(items []database.WatchHistory, pattern string) []database.WatchHistory {
	if pattern == "" {
		return items
	}

	matches := fuzzy.FindFrom(pattern, historySource(items))
	result := make([]database.WatchHistory, 0, len(matches))
	for _, m := range matches {
		result = append(result, items[m.Index])
	}
	return result
}

// FilterFavorites fuzzy-matches pattern against anime titles
func FilterFavorites(items []database.Favorite, pattern string) []database.Favorite {
	if pattern == "" {
		return items
	}

	matches := fuzzy.FindFrom(pattern, favoriteSource(items))
	result := make([]database.Favorite, 0, len(matches))
	for _, m := range matches {
		result = append(result, items[m.Index])
	}
	return result
}

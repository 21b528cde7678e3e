package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/anistream/internal/catalog"
	"github.com/justchokingaround/anistream/internal/config"
	"github.com/justchokingaround/anistream/internal/database"
	"github.com/justchokingaround/anistream/internal/providers"
)

func plainPrinter(buf *bytes.Buffer) *printer {
	p := newPrinter(buf, false)
	p.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestPrinter_AnimeList(t *testing.T) {
	var buf bytes.Buffer
	next := 2
	plainPrinter(&buf).AnimeList(&catalog.Response[[]catalog.AnimeResult]{
		Status: catalog.StatusSuccess,
		Data: []catalog.AnimeResult{
			{Title: "Naruto", Slug: "naruto", Type: "TV", Score: "8.0", Source: catalog.SourceA},
			{Title: "Mob Psycho 100", Slug: "b-7-mob-psycho-100-", Source: catalog.SourceB},
		},
		Pagination: &catalog.Pagination{CurrentPage: 1, TotalPages: 3, HasNextPage: true, NextPage: &next},
	})

	out := buf.String()
	assert.Contains(t, out, " 1. Naruto [A]")
	assert.Contains(t, out, "TV · ★ 8.0")
	assert.Contains(t, out, " 2. Mob Psycho 100 [B]")
	assert.Contains(t, out, "b-7-mob-psycho-100-")
	assert.Contains(t, out, "Page 1 of 3 (next: --page 2)")
}

func TestPrinter_AnimeListEmpty(t *testing.T) {
	var buf bytes.Buffer
	plainPrinter(&buf).AnimeList(&catalog.Response[[]catalog.AnimeResult]{
		Status: catalog.StatusError,
		Data:   []catalog.AnimeResult{},
	})
	assert.Equal(t, "No results\n", buf.String())
}

func TestPrinter_AnimeDetail(t *testing.T) {
	var buf bytes.Buffer
	plainPrinter(&buf).AnimeDetail(&catalog.AnimeDetail{
		Title:    "Naruto",
		Slug:     "b-42-naruto",
		Synopsis: "First paragraph.\n\nSecond paragraph.",
		Genres:   []catalog.Genre{{Title: "Action"}, {Title: "Adventure"}},
		EpisodeLists: []catalog.EpisodeRef{
			{Title: "Episode 1", Slug: "b-42-naruto-1"},
		},
		Source: catalog.SourceB,
	})

	out := buf.String()
	assert.Contains(t, out, "Naruto [B]")
	assert.Contains(t, out, "Genres: Action, Adventure")
	assert.Contains(t, out, "First paragraph.\n\nSecond paragraph.")
	assert.Contains(t, out, "Episodes (1)")
	assert.Contains(t, out, "b-42-naruto-1")
	assert.NotContains(t, out, "Japanese:")
}

func TestPrinter_Episode(t *testing.T) {
	var buf bytes.Buffer
	plainPrinter(&buf).Episode(&catalog.EpisodeDetail{
		Title:       "Episode 3",
		StreamURL:   "https://cdn.test/720.mp4",
		NextEpisode: &catalog.EpisodeLink{Slug: "b-42-naruto-4"},
		Server: &catalog.ServerSelection{Qualities: []catalog.ServerQuality{{
			Title:      "Resolution",
			ServerList: []catalog.StreamServer{{Title: "720p", ServerID: "https://cdn.test/720.mp4"}},
		}}},
		DownloadURLs: []catalog.DownloadGroup{{
			Quality: "MP4 720p",
			Links:   []catalog.DownloadLink{{Provider: "Pixeldrain", URL: "https://dl.test/1"}},
		}},
		Source: catalog.SourceB,
	})

	out := buf.String()
	assert.Contains(t, out, "Stream: https://cdn.test/720.mp4")
	assert.Contains(t, out, "Next: b-42-naruto-4")
	assert.NotContains(t, out, "Previous:")
	assert.Contains(t, out, "Resolution")
	assert.Contains(t, out, "Pixeldrain")
}

func TestPrinter_History(t *testing.T) {
	var buf bytes.Buffer
	p := plainPrinter(&buf)
	p.History([]database.WatchHistory{{
		AnimeTitle:   "Naruto",
		EpisodeTitle: "Episode 3",
		EpisodeSlug:  "naruto-episode-3",
		Progress:     50,
		CurrentTime:  720,
		Duration:     1440,
		WatchedAt:    p.now().Add(-3 * time.Hour),
	}})

	out := buf.String()
	assert.Contains(t, out, "Naruto - Episode 3")
	assert.Contains(t, out, "50% (12:00 / 24:00)")
	assert.Contains(t, out, "3 hours ago")
}

func TestPrinter_Providers(t *testing.T) {
	var buf bytes.Buffer
	plainPrinter(&buf).Providers([]providers.ProviderStatus{
		{ProviderName: "kuramanime", Role: providers.RoleFallback, Healthy: false, Status: "Offline: boom",
			LastResult: &providers.HealthCheckResult{URL: "https://kura.test", CurlCommand: "curl -v 'https://kura.test'"}},
		{ProviderName: "samehadaku", Role: providers.RolePrimary, Healthy: true, Status: "Online"},
	})

	out := buf.String()
	assert.Contains(t, out, "✗ kuramanime (fallback) Offline: boom")
	assert.Contains(t, out, "curl -v 'https://kura.test'")
	assert.Contains(t, out, "✓ samehadaku (primary) Online")
	assert.Equal(t, "1 of 2 providers unhealthy", unhealthySummary([]providers.ProviderStatus{{Healthy: false}, {Healthy: true}}))
}

func TestTruncateWithWidth(t *testing.T) {
	assert.Equal(t, "short", truncateWithWidth("short", 10))
	assert.Equal(t, "abcdefg...", truncateWithWidth("abcdefghijklmnop", 10))
	// wide runes count double
	got := truncateWithWidth("進撃の巨人 The Final Season", 10)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len([]rune(got)), 10)
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four\n\nfive", 9)
	assert.Equal(t, []string{"one two", "three", "four", "", "five"}, lines)
}

func TestClock(t *testing.T) {
	assert.Equal(t, "0:05", clock(5))
	assert.Equal(t, "24:00", clock(1440))
	assert.Equal(t, "1:02:03", clock(3723))
}

func TestAnimeToken(t *testing.T) {
	assert.Equal(t, "b-42-naruto", animeToken("b-42-naruto-3"))
	assert.Equal(t, "b-7-mob-psycho-100-", animeToken("b-7-mob-psycho-100-3"))
	assert.Equal(t, "naruto-episode-3", animeToken("naruto-episode-3"))
	assert.Equal(t, "b-42", animeToken("b-42"))
}

func TestApplyFlagOverrides(t *testing.T) {
	defer func() { debugMode, logLevel, noColor = false, "", false }()

	c := config.DefaultConfig()
	debugMode = true
	applyFlagOverrides(c)
	assert.True(t, c.Advanced.Debug)
	assert.Equal(t, "debug", c.Logging.Level)

	c = config.DefaultConfig()
	logLevel = "warn"
	noColor = true
	applyFlagOverrides(c)
	assert.Equal(t, "warn", c.Logging.Level)
	assert.False(t, c.Logging.Color)
}

func TestBuildBackend(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/samehadaku/search":
			_, _ = w.Write([]byte(`{"status":"success","data":{"animeList":[]}}`))
		case "/kura/search/zzzz":
			_, _ = w.Write([]byte(`{"status":"success","results":[{"id":42,"slug":"zzzz","title":"Zzzz","image":"z.jpg"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	c := config.DefaultConfig()
	c.Providers.Samehadaku.BaseURL = upstream.URL + "/samehadaku"
	c.Providers.Kuramanime.BaseURL = upstream.URL + "/kura"

	b, err := buildBackend(c, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"kuramanime", "samehadaku"}, b.registry.List())

	resp, err := b.service.Search(context.Background(), "zzzz", 1)
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "b-42-zzzz", resp.Data[0].Slug)
	assert.Equal(t, catalog.SourceB, resp.Data[0].Source)
}

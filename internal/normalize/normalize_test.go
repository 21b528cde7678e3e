package normalize

import (
	"encoding/json"
	"testing"

	"github.com/justchokingaround/anistream/internal/catalog"
	"github.com/justchokingaround/anistream/internal/providers/kuramanime"
	"github.com/justchokingaround/anistream/internal/providers/samehadaku"
	"github.com/justchokingaround/anistream/internal/slug"
	"github.com/justchokingaround/anistream/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestAnimeItemA(t *testing.T) {
	t.Run("maps every field", func(t *testing.T) {
		card := decode[samehadaku.AnimeCard](t, `{
			"title": "Frieren", "animeId": "sousou-no-frieren", "poster": "p.jpg",
			"episodes": 28, "releasedOn": "2 days ago", "status": "Ongoing", "score": "9.1", "type": "TV",
			"genreList": [{"title": "Fantasy", "genreId": "fantasy", "href": "/genres/fantasy"}]
		}`)

		got := AnimeItemA(card)
		assert.Equal(t, catalog.AnimeResult{
			Title:      "Frieren",
			Slug:       "sousou-no-frieren",
			Poster:     "p.jpg",
			Status:     "Ongoing",
			Score:      "9.1",
			Type:       "TV",
			Episodes:   "28",
			ReleasedOn: "2 days ago",
			GenreList:  []catalog.Genre{{Title: "Fantasy", GenreID: "fantasy", Href: "/genres/fantasy"}},
			Source:     catalog.SourceA,
		}, got)
	})

	t.Run("missing score and genres stay absent", func(t *testing.T) {
		got := AnimeItemA(decode[samehadaku.AnimeCard](t, `{"title": "X", "animeId": "x"}`))
		assert.Equal(t, "", got.Score)
		assert.Empty(t, got.GenreList)

		b, err := json.Marshal(got)
		require.NoError(t, err)
		assert.NotContains(t, string(b), "score")
		assert.NotContains(t, string(b), "genreList")
	})

	t.Run("list is never nil", func(t *testing.T) {
		assert.NotNil(t, AnimeListA(nil))
	})
}

func TestPaginationA(t *testing.T) {
	assert.Nil(t, PaginationA(nil))

	raw := decode[samehadaku.Pagination](t, `{"currentPage": 1, "hasPrevPage": false, "prevPage": null, "hasNextPage": true, "nextPage": 2, "totalPages": 5}`)
	got := PaginationA(&raw)

	require.NotNil(t, got)
	assert.Equal(t, 1, got.CurrentPage)
	assert.Nil(t, got.PrevPage)
	require.NotNil(t, got.NextPage)
	assert.Equal(t, 2, *got.NextPage)
	assert.Equal(t, 5, got.TotalPages)
	assert.False(t, got.IsLast())
}

func TestAnimeDetailA(t *testing.T) {
	raw := decode[samehadaku.AnimeData](t, `{
		"title": "",
		"english": "",
		"japanese": "葬送のフリーレン",
		"score": {"value": 9.1},
		"synopsis": {"paragraphs": ["First <b>part</b>.", "", "Second &amp; last."]},
		"episodes": 28,
		"genreList": [{"title": "Fantasy", "genreId": "fantasy", "href": "/genres/fantasy"}],
		"batchList": [
			{"title": "Batch 1-14", "batchId": "frieren-batch-1", "href": "/batch/frieren-batch-1"},
			{"title": "Batch 15-28", "batchId": "frieren-batch-2", "href": "/batch/frieren-batch-2"}
		],
		"episodeList": [{"title": 2, "episodeId": "frieren-episode-2", "href": "/episode/frieren-episode-2"}]
	}`)

	got := AnimeDetailA("sousou-no-frieren", &raw)
	require.NotNil(t, got)

	assert.Equal(t, "葬送のフリーレン", got.Title)
	assert.Equal(t, "sousou-no-frieren", got.Slug)
	assert.Equal(t, "First part.\n\nSecond & last.", got.Synopsis)
	assert.Equal(t, "9.1", got.Rating)
	assert.Equal(t, "28", got.EpisodeCount)
	require.NotNil(t, got.Batch)
	assert.Equal(t, "frieren-batch-1", got.Batch.BatchID)
	assert.Equal(t, []catalog.EpisodeRef{{Title: "2", Slug: "frieren-episode-2", Href: "/episode/frieren-episode-2"}}, got.EpisodeLists)
	assert.Equal(t, catalog.SourceA, got.Source)

	t.Run("title falls back to unknown", func(t *testing.T) {
		got := AnimeDetailA("x", &samehadaku.AnimeData{})
		assert.Equal(t, UnknownTitle, got.Title)
		assert.Nil(t, got.Batch)
		assert.NotNil(t, got.EpisodeLists)
		assert.Empty(t, got.Genres)
		assert.Equal(t, "", got.Rating)
	})

	t.Run("nil payload", func(t *testing.T) {
		assert.Nil(t, AnimeDetailA("x", nil))
	})
}

func TestEpisodeA(t *testing.T) {
	raw := decode[samehadaku.EpisodeData](t, `{
		"title": "Frieren Episode 2",
		"defaultStreamingUrl": "https://stream/2",
		"hasPrevEpisode": true,
		"prevEpisode": {"episodeId": "frieren-episode-1", "href": "/episode/frieren-episode-1"},
		"hasNextEpisode": false,
		"nextEpisode": {"episodeId": "frieren-episode-3", "href": "/episode/frieren-episode-3"},
		"server": {"qualities": [{"title": "480p", "serverList": [{"title": "Mega", "serverId": "s1", "href": "/server/s1"}]}]},
		"downloadUrl": {"formats": [
			{"title": "MKV", "qualities": [
				{"title": "480p", "urls": [{"title": "GDrive", "url": "https://dl/a"}]},
				{"title": "720p", "urls": [{"title": "Mega", "url": "https://dl/b"}]}
			]},
			{"title": "MP4", "qualities": [{"title": "360p", "urls": []}]}
		]}
	}`)

	got := EpisodeA(&raw)
	require.NotNil(t, got)

	assert.Equal(t, "https://stream/2", got.StreamURL)
	assert.Equal(t, &catalog.EpisodeLink{Slug: "frieren-episode-1", Href: "/episode/frieren-episode-1"}, got.PrevEpisode)
	assert.Nil(t, got.NextEpisode, "hasNextEpisode=false wins over a stale nextEpisode block")
	require.NotNil(t, got.Server)
	assert.Equal(t, "s1", got.Server.Qualities[0].ServerList[0].ServerID)

	require.Len(t, got.DownloadURLs, 3)
	assert.Equal(t, "MKV - 480p", got.DownloadURLs[0].Quality)
	assert.Equal(t, []catalog.DownloadLink{{Provider: "GDrive", URL: "https://dl/a"}}, got.DownloadURLs[0].Links)
	assert.Equal(t, "MKV - 720p", got.DownloadURLs[1].Quality)
	assert.Equal(t, "MP4 - 360p", got.DownloadURLs[2].Quality)
	assert.Empty(t, got.DownloadURLs[2].Links)

	t.Run("missing blocks", func(t *testing.T) {
		got := EpisodeA(&samehadaku.EpisodeData{Title: "x"})
		assert.Nil(t, got.Server)
		assert.NotNil(t, got.DownloadURLs)
		assert.Empty(t, got.DownloadURLs)
	})
}

func TestBatchA(t *testing.T) {
	raw := decode[samehadaku.BatchData](t, `{
		"title": "Frieren Batch", "animeId": "sousou-no-frieren", "score": 9.1, "credit": "Samehadaku",
		"downloadUrl": {"formats": [{"title": "MKV", "qualities": [{"title": "1080p", "size": "4.2 GB", "urls": [{"title": "GDrive", "url": "https://dl/x"}]}]}]}
	}`)

	got := BatchA(&raw)
	require.NotNil(t, got)

	assert.Equal(t, "9.1", got.Score)
	assert.Equal(t, "Samehadaku", got.Credit)
	assert.NotNil(t, got.GenreList)
	require.Len(t, got.DownloadURL.Formats, 1)
	q := got.DownloadURL.Formats[0].Qualities[0]
	assert.Equal(t, "4.2 GB", q.Size)
	assert.Equal(t, []catalog.DownloadURL{{Title: "GDrive", URL: "https://dl/x"}}, q.URLs)

	assert.Nil(t, BatchA(nil))
}

func TestAnimeItemB(t *testing.T) {
	t.Run("encodes composite token", func(t *testing.T) {
		got, ok := AnimeItemB(kuramanime.SearchItem{ID: types.Int(42), Slug: "foo", Title: "Foo", Image: "foo.jpg"})
		require.True(t, ok)

		assert.Equal(t, "b-42-foo", got.Slug)
		assert.Equal(t, catalog.SourceB, got.Source)
		assert.Equal(t, "foo.jpg", got.Poster)
		assert.Equal(t, "", got.Score)
		assert.Empty(t, got.GenreList)

		ref, err := slug.Decode(got.Slug)
		require.NoError(t, err)
		assert.Equal(t, slug.B(42, "foo"), ref)
	})

	t.Run("unaddressable hits are dropped", func(t *testing.T) {
		got := AnimeListB([]kuramanime.SearchItem{
			{Slug: "no-id"},
			{ID: types.Int(1)},
			{ID: types.Int(2), Slug: "ok"},
		})
		require.Len(t, got, 1)
		assert.Equal(t, "b-2-ok", got[0].Slug)
	})
}

func TestAnimeDetailB(t *testing.T) {
	raw := decode[kuramanime.AnimeResponse](t, `{
		"status": "success",
		"results": {
			"title": "Mob Psycho 100",
			"title_raw": "モブサイコ100",
			"image": "mob.jpg",
			"description": "Line one<br>Line two",
			"details": [
				{"type": "Skor:", "data": "8.5"},
				{"type": "Tipe:", "data": "TV"},
				{"type": "Status:", "data": "Selesai"},
				{"type": "Episode:", "data": 12},
				{"type": "Durasi:", "data": "24 min"},
				{"type": "Tayang:", "data": "Jul 2016"},
				{"type": "Studio:", "data": "Bones"},
				{"type": "Genre:", "data": "Action, Comedy, , Supernatural"}
			],
			"episode": [1, 2]
		}
	}`)

	ref := slug.B(7, "mob-psycho-100")
	got := AnimeDetailB(ref, raw.Results)
	require.NotNil(t, got)

	assert.Equal(t, "b-7-mob-psycho-100-", got.Slug)
	assert.Equal(t, "Line one\nLine two", got.Synopsis)
	assert.Equal(t, "モブサイコ100", got.JapaneseTitle)
	assert.Equal(t, "8.5", got.Rating)
	assert.Equal(t, "TV", got.Type)
	assert.Equal(t, "Selesai", got.Status)
	assert.Equal(t, "12", got.EpisodeCount)
	assert.Equal(t, "24 min", got.Duration)
	assert.Equal(t, "Jul 2016", got.Aired)
	assert.Equal(t, "Bones", got.Studios)
	assert.Equal(t, []catalog.Genre{
		{Title: "Action", GenreID: "action"},
		{Title: "Comedy", GenreID: "comedy"},
		{Title: "Supernatural", GenreID: "supernatural"},
	}, got.Genres)
	assert.Nil(t, got.Batch)

	require.Len(t, got.EpisodeLists, 2)
	assert.Equal(t, "Episode 1", got.EpisodeLists[0].Title)
	assert.Equal(t, "", got.EpisodeLists[0].Href)
	for i, ep := range got.EpisodeLists {
		decoded, err := slug.Decode(ep.Slug)
		require.NoError(t, err)
		assert.Equal(t, slug.BEpisode(7, "mob-psycho-100", i+1), decoded)
	}

	t.Run("missing details leave fields empty", func(t *testing.T) {
		got := AnimeDetailB(slug.B(1, "x"), &kuramanime.AnimeData{Title: "X"})
		assert.Equal(t, "", got.Rating)
		assert.Empty(t, got.Genres)
		assert.NotNil(t, got.EpisodeLists)
	})
}

func TestEpisodeB(t *testing.T) {
	// The watch endpoint has no data wrapper
	raw := decode[kuramanime.WatchResponse](t, `{
		"status": "success",
		"creator": "Sanka Vollerei",
		"title": "Foo Episode 5",
		"streams": [
			{"quality": "480", "url": "https://s/480"},
			{"quality": "720", "url": "https://s/720"},
			{"quality": "1080", "url": "https://s/1080"}
		],
		"downloads": [
			{"quality_group": "MP4 720p", "links": [{"provider": "Mega", "url": "https://mega/x"}, {"provider": "Dead", "url": ""}]}
		],
		"navigation": {"prev": 4, "next": "6"}
	}`)

	ref := slug.BEpisode(42, "foo", 5)
	got := EpisodeB(ref, &raw, "")
	require.NotNil(t, got)

	assert.Equal(t, "Foo Episode 5", got.Title)
	assert.Equal(t, "https://s/720", got.StreamURL)
	assert.Equal(t, catalog.SourceB, got.Source)

	require.NotNil(t, got.Server)
	require.Len(t, got.Server.Qualities, 1)
	assert.Equal(t, ResolutionGroup, got.Server.Qualities[0].Title)
	assert.Equal(t, []catalog.StreamServer{
		{Title: "480p", ServerID: "https://s/480"},
		{Title: "720p", ServerID: "https://s/720"},
		{Title: "1080p", ServerID: "https://s/1080"},
	}, got.Server.Qualities[0].ServerList)

	require.Len(t, got.DownloadURLs, 1)
	assert.Equal(t, "MP4 720p", got.DownloadURLs[0].Quality)
	assert.Equal(t, []catalog.DownloadLink{{Provider: "Mega", URL: "https://mega/x"}}, got.DownloadURLs[0].Links)

	require.NotNil(t, got.PrevEpisode)
	require.NotNil(t, got.NextEpisode)
	prev, err := slug.Decode(got.PrevEpisode.Slug)
	require.NoError(t, err)
	next, err := slug.Decode(got.NextEpisode.Slug)
	require.NoError(t, err)
	assert.Equal(t, slug.BEpisode(42, "foo", 4), prev)
	assert.Equal(t, slug.BEpisode(42, "foo", 6), next)
	assert.Equal(t, "", got.PrevEpisode.Href)
}

func TestEpisodeB_Defaults(t *testing.T) {
	t.Run("preferred quality overrides default", func(t *testing.T) {
		raw := &kuramanime.WatchResponse{Streams: []kuramanime.Stream{
			{Quality: "720", URL: "https://s/720"},
			{Quality: "1080p", URL: "https://s/1080"},
		}}
		got := EpisodeB(slug.BEpisode(1, "x", 1), raw, "1080")
		assert.Equal(t, "https://s/1080", got.StreamURL)
		assert.Equal(t, "1080p", got.Server.Qualities[0].ServerList[1].Title)
	})

	t.Run("falls back to first stream", func(t *testing.T) {
		raw := &kuramanime.WatchResponse{Streams: []kuramanime.Stream{{Quality: "360", URL: "https://s/360"}}}
		got := EpisodeB(slug.BEpisode(1, "x", 1), raw, "")
		assert.Equal(t, "https://s/360", got.StreamURL)
	})

	t.Run("empty payload", func(t *testing.T) {
		got := EpisodeB(slug.BEpisode(1, "x", 1), &kuramanime.WatchResponse{}, "")
		assert.Equal(t, DefaultEpisodeTitle, got.Title)
		assert.Equal(t, "", got.StreamURL)
		assert.Nil(t, got.Server)
		assert.NotNil(t, got.DownloadURLs)
		assert.Nil(t, got.PrevEpisode)
		assert.Nil(t, got.NextEpisode)
	})

	t.Run("navigation ends and odd values", func(t *testing.T) {
		raw := decode[kuramanime.WatchResponse](t, `{"navigation": {"prev": null, "next": "/watch/1/x/2"}}`)
		got := EpisodeB(slug.BEpisode(1, "x", 1), &raw, "")

		assert.Nil(t, got.PrevEpisode)
		require.NotNil(t, got.NextEpisode)
		assert.Equal(t, "b-1-x-2", got.NextEpisode.Slug)
	})

	t.Run("nil payload", func(t *testing.T) {
		assert.Nil(t, EpisodeB(slug.BEpisode(1, "x", 1), nil, ""))
	})
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"  padded  ", "padded"},
		{"a<br>b", "a\nb"},
		{"<p>one</p><p>two</p>", "one\n\ntwo"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"<i>italic</i> words", "italic words"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

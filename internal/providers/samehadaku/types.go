package samehadaku

import (
	"github.com/justchokingaround/anistream/pkg/types"
)

// Envelope is the wrapper shared by every endpoint
type Envelope[T any] struct {
	Status     string      `json:"status"`
	Data       T           `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination is the upstream paging block. Prev/next pages are null at
// either end of the result set.
type Pagination struct {
	CurrentPage types.FlexInt `json:"currentPage"`
	HasPrevPage bool          `json:"hasPrevPage"`
	PrevPage    types.FlexInt `json:"prevPage"`
	HasNextPage bool          `json:"hasNextPage"`
	NextPage    types.FlexInt `json:"nextPage"`
	TotalPages  types.FlexInt `json:"totalPages"`
}

// Genre is an entry of a genreList
type Genre struct {
	Title   string `json:"title"`
	GenreID string `json:"genreId"`
	Href    string `json:"href"`
}

// AnimeCard is a list item shared by home, search and ongoing
type AnimeCard struct {
	Title      string           `json:"title"`
	Poster     string           `json:"poster"`
	AnimeID    string           `json:"animeId"`
	Href       string           `json:"href"`
	Episodes   types.FlexString `json:"episodes"`
	ReleasedOn string           `json:"releasedOn"`
	Status     string           `json:"status"`
	Score      types.FlexString `json:"score"`
	Type       string           `json:"type"`
	GenreList  []Genre          `json:"genreList"`
}

// AnimeList is the data block of search and ongoing
type AnimeList struct {
	AnimeList []AnimeCard `json:"animeList"`
}

// HomeData is the data block of /home
type HomeData struct {
	Recent AnimeList `json:"recent"`
}

// Score is the detail-page score block
type Score struct {
	Value types.FlexString `json:"value"`
	Users types.FlexString `json:"users"`
}

// Synopsis is the detail-page synopsis block
type Synopsis struct {
	Paragraphs []string `json:"paragraphs"`
}

// BatchItem is an entry of batchList
type BatchItem struct {
	Title   string `json:"title"`
	BatchID string `json:"batchId"`
	Href    string `json:"href"`
}

// EpisodeItem is an entry of episodeList
type EpisodeItem struct {
	Title     types.FlexString `json:"title"`
	EpisodeID string           `json:"episodeId"`
	Href      string           `json:"href"`
}

// AnimeData is the data block of /anime/{slug}
type AnimeData struct {
	Title       string           `json:"title"`
	Poster      string           `json:"poster"`
	Score       Score            `json:"score"`
	Japanese    string           `json:"japanese"`
	Synonyms    string           `json:"synonyms"`
	English     string           `json:"english"`
	Status      string           `json:"status"`
	Type        string           `json:"type"`
	Source      string           `json:"source"`
	Duration    string           `json:"duration"`
	Episodes    types.FlexString `json:"episodes"`
	Season      string           `json:"season"`
	Studios     string           `json:"studios"`
	Producers   string           `json:"producers"`
	Aired       string           `json:"aired"`
	Trailer     string           `json:"trailer"`
	Synopsis    Synopsis         `json:"synopsis"`
	GenreList   []Genre          `json:"genreList"`
	BatchList   []BatchItem      `json:"batchList"`
	EpisodeList []EpisodeItem    `json:"episodeList"`
}

// EpisodeNav points at a neighbouring episode
type EpisodeNav struct {
	Title     string `json:"title"`
	EpisodeID string `json:"episodeId"`
	Href      string `json:"href"`
}

// Server is one streaming server of an episode
type Server struct {
	Title    string `json:"title"`
	ServerID string `json:"serverId"`
	Href     string `json:"href"`
}

// ServerQuality groups servers by resolution
type ServerQuality struct {
	Title      string   `json:"title"`
	ServerList []Server `json:"serverList"`
}

// ServerBlock lists the servers of an episode
type ServerBlock struct {
	Qualities []ServerQuality `json:"qualities"`
}

// DownloadURL is a titled download mirror
type DownloadURL struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// DownloadQuality is one resolution of a download format
type DownloadQuality struct {
	Title string           `json:"title"`
	Size  types.FlexString `json:"size"`
	URLs  []DownloadURL    `json:"urls"`
}

// DownloadFormat is one container format (MKV, MP4, x265 ...)
type DownloadFormat struct {
	Title     string            `json:"title"`
	Qualities []DownloadQuality `json:"qualities"`
}

// DownloadBlock lists the downloadable formats
type DownloadBlock struct {
	Formats []DownloadFormat `json:"formats"`
}

// EpisodeData is the data block of /episode/{slug}
type EpisodeData struct {
	Title               string         `json:"title"`
	AnimeID             string         `json:"animeId"`
	Poster              string         `json:"poster"`
	ReleasedOn          string         `json:"releasedOn"`
	DefaultStreamingURL string         `json:"defaultStreamingUrl"`
	HasPrevEpisode      bool           `json:"hasPrevEpisode"`
	PrevEpisode         *EpisodeNav    `json:"prevEpisode"`
	HasNextEpisode      bool           `json:"hasNextEpisode"`
	NextEpisode         *EpisodeNav    `json:"nextEpisode"`
	Server              *ServerBlock   `json:"server"`
	DownloadURL         *DownloadBlock `json:"downloadUrl"`
}

// BatchData is the data block of /batch/{slug}
type BatchData struct {
	Title       string           `json:"title"`
	AnimeID     string           `json:"animeId"`
	Poster      string           `json:"poster"`
	Japanese    string           `json:"japanese"`
	Synonyms    string           `json:"synonyms"`
	English     string           `json:"english"`
	Status      string           `json:"status"`
	Type        string           `json:"type"`
	Source      string           `json:"source"`
	Score       types.FlexString `json:"score"`
	Duration    string           `json:"duration"`
	Episodes    types.FlexString `json:"episodes"`
	Season      string           `json:"season"`
	Studios     string           `json:"studios"`
	Producers   string           `json:"producers"`
	Aired       string           `json:"aired"`
	ReleasedOn  string           `json:"releasedOn"`
	Credit      string           `json:"credit"`
	GenreList   []Genre          `json:"genreList"`
	DownloadURL DownloadBlock    `json:"downloadUrl"`
}

// ServerData is the data block of /server/{serverId}
type ServerData struct {
	URL string `json:"url"`
}

// Response aliases for each endpoint
type (
	HomeResponse    = Envelope[HomeData]
	ListResponse    = Envelope[AnimeList]
	AnimeResponse   = Envelope[*AnimeData]
	EpisodeResponse = Envelope[*EpisodeData]
	BatchResponse   = Envelope[*BatchData]
	ServerResponse  = Envelope[ServerData]
)

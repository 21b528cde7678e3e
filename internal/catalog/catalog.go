// Package catalog defines the canonical records returned by the aggregation
// layer. Every record is built fresh per request and owned by the caller.
package catalog

// Source identifies which upstream provider produced a record
type Source string

const (
	// SourceA is the primary Samehadaku-backed catalog
	SourceA Source = "A"
	// SourceB is the Kuramanime-backed fallback catalog
	SourceB Source = "B"
)

// String returns the string representation of Source
func (s Source) String() string {
	return string(s)
}

// Status values carried in Response.Status
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Genre is the flattened genre shape shared by both providers
type Genre struct {
	Title   string `json:"title"`
	GenreID string `json:"genreId"`
	Href    string `json:"href"`
}

// AnimeResult is a list/grid item. Slug is always a composite token.
type AnimeResult struct {
	Title      string  `json:"title"`
	Slug       string  `json:"slug"`
	Poster     string  `json:"poster"`
	Status     string  `json:"status,omitempty"`
	Score      string  `json:"score,omitempty"`
	Type       string  `json:"type,omitempty"`
	Episodes   string  `json:"episodes,omitempty"`
	ReleasedOn string  `json:"releasedOn,omitempty"`
	GenreList  []Genre `json:"genreList,omitempty"`
	Source     Source  `json:"source"`
}

// BatchRef points at a batch download page of an anime
type BatchRef struct {
	Title   string `json:"title"`
	BatchID string `json:"batchId"`
	Href    string `json:"href"`
}

// EpisodeRef is one entry of AnimeDetail.EpisodeLists
type EpisodeRef struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Href  string `json:"href"`
}

// AnimeDetail is the full record of a single anime
type AnimeDetail struct {
	Title         string       `json:"title"`
	Slug          string       `json:"slug"`
	Poster        string       `json:"poster"`
	Synopsis      string       `json:"synopsis"`
	JapaneseTitle string       `json:"japaneseTitle,omitempty"`
	EnglishTitle  string       `json:"englishTitle,omitempty"`
	Rating        string       `json:"rating,omitempty"`
	Producers     string       `json:"producers,omitempty"`
	Type          string       `json:"type,omitempty"`
	Status        string       `json:"status,omitempty"`
	EpisodeCount  string       `json:"episodeCount,omitempty"`
	Duration      string       `json:"duration,omitempty"`
	Aired         string       `json:"aired,omitempty"`
	Studios       string       `json:"studios,omitempty"`
	Genres        []Genre      `json:"genres,omitempty"`
	Batch         *BatchRef    `json:"batch"`
	EpisodeLists  []EpisodeRef `json:"episodeLists"`
	Source        Source       `json:"source"`
}

// EpisodeLink is a previous/next episode pointer
type EpisodeLink struct {
	Slug string `json:"slug"`
	Href string `json:"href"`
}

// StreamServer is a selectable streaming server
type StreamServer struct {
	Title    string `json:"title"`
	ServerID string `json:"serverId"`
	Href     string `json:"href"`
}

// ServerQuality groups the servers available for one quality
type ServerQuality struct {
	Title      string         `json:"title"`
	ServerList []StreamServer `json:"serverList"`
}

// ServerSelection lists every selectable stream of an episode
type ServerSelection struct {
	Qualities []ServerQuality `json:"qualities"`
}

// DownloadLink is a single mirror of a download
type DownloadLink struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
}

// DownloadGroup holds the mirrors for one quality
type DownloadGroup struct {
	Quality string         `json:"quality"`
	Links   []DownloadLink `json:"links"`
}

// EpisodeDetail is the playable record of a single episode
type EpisodeDetail struct {
	Title        string           `json:"title"`
	StreamURL    string           `json:"streamUrl"`
	PrevEpisode  *EpisodeLink     `json:"prevEpisode"`
	NextEpisode  *EpisodeLink     `json:"nextEpisode"`
	Server       *ServerSelection `json:"server,omitempty"`
	DownloadURLs []DownloadGroup  `json:"downloadUrls"`
	Source       Source           `json:"source"`
}

// DownloadURL is a titled download mirror of a batch
type DownloadURL struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// BatchQuality is one quality of a batch download format
type BatchQuality struct {
	Title string        `json:"title"`
	Size  string        `json:"size"`
	URLs  []DownloadURL `json:"urls"`
}

// BatchFormat is one container format of a batch download
type BatchFormat struct {
	Title     string         `json:"title"`
	Qualities []BatchQuality `json:"qualities"`
}

// BatchDownloads lists the downloadable formats of a batch
type BatchDownloads struct {
	Formats []BatchFormat `json:"formats"`
}

// BatchDetail is a complete-season download bundle
type BatchDetail struct {
	Title       string         `json:"title"`
	AnimeID     string         `json:"animeId"`
	Poster      string         `json:"poster"`
	Japanese    string         `json:"japanese"`
	Type        string         `json:"type"`
	Score       string         `json:"score"`
	Duration    string         `json:"duration"`
	Studios     string         `json:"studios"`
	Producers   string         `json:"producers"`
	Aired       string         `json:"aired"`
	Credit      string         `json:"credit"`
	GenreList   []Genre        `json:"genreList"`
	DownloadURL BatchDownloads `json:"downloadUrl"`
}

// Response is the envelope returned by every aggregation operation
type Response[T any] struct {
	Status     string      `json:"status"`
	Data       T           `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ServerLink is a resolved, playable stream URL
type ServerLink struct {
	URL string `json:"url"`
}

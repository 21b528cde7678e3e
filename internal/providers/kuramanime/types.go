package kuramanime

import (
	"github.com/justchokingaround/anistream/pkg/types"
)

// SearchItem is one entry of /search/{query}
type SearchItem struct {
	ID     types.FlexInt    `json:"id"`
	Slug   string           `json:"slug"`
	Title  string           `json:"title"`
	Image  string           `json:"image"`
	Status string           `json:"status"`
	Rating types.FlexString `json:"rating"`
	Type   string           `json:"type"`
}

// SearchResponse wraps results under "results"
type SearchResponse struct {
	Status  string       `json:"status"`
	Results []SearchItem `json:"results"`
}

// Detail is a labelled row of the detail table ("Skor:", "Tipe:" ...)
type Detail struct {
	Type string           `json:"type"`
	Data types.FlexString `json:"data"`
}

// AnimeData is the results block of /anime/{id}/{slug}
type AnimeData struct {
	Title       string          `json:"title"`
	TitleRaw    string          `json:"title_raw"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Details     []Detail        `json:"details"`
	Episode     []types.FlexInt `json:"episode"`
}

// Lookup returns the value of the detail row labelled label
func (a *AnimeData) Lookup(label string) string {
	for _, d := range a.Details {
		if d.Type == label {
			return d.Data.String()
		}
	}
	return ""
}

// AnimeResponse wraps the detail under "results"
type AnimeResponse struct {
	Status  string     `json:"status"`
	Results *AnimeData `json:"results"`
}

// Stream is a direct video source at one resolution
type Stream struct {
	Quality types.FlexString `json:"quality"`
	URL     string           `json:"url"`
}

// DownloadLink is one mirror of a download group
type DownloadLink struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
}

// DownloadGroup groups mirrors by quality
type DownloadGroup struct {
	QualityGroup string         `json:"quality_group"`
	Links        []DownloadLink `json:"links"`
}

// Navigation carries the neighbouring episode numbers. Either side is null
// at the ends of a season.
type Navigation struct {
	Prev types.FlexString `json:"prev"`
	Next types.FlexString `json:"next"`
}

// WatchResponse is the /watch payload. Unlike search and detail it is not
// wrapped, the fields sit at the top level.
type WatchResponse struct {
	Status     string          `json:"status"`
	Creator    string          `json:"creator"`
	Source     string          `json:"source"`
	Title      string          `json:"title"`
	Streams    []Stream        `json:"streams"`
	Downloads  []DownloadGroup `json:"downloads"`
	Navigation *Navigation     `json:"navigation"`
}

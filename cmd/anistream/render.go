package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/justchokingaround/anistream/internal/catalog"
	"github.com/justchokingaround/anistream/internal/database"
	"github.com/justchokingaround/anistream/internal/providers"
)

// Oxocarbon accents
var (
	colorPurple = lipgloss.Color("#be95ff")
	colorMauve  = lipgloss.Color("#d1aaff")
	colorMuted  = lipgloss.Color("#767676")
	colorGreen  = lipgloss.Color("#42be65")
	colorRed    = lipgloss.Color("#ff5252")
	colorTeal   = lipgloss.Color("#3ddbd9")
)

// maxTitleWidth bounds titles in list output
const maxTitleWidth = 60

// synopsisWidth is the wrap width for long text
const synopsisWidth = 76

type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	muted    lipgloss.Style
	ok       lipgloss.Style
	bad      lipgloss.Style
	source   lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title:    lipgloss.NewStyle().Foreground(colorPurple).Bold(true),
		subtitle: lipgloss.NewStyle().Foreground(colorMauve).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(colorMuted),
		ok:       lipgloss.NewStyle().Foreground(colorGreen),
		bad:      lipgloss.NewStyle().Foreground(colorRed),
		source:   lipgloss.NewStyle().Foreground(colorTeal),
	}
}

// printer renders catalog records as human-readable text
type printer struct {
	w   io.Writer
	st  styles
	now func() time.Time
}

func newPrinter(w io.Writer, color bool) *printer {
	return &printer{w: w, st: newStyles(color), now: time.Now}
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) field(label, value string) {
	if value == "" {
		return
	}
	p.printf("%s %s\n", p.st.muted.Render(label+":"), value)
}

// AnimeList prints search/home/ongoing results with their tokens
func (p *printer) AnimeList(resp *catalog.Response[[]catalog.AnimeResult]) {
	if len(resp.Data) == 0 {
		p.printf("%s\n", p.st.muted.Render("No results"))
		return
	}

	for i, a := range resp.Data {
		p.printf("%2d. %s %s\n", i+1,
			p.st.title.Render(truncateWithWidth(a.Title, maxTitleWidth)),
			p.st.source.Render("["+a.Source.String()+"]"))
		p.printf("    %s\n", p.st.muted.Render(a.Slug))

		var meta []string
		if a.Type != "" {
			meta = append(meta, a.Type)
		}
		if a.Status != "" {
			meta = append(meta, a.Status)
		}
		if a.Score != "" {
			meta = append(meta, "★ "+a.Score)
		}
		if a.Episodes != "" {
			meta = append(meta, a.Episodes+" eps")
		}
		if len(meta) > 0 {
			p.printf("    %s\n", strings.Join(meta, " · "))
		}
	}

	if pg := resp.Pagination; pg != nil {
		line := fmt.Sprintf("Page %d of %d", pg.CurrentPage, pg.TotalPages)
		if pg.HasNextPage && pg.NextPage != nil {
			line += fmt.Sprintf(" (next: --page %d)", *pg.NextPage)
		}
		p.printf("\n%s\n", p.st.muted.Render(line))
	}
}

// AnimeDetail prints a detail record and its episode tokens
func (p *printer) AnimeDetail(d *catalog.AnimeDetail) {
	p.printf("%s %s\n", p.st.title.Render(d.Title), p.st.source.Render("["+d.Source.String()+"]"))
	p.field("Slug", d.Slug)
	p.field("Japanese", d.JapaneseTitle)
	p.field("English", d.EnglishTitle)
	p.field("Type", d.Type)
	p.field("Status", d.Status)
	p.field("Rating", d.Rating)
	p.field("Episodes", d.EpisodeCount)
	p.field("Duration", d.Duration)
	p.field("Aired", d.Aired)
	p.field("Studios", d.Studios)
	p.field("Producers", d.Producers)
	if len(d.Genres) > 0 {
		titles := make([]string, 0, len(d.Genres))
		for _, g := range d.Genres {
			titles = append(titles, g.Title)
		}
		p.field("Genres", strings.Join(titles, ", "))
	}
	if d.Batch != nil {
		p.field("Batch", d.Batch.BatchID)
	}

	if d.Synopsis != "" {
		p.printf("\n%s\n", strings.Join(wrapText(d.Synopsis, synopsisWidth), "\n"))
	}

	p.printf("\n%s\n", p.st.subtitle.Render(fmt.Sprintf("Episodes (%d)", len(d.EpisodeLists))))
	for _, ep := range d.EpisodeLists {
		p.printf("  %-*s %s\n", 16, truncateWithWidth(ep.Title, 16), p.st.muted.Render(ep.Slug))
	}
}

// Episode prints the playable record of an episode
func (p *printer) Episode(e *catalog.EpisodeDetail) {
	p.printf("%s %s\n", p.st.title.Render(e.Title), p.st.source.Render("["+e.Source.String()+"]"))
	p.field("Stream", e.StreamURL)
	if e.PrevEpisode != nil {
		p.field("Previous", e.PrevEpisode.Slug)
	}
	if e.NextEpisode != nil {
		p.field("Next", e.NextEpisode.Slug)
	}

	if e.Server != nil && len(e.Server.Qualities) > 0 {
		p.printf("\n%s\n", p.st.subtitle.Render("Servers"))
		for _, q := range e.Server.Qualities {
			p.printf("  %s\n", q.Title)
			for _, s := range q.ServerList {
				p.printf("    %-12s %s\n", truncateWithWidth(s.Title, 12), p.st.muted.Render(s.ServerID))
			}
		}
	}

	if len(e.DownloadURLs) > 0 {
		p.printf("\n%s\n", p.st.subtitle.Render("Downloads"))
		for _, g := range e.DownloadURLs {
			p.printf("  %s\n", g.Quality)
			for _, l := range g.Links {
				p.printf("    %-12s %s\n", truncateWithWidth(l.Provider, 12), l.URL)
			}
		}
	}
}

// Batch prints a batch download bundle
func (p *printer) Batch(b *catalog.BatchDetail) {
	p.printf("%s\n", p.st.title.Render(b.Title))
	p.field("Anime", b.AnimeID)
	p.field("Japanese", b.Japanese)
	p.field("Type", b.Type)
	p.field("Score", b.Score)
	p.field("Duration", b.Duration)
	p.field("Studios", b.Studios)
	p.field("Aired", b.Aired)
	p.field("Credit", b.Credit)

	for _, f := range b.DownloadURL.Formats {
		p.printf("\n%s\n", p.st.subtitle.Render(f.Title))
		for _, q := range f.Qualities {
			p.printf("  %s %s\n", q.Title, p.st.muted.Render(q.Size))
			for _, u := range q.URLs {
				p.printf("    %-12s %s\n", truncateWithWidth(u.Title, 12), u.URL)
			}
		}
	}
}

// History prints watch history entries with relative timestamps
func (p *printer) History(items []database.WatchHistory) {
	if len(items) == 0 {
		p.printf("%s\n", p.st.muted.Render("No watch history"))
		return
	}

	for i, h := range items {
		title := truncateWithWidth(h.AnimeTitle, maxTitleWidth)
		if h.EpisodeTitle != "" {
			title += " - " + h.EpisodeTitle
		}
		p.printf("%2d. %s\n", i+1, p.st.title.Render(title))

		progress := fmt.Sprintf("%.0f%%", h.Progress)
		if h.Duration > 0 {
			progress += fmt.Sprintf(" (%s / %s)", clock(h.CurrentTime), clock(h.Duration))
		}
		p.printf("    %s · %s · %s\n",
			p.st.muted.Render(h.EpisodeSlug),
			progress,
			humanize.RelTime(h.WatchedAt, p.now(), "ago", "from now"))
	}
}

// Favorites prints bookmarked anime
func (p *printer) Favorites(items []database.Favorite) {
	if len(items) == 0 {
		p.printf("%s\n", p.st.muted.Render("No favorites"))
		return
	}

	for i, f := range items {
		p.printf("%2d. %s\n", i+1, p.st.title.Render(truncateWithWidth(f.AnimeTitle, maxTitleWidth)))
		p.printf("    %s · added %s\n",
			p.st.muted.Render(f.AnimeSlug),
			humanize.RelTime(f.AddedAt, p.now(), "ago", "from now"))
	}
}

// Providers prints registry statuses
func (p *printer) Providers(statuses []providers.ProviderStatus) {
	for _, s := range statuses {
		mark := p.st.ok.Render("✓")
		if !s.Healthy {
			mark = p.st.bad.Render("✗")
		}
		p.printf("%s %s (%s) %s\n", mark, p.st.title.Render(s.ProviderName), s.Role, s.Status)
		if r := s.LastResult; r != nil {
			p.printf("    %s %s\n", r.URL, p.st.muted.Render(r.Duration.Round(time.Millisecond).String()))
			if !s.Healthy {
				p.printf("    %s\n", p.st.muted.Render(r.CurlCommand))
			}
		}
	}
}

// clock formats seconds as m:ss or h:mm:ss
func clock(seconds int) string {
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// wrapText wraps text at word boundaries to fit within maxWidth. Blank
// lines in text are kept as paragraph breaks.
func wrapText(text string, maxWidth int) []string {
	var lines []string
	for i, para := range strings.Split(strings.TrimSpace(text), "\n\n") {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, wrapParagraph(para, maxWidth)...)
	}
	return lines
}

func wrapParagraph(text string, maxWidth int) []string {
	words := strings.Fields(text)

	var lines []string
	var currentLine strings.Builder
	currentWidth := 0

	for _, word := range words {
		wordWidth := runewidth.StringWidth(word)

		switch {
		case currentWidth == 0:
			currentLine.WriteString(word)
			currentWidth = wordWidth
		case currentWidth+1+wordWidth <= maxWidth:
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
			currentWidth += 1 + wordWidth
		default:
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
			currentWidth = wordWidth
		}
	}

	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return lines
}

// truncateWithWidth truncates text to fit within maxWidth, accounting for
// wide characters. Adds "..." if the text is truncated.
func truncateWithWidth(text string, maxWidth int) string {
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}

	width := 0
	for i, r := range text {
		width += runewidth.RuneWidth(r)
		if width > maxWidth-3 {
			return text[:i] + "..."
		}
	}
	return text
}

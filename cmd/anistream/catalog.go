package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/justchokingaround/anistream/internal/catalog"
	"github.com/justchokingaround/anistream/internal/clipboard"
	"github.com/justchokingaround/anistream/internal/database"
	"github.com/justchokingaround/anistream/internal/slug"
)

// defaultRequestTimeout applies when http.timeout is zero
const defaultRequestTimeout = 30 * time.Second

// requestContext bounds a single CLI operation
func requestContext() (context.Context, context.CancelFunc) {
	timeout := cfg.HTTP.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	// one primary call plus one fallback call
	return context.WithTimeout(context.Background(), 2*timeout)
}

func stdoutPrinter() *printer {
	return newPrinter(os.Stdout, !noColor)
}

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show recently updated anime",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := buildBackend(cfg, logger)
		if err != nil {
			return err
		}

		ctx, cancel := requestContext()
		defer cancel()

		resp, err := b.service.Home(ctx)
		if err != nil {
			return fmt.Errorf("home failed: %w", err)
		}
		if jsonOutput {
			return printJSON(resp)
		}
		stdoutPrinter().AnimeList(resp)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search both catalogs",
	Long: `Search Samehadaku first. When the first page comes back empty or the
request fails, Kuramanime is searched instead (configurable with fallback.*).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		page, _ := cmd.Flags().GetInt("page")

		b, err := buildBackend(cfg, logger)
		if err != nil {
			return err
		}

		ctx, cancel := requestContext()
		defer cancel()

		logger.Info("searching", "query", query, "page", page)

		resp, err := b.service.Search(ctx, query, page)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if jsonOutput {
			return printJSON(resp)
		}
		stdoutPrinter().AnimeList(resp)
		return nil
	},
}

var ongoingCmd = &cobra.Command{
	Use:   "ongoing",
	Short: "List currently airing anime",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")

		b, err := buildBackend(cfg, logger)
		if err != nil {
			return err
		}

		ctx, cancel := requestContext()
		defer cancel()

		resp, err := b.service.Ongoing(ctx, page)
		if err != nil {
			return fmt.Errorf("ongoing failed: %w", err)
		}
		if jsonOutput {
			return printJSON(resp)
		}
		stdoutPrinter().AnimeList(resp)
		return nil
	},
}

var animeCmd = &cobra.Command{
	Use:   "anime <slug>",
	Short: "Show anime details and episode slugs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := buildBackend(cfg, logger)
		if err != nil {
			return err
		}

		ctx, cancel := requestContext()
		defer cancel()

		resp, err := b.service.AnimeDetail(ctx, args[0])
		if err != nil {
			return fmt.Errorf("anime details failed: %w", err)
		}

		if fav, _ := cmd.Flags().GetBool("favorite"); fav {
			if err := addFavorite(resp.Data); err != nil {
				return err
			}
		}

		if jsonOutput {
			return printJSON(resp)
		}
		stdoutPrinter().AnimeDetail(resp.Data)
		return nil
	},
}

var episodeCmd = &cobra.Command{
	Use:   "episode <slug>",
	Short: "Resolve an episode's stream, servers and downloads",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := args[0]
		copyURL, _ := cmd.Flags().GetBool("copy")
		openURL, _ := cmd.Flags().GetBool("open")
		record, _ := cmd.Flags().GetBool("record")

		b, err := buildBackend(cfg, logger)
		if err != nil {
			return err
		}

		ctx, cancel := requestContext()
		defer cancel()

		resp, err := b.service.Episode(ctx, token)
		if err != nil {
			return fmt.Errorf("episode failed: %w", err)
		}
		ep := resp.Data

		if jsonOutput {
			if err := printJSON(resp); err != nil {
				return err
			}
		} else {
			stdoutPrinter().Episode(ep)
		}

		if record {
			if err := recordEpisode(token, ep); err != nil {
				return err
			}
		}

		if ep.StreamURL == "" && (copyURL || openURL) {
			return fmt.Errorf("episode has no default stream")
		}
		if copyURL {
			if err := clipboard.NewService(cfg.Advanced.ClipboardCommand, logger).Write(ctx, ep.StreamURL); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "Stream URL copied to clipboard")
		}
		if openURL {
			if err := browser.OpenURL(ep.StreamURL); err != nil {
				return fmt.Errorf("failed to open browser: %w", err)
			}
		}
		return nil
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch <slug>",
	Short: "Show batch download links (Samehadaku only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := buildBackend(cfg, logger)
		if err != nil {
			return err
		}

		ctx, cancel := requestContext()
		defer cancel()

		resp, err := b.service.Batch(ctx, args[0])
		if err != nil {
			return fmt.Errorf("batch failed: %w", err)
		}
		if jsonOutput {
			return printJSON(resp)
		}
		stdoutPrinter().Batch(resp.Data)
		return nil
	},
}

var serverCmd = &cobra.Command{
	Use:   "server <server-id>",
	Short: "Resolve a server id from an episode to a playable URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := buildBackend(cfg, logger)
		if err != nil {
			return err
		}

		ctx, cancel := requestContext()
		defer cancel()

		resp, err := b.service.ResolveServer(ctx, args[0])
		if err != nil {
			return fmt.Errorf("server resolution failed: %w", err)
		}
		if jsonOutput {
			return printJSON(resp)
		}
		fmt.Println(resp.Data.URL)
		return nil
	},
}

// recordEpisode adds an episode to the local watch history
func recordEpisode(token string, ep *catalog.EpisodeDetail) error {
	svc, err := historyService()
	if err != nil {
		return err
	}

	entry := database.WatchHistory{
		AnimeSlug:    animeToken(token),
		AnimeTitle:   ep.Title,
		EpisodeSlug:  token,
		EpisodeTitle: ep.Title,
	}
	if err := svc.AddToWatchHistory(entry); err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	logger.Debug("recorded episode", "episode", token)
	return nil
}

// animeToken derives the anime token of a fallback episode token. Primary
// episode slugs carry no reference to their anime, so they map to
// themselves.
func animeToken(episodeToken string) string {
	ref, err := slug.Decode(episodeToken)
	if err != nil || !slug.IsB(episodeToken) {
		return episodeToken
	}
	return slug.Encode(ref.Anime())
}

func addFavorite(d *catalog.AnimeDetail) error {
	svc, err := historyService()
	if err != nil {
		return err
	}

	added, err := svc.AddFavorite(database.Favorite{
		AnimeSlug:   d.Slug,
		AnimeTitle:  d.Title,
		AnimePoster: d.Poster,
	})
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	if added {
		fmt.Fprintf(os.Stderr, "Added %s to favorites\n", d.Title)
	}
	return nil
}

func init() {
	searchCmd.Flags().IntP("page", "p", 1, "result page (fallback results are always a single page)")
	ongoingCmd.Flags().IntP("page", "p", 1, "result page")
	animeCmd.Flags().Bool("favorite", false, "add the anime to favorites")
	episodeCmd.Flags().BoolP("copy", "c", false, "copy the stream URL to the clipboard")
	episodeCmd.Flags().BoolP("open", "o", false, "open the stream URL in the browser")
	episodeCmd.Flags().BoolP("record", "r", false, "add the episode to the watch history")

	rootCmd.AddCommand(homeCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(ongoingCmd)
	rootCmd.AddCommand(animeCmd)
	rootCmd.AddCommand(episodeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serverCmd)
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/justchokingaround/anistream/internal/database"
	"github.com/justchokingaround/anistream/internal/history"
)

// historyCmd manages the local watch history
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Local watch history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List watched episodes, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		filter, _ := cmd.Flags().GetString("filter")

		svc, err := historyService()
		if err != nil {
			return err
		}

		items, err := svc.List(0)
		if err != nil {
			return err
		}
		items = history.FilterHistory(items, filter)
		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}

		if jsonOutput {
			return printJSON(items)
		}
		stdoutPrinter().History(items)
		return nil
	},
}

var historyContinueCmd = &cobra.Command{
	Use:   "continue",
	Short: "List unfinished episodes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		svc, err := historyService()
		if err != nil {
			return err
		}

		items, err := svc.ContinueWatching(limit)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(items)
		}
		stdoutPrinter().History(items)
		return nil
	},
}

var historyProgressCmd = &cobra.Command{
	Use:   "progress <episode-slug> <position-seconds> <duration-seconds>",
	Short: "Store playback progress of a watched episode",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		position, err := strconv.Atoi(args[1])
		if err != nil || position < 0 {
			return fmt.Errorf("invalid position: %s", args[1])
		}
		duration, err := strconv.Atoi(args[2])
		if err != nil || duration <= 0 {
			return fmt.Errorf("invalid duration: %s", args[2])
		}

		svc, err := historyService()
		if err != nil {
			return err
		}

		progress := float64(position) / float64(duration) * 100
		if progress > 100 {
			progress = 100
		}

		found, err := svc.UpdateProgress(args[0], progress, position, duration)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("episode %s is not in the watch history", args[0])
		}
		fmt.Printf("Progress saved: %.0f%%\n", progress)
		return nil
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <episode-slug>",
	Short: "Remove an episode from the history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := historyService()
		if err != nil {
			return err
		}
		return svc.Remove(args[0])
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole watch history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := historyService()
		if err != nil {
			return err
		}
		if err := svc.Clear(); err != nil {
			return err
		}
		fmt.Println("Watch history cleared")
		return nil
	},
}

// favoritesCmd manages bookmarked anime
var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Bookmarked anime",
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <anime-slug> <title>",
	Short: "Bookmark an anime",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := historyService()
		if err != nil {
			return err
		}

		added, err := svc.AddFavorite(database.Favorite{AnimeSlug: args[0], AnimeTitle: args[1]})
		if err != nil {
			return err
		}
		if !added {
			fmt.Printf("%s is already a favorite\n", args[1])
			return nil
		}
		fmt.Printf("Added %s to favorites\n", args[1])
		return nil
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <anime-slug>",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := historyService()
		if err != nil {
			return err
		}
		return svc.RemoveFavorite(args[0])
	},
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites, most recently added first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")

		svc, err := historyService()
		if err != nil {
			return err
		}

		items, err := svc.ListFavorites()
		if err != nil {
			return err
		}
		items = history.FilterFavorites(items, filter)

		if jsonOutput {
			return printJSON(items)
		}
		stdoutPrinter().Favorites(items)
		return nil
	},
}

var favoritesCheckCmd = &cobra.Command{
	Use:   "check <anime-slug>",
	Short: "Report whether an anime is bookmarked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := historyService()
		if err != nil {
			return err
		}

		ok, err := svc.IsFavorite(args[0])
		if err != nil {
			return err
		}
		fmt.Println(ok)
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 0, "maximum number of entries (0 for all)")
	historyListCmd.Flags().StringP("filter", "f", "", "fuzzy filter on anime and episode titles")
	historyContinueCmd.Flags().IntP("limit", "n", history.DefaultContinueLimit, "maximum number of entries")
	favoritesListCmd.Flags().StringP("filter", "f", "", "fuzzy filter on titles")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyContinueCmd)
	historyCmd.AddCommand(historyProgressCmd)
	historyCmd.AddCommand(historyRemoveCmd)
	historyCmd.AddCommand(historyClearCmd)

	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesCheckCmd)

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(favoritesCmd)
}

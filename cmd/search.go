package cmd

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/anitrack-cli/anitrack/color"
	"github.com/anitrack-cli/anitrack/icon"
	"github.com/anitrack-cli/anitrack/log"
	"github.com/anitrack-cli/anitrack/query"
	"github.com/anitrack-cli/anitrack/source"
	"github.com/anitrack-cli/anitrack/store"
	"github.com/anitrack-cli/anitrack/style"
	"github.com/anitrack-cli/anitrack/track"
	"github.com/anitrack-cli/anitrack/util"
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolP("track", "t", false, "Pick one of the results and start tracking it")
	searchCmd.Flags().BoolP("recent", "r", false, "List the latest releases instead of searching")
}

// searchCmd finds shows on the configured site.
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the site for shows to track",
	Args:  cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		var (
			doTrack = lo.Must(cmd.Flags().GetBool("track"))
			recent  = lo.Must(cmd.Flags().GetBool("recent"))
		)

		src, err := defaultSource()
		handleErr(err)

		var results []*source.SearchResult

		if recent {
			recents, ok := src.(interface {
				Recent() ([]*source.SearchResult, error)
			})
			if !ok {
				handleErr(fmt.Errorf("%s does not publish recent releases", src.Name()))
			}

			results, err = recents.Recent()
			handleErr(err)
		} else {
			if len(args) == 0 {
				handleErr(fmt.Errorf("a search query is required unless --recent is set"))
			}

			q := args[0]

			erase := util.PrintErasable(fmt.Sprintf("%s Searching for %s...", icon.Get(icon.Progress), style.Bold(q)))
			results, err = src.Search(q)
			erase()
			handleErr(err)

			if err := query.Remember(q, 1); err != nil {
				log.Warn(err)
			}
			rankResults(q, results)
		}

		if !doTrack {
			trunc := func(s string) string { return s }
			if width, _, err := util.TerminalSize(); err == nil && width > 8 {
				trunc = style.Truncate(width - 4)
			}

			for i, result := range results {
				fmt.Printf("%s %s\n", style.Faint(fmt.Sprintf("%2d.", i+1)), trunc(result.Title))
				fmt.Printf("    %s\n", style.Faint(trunc(result.URL)))
			}

			return
		}

		var picked string
		handleErr(survey.AskOne(&survey.Select{
			Message: "Track which show?",
			Options: lo.Map(results, func(r *source.SearchResult, _ int) string {
				return r.Title
			}),
		}, &picked))

		result, ok := lo.Find(results, func(r *source.SearchResult) bool {
			return r.Title == picked
		})
		if !ok {
			handleErr(fmt.Errorf("no result selected"))
		}

		erase := util.PrintErasable(fmt.Sprintf("%s Fetching playlist...", icon.Get(icon.Progress)))
		show, err := track.New(src, result.URL, mo.Some(result.Title))
		erase()
		handleErr(err)

		handleErr(show.Save(store.Open()))

		if len(args) > 0 {
			// a query that led to a tracked show is worth remembering harder
			if err := query.Remember(args[0], 9); err != nil {
				log.Warn(err)
			}
		}

		fmt.Printf(
			"%s now tracking %s %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Bold(show.Title),
			style.Faint(util.Quantify(show.Playlist.Len(), "episode", "episodes")),
		)
	},
}

// rankResults orders results by edit distance to the query, closest first.
// The site's own order breaks ties.
func rankResults(q string, results []*source.SearchResult) {
	q = strings.ToLower(q)

	slices.SortStableFunc(results, func(a, b *source.SearchResult) int {
		return levenshtein.Distance(q, strings.ToLower(a.Title)) -
			levenshtein.Distance(q, strings.ToLower(b.Title))
	})
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anitrack-cli/anitrack/color"
	"github.com/anitrack-cli/anitrack/icon"
	"github.com/anitrack-cli/anitrack/store"
	"github.com/anitrack-cli/anitrack/style"
	"github.com/anitrack-cli/anitrack/util"
)

func init() {
	rootCmd.AddCommand(updateCmd)
}

// updateCmd refreshes the playlist of every tracked show.
var updateCmd = &cobra.Command{
	Use:     "update",
	Short:   "Refresh every tracked show and report which got new episodes",
	Aliases: []string{"refresh"},
	Run: func(cmd *cobra.Command, args []string) {
		src, err := defaultSource()
		handleErr(err)

		s := store.Open()
		shows, err := s.Load()
		handleErr(err)

		if len(shows) == 0 {
			fmt.Println("nothing tracked yet, see the search command")
			return
		}

		var updated, changed, failed int

		for _, show := range shows {
			show.Bind(src)

			erase := util.PrintErasable(fmt.Sprintf("%s Refreshing %s...", icon.Get(icon.Progress), style.Bold(show.Title)))
			err = show.UpdatePlaylist()
			erase()

			if err != nil {
				failed++
				fmt.Printf(
					"%s %s %s\n",
					style.Fg(color.Red)(icon.Get(icon.Fail)),
					show.Title,
					style.Faint(err.Error()),
				)

				continue
			}

			updated++

			if show.Modified {
				changed++
				fmt.Printf(
					"%s %s %s\n",
					icon.Get(icon.Modified),
					style.Bold(show.Title),
					style.Faint(util.Quantify(show.Playlist.Len(), "episode", "episodes")),
				)
			}

			handleErr(show.Save(s))
		}

		fmt.Printf(
			"\n%s refreshed %s, %s with news, %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(updated, "show", "shows"),
			fmt.Sprint(changed),
			util.Quantify(failed, "failure", "failures"),
		)
	},
}

package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/anitrack-cli/anitrack/color"
	"github.com/anitrack-cli/anitrack/icon"
	"github.com/anitrack-cli/anitrack/store"
	"github.com/anitrack-cli/anitrack/style"
	"github.com/anitrack-cli/anitrack/track"
)

func init() {
	rootCmd.AddCommand(removeCmd)

	removeCmd.Flags().IntP("show", "s", 0, "1-based index of the tracked show, see the list command")
}

// removeCmd stops tracking a show.
var removeCmd = &cobra.Command{
	Use:     "remove",
	Short:   "Stop tracking a show",
	Aliases: []string{"untrack"},
	Run: func(cmd *cobra.Command, args []string) {
		s := store.Open()

		shows, err := s.Load()
		handleErr(err)

		if len(shows) == 0 {
			fmt.Println("nothing tracked yet")
			return
		}

		var show *track.Show

		if cmd.Flags().Changed("show") {
			index := lo.Must(cmd.Flags().GetInt("show"))
			if index < 1 || index > len(shows) {
				handleErr(fmt.Errorf("show index %d out of range", index))
			}

			show = shows[index-1]
		} else {
			var picked string
			handleErr(survey.AskOne(&survey.Select{
				Message: "Stop tracking which show?",
				Options: lo.Map(shows, func(sh *track.Show, _ int) string {
					return sh.Title
				}),
			}, &picked))

			show, _ = lo.Find(shows, func(sh *track.Show) bool {
				return sh.Title == picked
			})
		}

		handleErr(show.Remove(s))

		fmt.Printf(
			"%s stopped tracking %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Bold(show.Title),
		)
	},
}

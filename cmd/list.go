package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/anitrack-cli/anitrack/icon"
	"github.com/anitrack-cli/anitrack/store"
	"github.com/anitrack-cli/anitrack/style"
	"github.com/anitrack-cli/anitrack/track"
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	listCmd.Flags().Bool("json-schema", false, "Print the JSON schema of the output and exit")
	listCmd.Flags().BoolP("modified", "m", false, "List only shows with unseen new episodes")
	listCmd.MarkFlagsMutuallyExclusive("json-schema", "modified")

	listCmd.SetOut(os.Stdout)
}

// listedShow is the JSON projection of a tracked show.
type listedShow struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	ID       int    `json:"id"`
	Episodes int    `json:"episodes"`
	Modified bool   `json:"modified"`
}

// listCmd prints the tracked shows.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tracked shows",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			asJson       = lo.Must(cmd.Flags().GetBool("json"))
			schema       = lo.Must(cmd.Flags().GetBool("json-schema"))
			modifiedOnly = lo.Must(cmd.Flags().GetBool("modified"))
		)

		if schema {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			lo.Must0(encoder.Encode(jsonschema.Reflect([]listedShow{})))

			return
		}

		s := store.Open()

		var (
			shows []*track.Show
			err   error
		)

		if modifiedOnly {
			shows, err = s.Modified()
		} else {
			shows, err = s.Load()
		}
		handleErr(err)

		if asJson {
			listed := lo.Map(shows, func(show *track.Show, _ int) listedShow {
				return listedShow{
					Title:    show.Title,
					URL:      show.URL,
					ID:       show.ID,
					Episodes: show.Playlist.Len(),
					Modified: show.Modified,
				}
			})

			lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(listed))

			return
		}

		for i, show := range shows {
			marker := " "
			if show.Modified {
				marker = icon.Get(icon.Modified)
			}

			cmd.Printf(
				"%s %s %s %s\n",
				style.Faint(fmt.Sprintf("%2d.", i+1)),
				marker,
				style.Bold(show.Title),
				style.Faint(fmt.Sprintf("(%s)", show.URL)),
			)
		}
	},
}

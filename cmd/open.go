package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/anitrack-cli/anitrack/open"
	"github.com/anitrack-cli/anitrack/store"
	"github.com/anitrack-cli/anitrack/style"
)

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().IntP("show", "s", 0, "1-based index of the tracked show, see the list command")
	lo.Must0(openCmd.MarkFlagRequired("show"))
}

// openCmd opens a tracked show's page in the default browser.
var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the page of a tracked show in the browser",
	Run: func(cmd *cobra.Command, args []string) {
		index := lo.Must(cmd.Flags().GetInt("show"))

		show, err := showAt(store.Open(), index)
		handleErr(err)

		fmt.Printf("opening %s\n", style.Faint(show.URL))
		handleErr(open.Start(show.URL))
	},
}

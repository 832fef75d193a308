package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anitrack-cli/anitrack/color"
	"github.com/anitrack-cli/anitrack/fetch"
	"github.com/anitrack-cli/anitrack/icon"
	"github.com/anitrack-cli/anitrack/key"
	"github.com/anitrack-cli/anitrack/store"
	"github.com/anitrack-cli/anitrack/style"
	"github.com/anitrack-cli/anitrack/track"
	"github.com/anitrack-cli/anitrack/util"
	"github.com/anitrack-cli/anitrack/where"
)

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().IntP("show", "s", 0, "1-based index of the tracked show, see the list command")
	downloadCmd.Flags().IntP("episode", "e", 0, "1-based episode to download, defaults to the latest")
	downloadCmd.Flags().Int("from", 0, "First episode of a range")
	downloadCmd.Flags().Int("to", 0, "Last episode of a range")
	downloadCmd.Flags().BoolP("all", "a", false, "Download every episode")
	downloadCmd.Flags().Bool("no-resume", false, "Restart partial downloads instead of resuming them")

	downloadCmd.MarkFlagsMutuallyExclusive("episode", "all")
	downloadCmd.MarkFlagsMutuallyExclusive("episode", "from")
	downloadCmd.MarkFlagsMutuallyExclusive("episode", "to")
	downloadCmd.MarkFlagsMutuallyExclusive("all", "from")
	downloadCmd.MarkFlagsMutuallyExclusive("all", "to")

	lo.Must0(downloadCmd.MarkFlagRequired("show"))
}

// downloadCmd fetches episode files of a tracked show.
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download episodes of a tracked show",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			index    = lo.Must(cmd.Flags().GetInt("show"))
			all      = lo.Must(cmd.Flags().GetBool("all"))
			noResume = lo.Must(cmd.Flags().GetBool("no-resume"))
		)

		s := store.Open()
		show, err := showAt(s, index)
		handleErr(err)

		urls, err := selectEpisodes(cmd, show)
		handleErr(err)

		dir, err := where.Downloads()
		handleErr(err)

		if viper.GetBool(key.FetchSubdir) {
			dir = filepath.Join(dir, strconv.Itoa(show.ID))
		}

		fetcher := fetch.New(dir)
		if noResume {
			fetcher.Resume = false
		}

		fmt.Printf(
			"%s downloading %s of %s to %s\n",
			icon.Get(icon.Download),
			style.Bold(util.Quantify(len(urls), "episode", "episodes")),
			style.Bold(show.Title),
			style.Faint(dir),
		)

		stop := watchProgress(fetcher)

		tasks, err := fetcher.Fetch(context.Background(), urls)
		stop()
		handleErr(err)

		var done, failed int
		for _, task := range tasks {
			if task.Err() != nil {
				failed++
				fmt.Printf(
					"%s %s %s\n",
					style.Fg(color.Red)(icon.Get(icon.Fail)),
					task.URL,
					style.Faint(task.Err().Error()),
				)

				continue
			}

			done++
		}

		if failed == 0 && all {
			// everything the site has is on disk now
			show.Modified = false
			handleErr(show.Save(s))
		}

		fmt.Printf(
			"%s %s downloaded, %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(done, "episode", "episodes"),
			util.Quantify(failed, "failure", "failures"),
		)
	},
}

// showAt loads the tracked show at the given 1-based index.
func showAt(s *store.Store, index int) (*track.Show, error) {
	shows, err := s.Load()
	if err != nil {
		return nil, err
	}

	if index < 1 || index > len(shows) {
		return nil, fmt.Errorf("show index %d out of range, %s tracked", index, util.Quantify(len(shows), "show", "shows"))
	}

	show := shows[index-1]

	src, err := defaultSource()
	if err != nil {
		return nil, err
	}
	show.Bind(src)

	return show, nil
}

// selectEpisodes resolves the episode flags against the show's playlist.
func selectEpisodes(cmd *cobra.Command, show *track.Show) ([]string, error) {
	var (
		all     = lo.Must(cmd.Flags().GetBool("all"))
		episode = flagOption(cmd, "episode")
		from    = flagOption(cmd, "from")
		to      = flagOption(cmd, "to")
	)

	switch {
	case all:
		return show.Playlist.Slice(mo.None[int](), mo.None[int]())
	case from.IsPresent() || to.IsPresent():
		return show.Playlist.Slice(from, to)
	default:
		url, err := show.Playlist.Get(episode)
		if err != nil {
			return nil, err
		}

		return []string{url}, nil
	}
}

// flagOption reads an int flag as absent unless the user set it.
func flagOption(cmd *cobra.Command, name string) mo.Option[int] {
	if !cmd.Flags().Changed(name) {
		return mo.None[int]()
	}

	return mo.Some(lo.Must(cmd.Flags().GetInt(name)))
}

// progressCollector gathers the tasks the fetcher has started so the
// progress line can tally them while transfers are still running.
type progressCollector struct {
	mu      sync.Mutex
	started []*fetch.Task
}

func (c *progressCollector) Began(t *fetch.Task) {
	c.mu.Lock()
	c.started = append(c.started, t)
	c.mu.Unlock()
}

func (c *progressCollector) Finished(*fetch.Task) {}

func (c *progressCollector) tasks() []*fetch.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*fetch.Task(nil), c.started...)
}

// watchProgress repaints an aggregate progress line until stopped.
func watchProgress(fetcher *fetch.Fetcher) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})

	collector := &progressCollector{}
	fetcher.Reporter = collector

	go func() {
		defer close(finished)

		ticker := time.NewTicker(time.Second / 4)
		defer ticker.Stop()

		var erase func()

		for {
			select {
			case <-done:
				if erase != nil {
					erase()
				}
				return
			case <-ticker.C:
				if erase != nil {
					erase()
				}

				received, total := fetch.Tally(collector.tasks())

				progress := style.Faint(fmt.Sprintf("%s received", formatBytes(received)))
				if total > 0 {
					progress = style.Faint(fmt.Sprintf("%s / %s", formatBytes(received), formatBytes(total)))
				}

				erase = util.PrintErasable(fmt.Sprintf("%s %s", icon.Get(icon.Download), progress))
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}

func formatBytes(n int64) string {
	const unit = 1024

	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

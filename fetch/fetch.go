// Package fetch downloads episode files with a bounded worker pool.
//
// Every transfer streams into a temporary ".part" file next to its final
// destination and is renamed only after the stream completed, so a partial
// file never masquerades as a finished episode. When resume is enabled an
// existing temporary file is continued with an HTTP Range request instead
// of being thrown away.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/anitrack-cli/anitrack/filesystem"
	"github.com/anitrack-cli/anitrack/key"
	"github.com/anitrack-cli/anitrack/log"
	"github.com/anitrack-cli/anitrack/network"
	"github.com/anitrack-cli/anitrack/util"
)

// TempSuffix marks in-flight downloads.
const TempSuffix = ".part"

// chunkSize is how much is copied between progress updates.
const chunkSize = 1 << 20

var (
	// ErrInvalidFileName is returned when no usable file name can be
	// derived from a download URL.
	ErrInvalidFileName = errors.New("cannot derive file name from url")

	// ErrUnexpectedStatus is returned for HTTP responses outside 200/206.
	ErrUnexpectedStatus = errors.New("unexpected http status")
)

// FileName derives the target file name from a download URL. The last path
// segment is percent-decoded and sanitized. Names that do not survive a
// decode round-trip are rejected rather than guessed at.
func FileName(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileName, rawURL)
	}

	base := path.Base(parsed.Path)
	if base == "." || base == "/" || base == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileName, rawURL)
	}

	decoded, err := url.PathUnescape(base)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileName, rawURL)
	}

	if url.PathEscape(decoded) != base && decoded != base {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileName, rawURL)
	}

	name := util.SanitizeFilename(decoded)
	if name == "" || strings.Trim(name, ".") == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileName, rawURL)
	}

	return name, nil
}

// Reporter observes task state transitions. Implementations must be safe
// for concurrent use, workers call them from their own goroutines.
type Reporter interface {
	Began(task *Task)
	Finished(task *Task)
}

type nopReporter struct{}

func (nopReporter) Began(*Task)    {}
func (nopReporter) Finished(*Task) {}

// Fetcher downloads sets of files into a directory.
type Fetcher struct {
	// Client issues the requests. Defaults to network.DownloadClient.
	Client *http.Client

	// Dir is the destination directory, created on demand.
	Dir string

	// Resume continues existing temporary files instead of restarting.
	Resume bool

	// Concurrency bounds the worker pool.
	Concurrency int

	// Reporter observes task transitions. Optional.
	Reporter Reporter
}

// New returns a fetcher for the given directory, configured from the
// fetch.* settings.
func New(dir string) *Fetcher {
	return &Fetcher{
		Client:      network.DownloadClient,
		Dir:         dir,
		Resume:      viper.GetBool(key.FetchResume),
		Concurrency: viper.GetInt(key.FetchConcurrency),
	}
}

// Fetch downloads all URLs with at most Concurrency parallel transfers.
// It waits for all started transfers and returns one task per URL. A failed
// transfer marks its own task and never aborts its siblings. Cancelling the
// context stops submission of new transfers and aborts running ones.
//
// The returned error covers setup only, per-file failures live on the tasks.
func (f *Fetcher) Fetch(ctx context.Context, urls []string) ([]*Task, error) {
	if f.Dir == "" {
		return nil, errors.New("no destination directory")
	}

	if err := filesystem.API().MkdirAll(f.Dir, os.ModePerm); err != nil {
		return nil, err
	}

	concurrency := f.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	client := f.Client
	if client == nil {
		client = network.DownloadClient
	}

	reporter := f.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}

	tasks := make([]*Task, len(urls))
	for i, u := range urls {
		tasks[i] = newTask(u)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for _, task := range tasks {
		if ctx.Err() != nil {
			task.fail(ctx.Err())
			continue
		}

		select {
		case <-ctx.Done():
			task.fail(ctx.Err())
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(task *Task) {
			defer wg.Done()
			defer func() { <-sem }()

			reporter.Began(task)

			if err := f.fetchOne(ctx, client, task); err != nil {
				log.Error(fmt.Errorf("fetch %s: %w", task.URL, err))
				task.fail(err)
			} else {
				task.setStatus(StatusDone)
			}

			reporter.Finished(task)
		}(task)
	}

	wg.Wait()

	return tasks, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, client *http.Client, task *Task) error {
	name, err := FileName(task.URL)
	if err != nil {
		return err
	}

	task.Name = name
	task.Path = filepath.Join(f.Dir, name)
	task.TempPath = task.Path + TempSuffix

	var offset int64
	if f.Resume {
		if info, err := filesystem.API().Stat(task.TempPath); err == nil {
			offset = info.Size()
		}
	}

	task.setStatus(StatusFetchingHeaders)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return err
	}

	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer util.Ignore(res.Body.Close)

	switch res.StatusCode {
	case http.StatusPartialContent:
		// the server honored the range, append to what we have
	case http.StatusOK:
		// full body, any previous partial data is stale
		offset = 0
	default:
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status)
	}

	if res.ContentLength >= 0 {
		task.setTotal(offset + res.ContentLength)
	}
	task.setReceived(offset)

	if err = f.stream(task, res.Body, offset); err != nil {
		return err
	}

	task.setStatus(StatusRenaming)

	return filesystem.API().Rename(task.TempPath, task.Path)
}

func (f *Fetcher) stream(task *Task, body io.Reader, offset int64) error {
	flag := os.O_CREATE | os.O_WRONLY
	if offset > 0 {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}

	file, err := filesystem.API().OpenFile(task.TempPath, flag, os.ModePerm)
	if err != nil {
		return err
	}
	defer util.Ignore(file.Close)

	task.setStatus(StatusStreaming)

	return copyChunks(file, body, task)
}

// copyChunks copies body into file one chunk at a time, bumping the task
// counter after each chunk. A failure keeps the temporary file so a later
// resumed run can continue from it.
func copyChunks(file afero.File, body io.Reader, task *Task) error {
	buf := make([]byte, chunkSize)

	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				return werr
			}

			task.add(int64(n))
		}

		if err == io.EOF {
			return nil
		}

		if err != nil {
			return err
		}
	}
}

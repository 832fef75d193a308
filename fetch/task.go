package fetch

import (
	"sync"
)

// Status describes where a task currently is in its lifecycle.
type Status int

const (
	StatusPending Status = iota
	StatusFetchingHeaders
	StatusStreaming
	StatusRenaming
	StatusDone
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFetchingHeaders:
		return "fetching headers"
	case StatusStreaming:
		return "streaming"
	case StatusRenaming:
		return "renaming"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Task is the progress record of a single file transfer.
// All accessors are safe for concurrent use.
type Task struct {
	// URL is the remote file being fetched.
	URL string

	// Name is the sanitized file name derived from the URL.
	Name string

	// Path is the final destination, TempPath the in-flight file.
	Path     string
	TempPath string

	mu       sync.Mutex
	status   Status
	received int64
	total    int64
	err      error
}

func newTask(url string) *Task {
	return &Task{URL: url, total: -1}
}

// Status returns the current lifecycle phase.
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.status
}

func (t *Task) setStatus(s Status) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Progress returns bytes received so far and the expected total.
// A total of -1 means the size is unknown and progress is indeterminate.
func (t *Task) Progress() (received, total int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.received, t.total
}

func (t *Task) setTotal(total int64) {
	t.mu.Lock()
	t.total = total
	t.mu.Unlock()
}

func (t *Task) setReceived(received int64) {
	t.mu.Lock()
	t.received = received
	t.mu.Unlock()
}

func (t *Task) add(n int64) {
	t.mu.Lock()
	t.received += n
	t.mu.Unlock()
}

// Err returns the failure reason, nil unless the task failed.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.err
}

func (t *Task) fail(err error) {
	t.mu.Lock()
	t.status = StatusFailed
	t.err = err
	t.mu.Unlock()
}

// Done reports whether the task has finished, successfully or not.
func (t *Task) Done() bool {
	s := t.Status()
	return s == StatusDone || s == StatusFailed
}

// Tally sums received bytes and totals over all tasks. When any task has
// an unknown size the aggregate total is -1.
func Tally(tasks []*Task) (received, total int64) {
	for _, task := range tasks {
		r, t := task.Progress()

		received += r
		if total == -1 || t == -1 {
			total = -1
			continue
		}
		total += t
	}

	return received, total
}

package console

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"parking-console/parking"
)

// DefaultPollInterval is how often the exports screen re-fetches the job
// list while mounted.
const DefaultPollInterval = 5 * time.Second

// ExportScreen is the CSV export screen: request a job, watch the job
// list converge to completed, download the file. While mounted it polls
// the list on a fixed interval — unconditionally, with no backoff and no
// in-flight guard. Overlapping responses are each applied as they arrive
// (last-write-wins), and a failed tick is silent: the previous rows stay
// up and the next tick retries anyway.
type ExportScreen struct {
	api    *parking.API
	notify Notify

	Interval time.Duration

	mu          sync.Mutex
	jobs        []parking.ExportJob
	loading     bool
	RequestBusy bool

	cancel context.CancelFunc
	done   chan struct{}
}

func NewExportScreen(api *parking.API, notify Notify) *ExportScreen {
	return &ExportScreen{api: api, notify: notify, Interval: DefaultPollInterval}
}

// Load fetches the job list once. Prior rows survive a failure.
func (s *ExportScreen) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	jobs, err := s.api.UserListExports(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.jobs = jobs
	s.mu.Unlock()
	return nil
}

// Jobs returns a copy of the last successfully loaded job list.
func (s *ExportScreen) Jobs() []parking.ExportJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]parking.ExportJob, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// Loading reports whether a list fetch is in flight.
func (s *ExportScreen) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Request queues a new export job and reloads the list.
func (s *ExportScreen) Request(ctx context.Context) bool {
	s.RequestBusy = true
	err := s.api.UserRequestExport(ctx)
	s.RequestBusy = false

	if err != nil {
		s.notify(actionError(err, "Export request failed"), VariantDanger)
		return false
	}
	s.notify("Export job queued successfully", VariantInfo)
	_ = s.Load(ctx)
	return true
}

// StartPolling begins the fixed-interval refresh. Calling it again while
// already polling restarts the loop. StopPolling (or cancelling ctx)
// ends it; after StopPolling returns, no further fetch is issued by this
// screen.
func (s *ExportScreen) StartPolling(ctx context.Context) {
	s.StopPolling()

	pollCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				// Poll failures are deliberately non-intrusive; the
				// next tick retries.
				_ = s.Load(pollCtx)
			}
		}
	}()
}

// StopPolling cancels the refresh loop and waits for it to exit.
func (s *ExportScreen) StopPolling() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

// Download streams a completed job's CSV into dir and returns the file
// path. Jobs without a download link are refused.
func (s *ExportScreen) Download(ctx context.Context, job parking.ExportJob, dir string) (string, error) {
	if !job.Done() {
		return "", fmt.Errorf("export job %d is not completed yet", job.ID)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("export-%d.csv", job.ID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := s.api.UserDownloadExport(ctx, job.DownloadURL, f); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

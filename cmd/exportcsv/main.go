// Command exportcsv logs in to the parking server, requests a reservation
// CSV export, waits for the job to finish and downloads the file. Useful
// for cron jobs and scripted backups where the interactive console is
// too heavy.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"parking-console/parking"
)

func main() {
	var (
		server   = flag.String("server", "http://localhost:5000", "parking server base URL")
		username = flag.String("username", "", "account username")
		password = flag.String("password", "", "account password (or PARKING_PASSWORD)")
		outDir   = flag.String("out", "exports", "directory for the downloaded CSV")
		interval = flag.Duration("interval", 5*time.Second, "how often to poll the job status")
		timeout  = flag.Duration("timeout", 5*time.Minute, "give up after this long")
		verbose  = flag.Bool("verbose", false, "log every request")
	)
	flag.Parse()

	if *password == "" {
		*password = os.Getenv("PARKING_PASSWORD")
	}
	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Error: -username and -password (or PARKING_PASSWORD) are required")
		flag.Usage()
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := parking.NewClient(*server, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	api := parking.NewAPI(client)

	if err := api.Login(ctx, *username, *password); err != nil {
		fmt.Fprintf(os.Stderr, "Error logging in: %v\n", err)
		os.Exit(1)
	}
	defer api.Logout(context.Background())

	jobID, err := requestExport(ctx, api)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error requesting export: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Export job %d queued, polling every %s...\n", jobID, *interval)

	job, err := waitForExport(ctx, api, jobID, *interval)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path, err := downloadExport(ctx, api, job, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error downloading export: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved %s\n", path)
}

// requestExport queues a new export job and reports its ID. The queue
// endpoint does not echo the job back, so the newest entry in the list
// is taken as ours.
func requestExport(ctx context.Context, api *parking.API) (int64, error) {
	if err := api.UserRequestExport(ctx); err != nil {
		return 0, err
	}
	jobs, err := api.UserListExports(ctx)
	if err != nil {
		return 0, err
	}
	var newest int64
	for _, job := range jobs {
		if job.ID > newest {
			newest = job.ID
		}
	}
	if newest == 0 {
		return 0, fmt.Errorf("export queued but no job visible yet")
	}
	return newest, nil
}

// waitForExport polls the job list until the requested job completes or
// the context expires. Transient fetch errors are retried on the next tick.
func waitForExport(ctx context.Context, api *parking.API, jobID int64, interval time.Duration) (parking.ExportJob, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		jobs, err := api.UserListExports(ctx)
		if err == nil {
			for _, job := range jobs {
				if job.ID != jobID {
					continue
				}
				if job.Done() {
					return job, nil
				}
				fmt.Printf("Job %d is %s...\n", jobID, job.Status)
			}
		}

		select {
		case <-ctx.Done():
			return parking.ExportJob{}, fmt.Errorf("gave up waiting for job %d: %w", jobID, ctx.Err())
		case <-ticker.C:
		}
	}
}

func downloadExport(ctx context.Context, api *parking.API, job parking.ExportJob, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := fmt.Sprintf("%s/export-%d.csv", dir, job.ID)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	n, err := api.UserDownloadExport(ctx, job.DownloadURL, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	if n == 0 {
		os.Remove(path)
		return "", io.ErrUnexpectedEOF
	}
	return path, nil
}

package runner

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/cloudeye-scanner/cloudeye/internal/config"
	"github.com/cloudeye-scanner/cloudeye/internal/detection"
	"github.com/cloudeye-scanner/cloudeye/internal/logging"
	"github.com/cloudeye-scanner/cloudeye/internal/output"
	"github.com/cloudeye-scanner/cloudeye/internal/scanner"
	"github.com/cloudeye-scanner/cloudeye/internal/wordlist"
	"github.com/cloudeye-scanner/cloudeye/pkg/version"
)

// Run executes the scan pipeline: load paths, probe the target, save the
// result files and print a summary to stdout. Only loading the path list,
// building the HTTP client and saving results can fail the run.
func Run(ctx context.Context, opts *config.Options, stdout io.Writer) error {
	start := time.Now()

	log, err := logging.New(os.Stderr, opts.LogLevel, opts.NoColor)
	if err != nil {
		return err
	}
	console := output.NewConsole(stdout, opts.NoColor)
	console.Banner(version.Version)

	// 1. Load candidate paths.
	paths, err := wordlist.Load(opts.CustomList)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			console.Fatal("Custom file not found: %s", opts.CustomList)
		}
		return err
	}
	console.Config(opts.URL, opts.Mode, len(paths), detection.Labels(), opts.Proxy)

	// 2. Create HTTP requester.
	req, err := scanner.NewRequester(opts)
	if err != nil {
		return err
	}

	// 3. Probe every path.
	prober := scanner.NewProber(req, scanner.NewThrottler(opts.Delay), console, log)
	report := prober.Probe(ctx, opts.URL, paths)

	// 4. Persist results.
	err = output.Save(opts.OutputBase, report.Results, func(path string) {
		console.Saved(path)
		log.WithField("file", path).Info("results saved")
	})
	if err != nil {
		console.Fatal("Could not save results: %v", err)
		return err
	}

	// 5. Summary.
	console.Summary(output.StatsFromReport(report, time.Since(start)))
	return nil
}

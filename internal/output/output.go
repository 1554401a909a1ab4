package output

import (
	"time"

	"github.com/cloudeye-scanner/cloudeye/internal/scanner"
)

// Stats holds the figures printed in the run summary.
type Stats struct {
	Total      int
	Found      int
	Errored    int
	NotFound   int
	Unexpected int
	Results    int
	Duration   time.Duration
}

// StatsFromReport fills Stats from a probe report.
func StatsFromReport(r *scanner.Report, elapsed time.Duration) Stats {
	return Stats{
		Total:      r.Total,
		Found:      len(r.Found),
		Errored:    len(r.Errored),
		NotFound:   r.NotFound,
		Unexpected: r.Unexpected,
		Results:    len(r.Results),
		Duration:   elapsed,
	}
}

// Writer is implemented by each result file format.
type Writer interface {
	WriteHeader() error
	WriteResult(result *scanner.ScanResult) error
	WriteFooter() error
	Close() error
}

package scanner

import (
	"fmt"
	"testing"
	"time"

	"github.com/cloudeye-scanner/cloudeye/internal/config"
)

func testOpts(t *testing.T) *config.Options {
	t.Helper()
	opts := config.Default()
	opts.Timeout = 2 * time.Second
	opts.Delay = 0
	return &opts
}

func newTestRequester(t *testing.T, opts *config.Options) *Requester {
	t.Helper()
	req, err := NewRequester(opts)
	if err != nil {
		t.Fatalf("NewRequester: %v", err)
	}
	return req
}

// recorder is a Reporter that keeps every event as a line.
type recorder struct {
	events []string
}

func (r *recorder) ScanStarted(total int) { r.add("start %d", total) }
func (r *recorder) Found(url string) { r.add("found %s", url) }
func (r *recorder) NotFound(url string) { r.add("notfound %s", url) }
func (r *recorder) Errored(url string, _ error) { r.add("error %s", url) }
func (r *recorder) Analyzing(url string) { r.add("analyze %s", url) }
func (r *recorder) ScanCompleted() { r.add("done") }

func (r *recorder) Unexpected(url string, statusCode int) {
	r.add("unexpected %d %s", statusCode, url)
}

func (r *recorder) Match(url, label string, values []string) {
	r.add("match %s %s %v", label, url, values)
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

package scanner

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cloudeye-scanner/cloudeye/internal/detection"
)

// Reporter receives progress events from a Prober as each path is probed.
type Reporter interface {
	ScanStarted(total int)
	Found(url string)
	NotFound(url string)
	Unexpected(url string, statusCode int)
	Errored(url string, err error)
	Analyzing(url string)
	Match(url, label string, values []string)
	ScanCompleted()
}

// Prober requests each candidate path against a target, one at a time.
type Prober struct {
	req       *Requester
	throttler *Throttler
	reporter  Reporter
	log       logrus.FieldLogger
}

// NewProber creates a Prober. reporter may be nil.
func NewProber(req *Requester, throttler *Throttler, reporter Reporter, log logrus.FieldLogger) *Prober {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Prober{req: req, throttler: throttler, reporter: reporter, log: log}
}

// Probe requests every path in order, waiting the throttler delay after
// each request. Transport failures are recorded and never stop the scan.
func (p *Prober) Probe(ctx context.Context, target string, paths []string) *Report {
	report := &Report{Total: len(paths)}
	p.reporter.ScanStarted(len(paths))

	for _, path := range paths {
		fullURL := ResolveURL(target, path)
		p.probeOne(ctx, fullURL, report)
		p.throttler.Wait()
	}

	p.reporter.ScanCompleted()
	return report
}

func (p *Prober) probeOne(ctx context.Context, fullURL string, report *Report) {
	resp, err := p.req.Get(ctx, fullURL)
	if err != nil {
		p.log.WithError(err).WithField("url", fullURL).Debug("probe failed")
		p.reporter.Errored(fullURL, err)
		report.Errored = append(report.Errored, fullURL)
		return
	}

	outcome := Classify(resp.StatusCode)
	p.log.WithFields(logrus.Fields{
		"url":     fullURL,
		"status":  resp.StatusCode,
		"bytes":   len(resp.Body),
		"elapsed": resp.Duration,
		"outcome": outcome,
	}).Debug("probe")

	switch outcome {
	case OutcomeFound:
		p.reporter.Found(fullURL)
		finding := p.analyze(fullURL, resp.Body)
		if !finding.IsEmpty() {
			report.Results = append(report.Results, ScanResult{URL: fullURL, SensitiveData: finding})
		}
		report.Found = append(report.Found, fullURL)
	case OutcomeAbsent:
		p.reporter.NotFound(fullURL)
		report.NotFound++
	default:
		p.reporter.Unexpected(fullURL, resp.StatusCode)
		report.Unexpected++
	}
}

func (p *Prober) analyze(fullURL string, body []byte) detection.Finding {
	p.reporter.Analyzing(fullURL)
	finding := detection.Analyze(string(body))
	for _, label := range finding.Labels() {
		p.reporter.Match(fullURL, label, finding.Matches(label))
	}
	return finding
}

type nopReporter struct{}

func (nopReporter) ScanStarted(int) {}
func (nopReporter) Found(string) {}
func (nopReporter) NotFound(string) {}
func (nopReporter) Unexpected(string, int) {}
func (nopReporter) Errored(string, error) {}
func (nopReporter) Analyzing(string) {}
func (nopReporter) Match(string, string, []string) {}
func (nopReporter) ScanCompleted() {}

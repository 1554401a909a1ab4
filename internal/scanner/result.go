package scanner

import (
	"net/http"
	"strings"

	"github.com/cloudeye-scanner/cloudeye/internal/detection"
)

// Outcome classifies a single probe.
type Outcome int

const (
	OutcomeFound      Outcome = iota // HTTP 200
	OutcomeAbsent                    // HTTP 404
	OutcomeUnexpected                // any other status
	OutcomeErrored                   // transport failure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeAbsent:
		return "absent"
	case OutcomeUnexpected:
		return "unexpected"
	case OutcomeErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Classify maps an HTTP status code to its outcome.
func Classify(statusCode int) Outcome {
	switch statusCode {
	case http.StatusOK:
		return OutcomeFound
	case http.StatusNotFound:
		return OutcomeAbsent
	default:
		return OutcomeUnexpected
	}
}

// ScanResult pairs a found URL with the sensitive data in its body.
type ScanResult struct {
	URL           string            `json:"url"`
	SensitiveData detection.Finding `json:"sensitive_data"`
}

// Report is the outcome of probing every candidate path once.
type Report struct {
	Total      int
	Found      []string // URLs that returned 200, in probe order
	Errored    []string // URLs that failed at the transport level
	NotFound   int
	Unexpected int
	Results    []ScanResult // found URLs whose body matched at least one pattern
}

// ResolveURL joins target and path after stripping trailing slashes
// from target. path is used as given.
func ResolveURL(target, path string) string {
	return strings.TrimRight(target, "/") + "/" + path
}

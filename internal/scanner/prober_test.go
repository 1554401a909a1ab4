package scanner

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloudeye-scanner/cloudeye/internal/detection"
	"github.com/cloudeye-scanner/cloudeye/internal/logging"
)

func awsKey() string { return "AK" + "IA" + "ABCDEFGHIJKLMNOP" }

func TestProbeClassifiesResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/config.yml":
			fmt.Fprintf(w, `api_key="%s"`, awsKey())
		case "/index.html":
			fmt.Fprint(w, "nothing to see here")
		case "/admin_panel/":
			w.WriteHeader(http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	rec := &recorder{}
	prober := NewProber(newTestRequester(t, testOpts(t)), NewThrottler(0), rec, logging.Discard())
	paths := []string{"config.yml", "index.html", "admin_panel/", "secrets.json"}

	report := prober.Probe(context.Background(), srv.URL+"/", paths)

	wantFound := []string{srv.URL + "/config.yml", srv.URL + "/index.html"}
	if !reflect.DeepEqual(report.Found, wantFound) {
		t.Errorf("Found = %v, want %v", report.Found, wantFound)
	}
	if len(report.Errored) != 0 {
		t.Errorf("Errored = %v, want none", report.Errored)
	}
	if report.NotFound != 1 || report.Unexpected != 1 {
		t.Errorf("NotFound=%d Unexpected=%d, want 1 and 1", report.NotFound, report.Unexpected)
	}

	if len(report.Results) != 1 {
		t.Fatalf("expected 1 scan result, got %d", len(report.Results))
	}
	res := report.Results[0]
	if res.URL != srv.URL+"/config.yml" {
		t.Errorf("result URL = %s", res.URL)
	}
	for _, label := range []string{detection.LabelAPIKey, detection.LabelAWSAccessKey} {
		if !res.SensitiveData.Contains(label, awsKey()) {
			t.Errorf("expected %s to contain the key, got %v", label, res.SensitiveData.Matches(label))
		}
	}

	wantEvents := []string{
		"start 4",
		"found " + srv.URL + "/config.yml",
		"analyze " + srv.URL + "/config.yml",
		fmt.Sprintf("match %s %s [%s]", detection.LabelAPIKey, srv.URL+"/config.yml", awsKey()),
		fmt.Sprintf("match %s %s [%s]", detection.LabelAWSAccessKey, srv.URL+"/config.yml", awsKey()),
		"found " + srv.URL + "/index.html",
		"analyze " + srv.URL + "/index.html",
		"unexpected 403 " + srv.URL + "/admin_panel/",
		"notfound " + srv.URL + "/secrets.json",
		"done",
	}
	if !reflect.DeepEqual(rec.events, wantEvents) {
		t.Errorf("events:\n%v\nwant:\n%v", rec.events, wantEvents)
	}
}

func TestProbeRecordsTransportErrorsAndContinues(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	prober := NewProber(newTestRequester(t, testOpts(t)), NewThrottler(0), nil, logging.Discard())
	report := prober.Probe(context.Background(), deadURL, []string{"a", "b"})

	want := []string{deadURL + "/a", deadURL + "/b"}
	if !reflect.DeepEqual(report.Errored, want) {
		t.Errorf("Errored = %v, want %v", report.Errored, want)
	}
	if len(report.Found) != 0 || len(report.Results) != 0 {
		t.Errorf("unexpected found/results: %v %v", report.Found, report.Results)
	}
}

func TestProbeTimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	opts := testOpts(t)
	opts.Timeout = 100 * time.Millisecond
	prober := NewProber(newTestRequester(t, opts), NewThrottler(0), nil, logging.Discard())

	report := prober.Probe(context.Background(), srv.URL, []string{"slow"})
	if len(report.Errored) != 1 {
		t.Errorf("expected timeout to be recorded as an error, got %+v", report)
	}
}

func TestProbeTLSFailureIsTransportError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	// The requester verifies certificates, so the test server's self-signed
	// certificate fails the handshake for every path.
	prober := NewProber(newTestRequester(t, testOpts(t)), NewThrottler(0), nil, logging.Discard())
	report := prober.Probe(context.Background(), srv.URL, []string{"config.yml", "secrets.json"})

	want := []string{srv.URL + "/config.yml", srv.URL + "/secrets.json"}
	if !reflect.DeepEqual(report.Errored, want) {
		t.Errorf("Errored = %v, want %v", report.Errored, want)
	}
	if len(report.Found) != 0 {
		t.Errorf("Found = %v, want none", report.Found)
	}
	if hits.Load() != 0 {
		t.Errorf("handler reached %d times despite failed handshake", hits.Load())
	}
}

func TestProbeTruncatedBodyIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/truncated" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "0123456789")
		w.(http.Flusher).Flush()
		conn, _, err := w.(http.Hijacker).Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		conn.Close()
	}))
	defer srv.Close()

	rec := &recorder{}
	prober := NewProber(newTestRequester(t, testOpts(t)), NewThrottler(0), rec, logging.Discard())
	report := prober.Probe(context.Background(), srv.URL, []string{"truncated", "next"})

	if want := []string{srv.URL + "/truncated"}; !reflect.DeepEqual(report.Errored, want) {
		t.Errorf("Errored = %v, want %v", report.Errored, want)
	}
	if len(report.Found) != 0 || len(report.Results) != 0 {
		t.Errorf("truncated body must not count as found: %v %v", report.Found, report.Results)
	}
	if report.NotFound != 1 {
		t.Errorf("NotFound = %d, want the next path probed", report.NotFound)
	}
	wantEvents := []string{
		"start 2",
		"error " + srv.URL + "/truncated",
		"notfound " + srv.URL + "/next",
		"done",
	}
	if !reflect.DeepEqual(rec.events, wantEvents) {
		t.Errorf("events = %v, want %v", rec.events, wantEvents)
	}
}

func TestProbeUppercaseSchemeTarget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/config.yml" {
			fmt.Fprint(w, "ok")
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	target := "HTTP" + strings.TrimPrefix(srv.URL, "http")
	prober := NewProber(newTestRequester(t, testOpts(t)), NewThrottler(0), nil, logging.Discard())
	report := prober.Probe(context.Background(), target, []string{"config.yml"})

	if want := []string{target + "/config.yml"}; !reflect.DeepEqual(report.Found, want) {
		t.Errorf("Found = %v, want %v (errored %v)", report.Found, want, report.Errored)
	}
}

func TestProbeNoRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	prober := NewProber(newTestRequester(t, testOpts(t)), NewThrottler(0), nil, logging.Discard())
	report := prober.Probe(context.Background(), srv.URL, []string{"x"})

	if hits.Load() != 1 {
		t.Errorf("expected exactly one request, got %d", hits.Load())
	}
	if report.Unexpected != 1 {
		t.Errorf("Unexpected = %d, want 1", report.Unexpected)
	}
}

func TestProbeCountsCoverEveryPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch len(r.URL.Path) % 3 {
		case 0:
			fmt.Fprint(w, "ok")
		case 1:
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	paths := []string{"a", "bb", "ccc", "dddd", "eeeee", "a", "bb"}
	prober := NewProber(newTestRequester(t, testOpts(t)), NewThrottler(0), nil, logging.Discard())
	report := prober.Probe(context.Background(), srv.URL, paths)

	if report.Total != len(paths) {
		t.Fatalf("Total = %d, want %d", report.Total, len(paths))
	}
	sum := len(report.Found) + len(report.Errored) + report.NotFound + report.Unexpected
	if sum != len(paths) {
		t.Errorf("outcome counts sum to %d, want %d", sum, len(paths))
	}
	if len(report.Found)+len(report.Errored) > len(paths) {
		t.Error("found+errored exceeds total")
	}
}

func TestProbeSendsHeaders(t *testing.T) {
	var ua, accept atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.Header.Get("User-Agent"))
		accept.Store(r.Header.Get("Accept"))
		http.NotFound(w, r)
	}))
	defer srv.Close()

	prober := NewProber(newTestRequester(t, testOpts(t)), NewThrottler(0), nil, logging.Discard())
	prober.Probe(context.Background(), srv.URL, []string{"x"})

	if got := ua.Load(); got != "CLOUDeye/1.0 (Scanner)" {
		t.Errorf("User-Agent = %v", got)
	}
	if got := accept.Load(); got != "*/*" {
		t.Errorf("Accept = %v", got)
	}
}

func TestProbeWaitsAfterEveryRequest(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	var waits int
	throttler := NewThrottler(time.Millisecond)
	throttler.sleep = func(time.Duration) { waits++ }

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	prober := NewProber(newTestRequester(t, testOpts(t)), throttler, nil, logging.Discard())
	prober.Probe(context.Background(), srv.URL, []string{"a", "b", "c"})
	prober.Probe(context.Background(), deadURL, []string{"d"})

	if waits != 4 {
		t.Errorf("expected 4 waits, got %d", waits)
	}
}

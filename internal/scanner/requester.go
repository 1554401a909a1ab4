package scanner

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/proxy"

	"github.com/cloudeye-scanner/cloudeye/internal/config"
)

// Response holds the parts of an HTTP response the prober needs.
type Response struct {
	StatusCode int
	Body       []byte
	URL        string
	Duration   time.Duration
}

// Requester wraps an HTTP client that issues probe requests.
type Requester struct {
	client    *http.Client
	userAgent string
}

// NewRequester creates a Requester from the provided options. An invalid
// proxy URL is reported here, before any request is made.
func NewRequester(opts *config.Options) (*Requester, error) {
	dialer := &net.Dialer{
		Timeout:   opts.Timeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: opts.Timeout,
		MaxIdleConnsPerHost: 1,
	}

	if opts.Proxy != "" {
		if err := applyProxy(transport, dialer, opts.Proxy); err != nil {
			return nil, err
		}
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = config.DefaultUserAgent
	}

	return &Requester{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		userAgent: ua,
	}, nil
}

// applyProxy routes every request through raw. http and https proxies use
// the transport's CONNECT support; socks5 proxies replace the dialer.
func applyProxy(transport *http.Transport, dialer *net.Dialer, raw string) error {
	proxyURL, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(err, "invalid proxy URL %q", raw)
	}
	switch proxyURL.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(proxyURL)
	case "socks5", "socks5h":
		d, err := proxy.FromURL(proxyURL, dialer)
		if err != nil {
			return errors.Wrapf(err, "creating socks dialer for %q", raw)
		}
		cd, ok := d.(proxy.ContextDialer)
		if !ok {
			return errors.Errorf("socks dialer for %q does not support contexts", raw)
		}
		transport.Proxy = nil
		transport.DialContext = cd.DialContext
	default:
		return errors.Errorf("invalid proxy URL %q: unsupported scheme %q", raw, proxyURL.Scheme)
	}
	return nil
}

// Get fetches rawURL and reads the full body. Any failure to connect,
// complete TLS, receive headers or read the body is returned as an error.
func (r *Requester) Get(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "*/*")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading response body for %s", rawURL)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		URL:        rawURL,
		Duration:   time.Since(start),
	}, nil
}

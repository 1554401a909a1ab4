package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Scan modes accepted by --mode. Both select the same scan.
const (
	ModeBasic = "basic"
	ModeFull  = "full"
)

// Defaults for a cloudeye scan.
const (
	DefaultOutput    = "cloudeye_results"
	DefaultUserAgent = "CLOUDeye/1.0 (Scanner)"
	DefaultTimeout   = 5 * time.Second
	DefaultDelay     = 1 * time.Second
	DefaultLogLevel  = "warn"
)

// Modes lists the valid --mode values.
var Modes = []string{ModeBasic, ModeFull}

// Options holds all configuration for a cloudeye scan.
type Options struct {
	// Target
	URL        string
	Mode       string
	CustomList string // empty = use embedded default paths

	// HTTP
	Proxy     string
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration // wait after every request

	// Output
	OutputBase string // files are written to OutputBase + ".json" / ".csv"
	NoColor    bool
	LogLevel   string
}

// Default returns Options populated with the built-in defaults.
func Default() Options {
	return Options{
		Mode:       ModeBasic,
		UserAgent:  DefaultUserAgent,
		Timeout:    DefaultTimeout,
		Delay:      DefaultDelay,
		OutputBase: DefaultOutput,
		LogLevel:   DefaultLogLevel,
	}
}

// Validate reports the first invalid option.
func (o *Options) Validate() error {
	if o.URL == "" {
		return errors.New("target required: use -u/--url")
	}
	if !validMode(o.Mode) {
		return errors.Errorf("invalid mode %q: must be one of %v", o.Mode, Modes)
	}
	if o.OutputBase == "" {
		return errors.New("output basename must not be empty")
	}
	if o.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %s", o.Timeout)
	}
	if o.Delay < 0 {
		return errors.Errorf("delay must not be negative, got %s", o.Delay)
	}
	if _, err := logrus.ParseLevel(o.LogLevel); err != nil {
		return errors.Errorf("invalid log level %q. Valid values: debug, info, warn, error", o.LogLevel)
	}
	return nil
}

func validMode(mode string) bool {
	for _, m := range Modes {
		if m == mode {
			return true
		}
	}
	return false
}

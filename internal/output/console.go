package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/cloudeye-scanner/cloudeye/internal/scanner"
)

// Console prints scan progress and the run summary. It implements
// scanner.Reporter.
type Console struct {
	w       io.Writer
	noColor bool

	info    *color.Color
	success *color.Color
	warn    *color.Color
	alert   *color.Color
	banner  *color.Color
}

var _ scanner.Reporter = (*Console)(nil)

// NewConsole creates a console writing to w. noColor disables ANSI codes.
func NewConsole(w io.Writer, noColor bool) *Console {
	c := &Console{w: w, noColor: noColor}
	c.info = c.paint(color.FgCyan)
	c.success = c.paint(color.FgGreen)
	c.warn = c.paint(color.FgYellow)
	c.alert = c.paint(color.FgRed)
	c.banner = c.paint(color.FgCyan, color.Bold)
	return c
}

func (c *Console) paint(attrs ...color.Attribute) *color.Color {
	col := color.New(attrs...)
	if c.noColor {
		col.DisableColor()
	}
	return col
}

// Banner prints the tool banner and usage disclaimer.
func (c *Console) Banner(version string) {
	c.banner.Fprintf(c.w, `
   ________    ____  __  ______       __
  / ____/ /   / __ \/ / / / __ \___  / /_  _____
 / /   / /   / / / / / / / / / / _ \/ / / / / _ \
/ /___/ /___/ /_/ / /_/ / /_/ /  __/ / /_/ /  __/
\____/_____/\____/\____/_____/\___/_/\__, /\___/
                                    /____/   %s

  Sensitive file and secret exposure scanner

  DISCLAIMER: Use responsibly and ethically.
  Unauthorized or malicious use is prohibited.

`, version)
}

// Config prints the scan parameters.
func (c *Console) Config(target, mode string, pathCount int, labels []string, proxy string) {
	fmt.Fprintf(c.w, "  Target:   %s\n", target)
	fmt.Fprintf(c.w, "  Mode:     %s\n", mode)
	fmt.Fprintf(c.w, "  Paths:    %d\n", pathCount)
	fmt.Fprintf(c.w, "  Patterns: %s\n", strings.Join(labels, ", "))
	if proxy != "" {
		fmt.Fprintf(c.w, "  Proxy:    %s\n", proxy)
	}
	fmt.Fprintln(c.w)
}

func (c *Console) ScanStarted(total int) {
	c.info.Fprintln(c.w, "[*] Starting scan for sensitive files...")
}

func (c *Console) Found(url string) {
	c.success.Fprintf(c.w, "[+] Found: %s (200 OK)\n", url)
}

func (c *Console) NotFound(url string) {
	c.warn.Fprintf(c.w, "[-] Not Found: %s\n", url)
}

func (c *Console) Unexpected(url string, statusCode int) {
	c.warn.Fprintf(c.w, "[!] Unexpected response: %d for %s\n", statusCode, url)
}

func (c *Console) Errored(url string, err error) {
	c.alert.Fprintf(c.w, "[!] Error accessing %s: %v\n", url, err)
}

func (c *Console) Analyzing(url string) {
	c.info.Fprintf(c.w, "[*] Analyzing content from %s...\n", url)
}

func (c *Console) Match(url, label string, values []string) {
	c.alert.Fprintf(c.w, "[!] Found %s in %s: %v\n", label, url, values)
}

func (c *Console) ScanCompleted() {
	c.info.Fprintln(c.w, "[*] Scan completed.")
}

// Saved reports a written result file.
func (c *Console) Saved(path string) {
	c.success.Fprintf(c.w, "[+] Results saved to %s\n", path)
}

// Fatal reports an error that ends the run.
func (c *Console) Fatal(format string, args ...any) {
	c.alert.Fprintf(c.w, "[!] "+format+"\n", args...)
}

// Summary prints the end-of-run totals.
func (c *Console) Summary(stats Stats) {
	c.info.Fprintln(c.w, "\n[Summary]")
	fmt.Fprintf(c.w, "  Paths probed: %d\n", stats.Total)
	fmt.Fprintf(c.w, "  Found files: %d\n", stats.Found)
	fmt.Fprintf(c.w, "  Not found: %d\n", stats.NotFound)
	fmt.Fprintf(c.w, "  Unexpected: %d\n", stats.Unexpected)
	fmt.Fprintf(c.w, "  Errors: %d\n", stats.Errored)
	fmt.Fprintf(c.w, "  Files with sensitive data: %d\n", stats.Results)
	fmt.Fprintf(c.w, "  Time Elapsed: %s\n", stats.Duration)
}

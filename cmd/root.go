package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/cloudeye-scanner/cloudeye/internal/config"
	"github.com/cloudeye-scanner/cloudeye/internal/runner"
	"github.com/cloudeye-scanner/cloudeye/pkg/version"
)

var opts = config.Default()

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"TARGET", []string{"url", "mode", "custom-list"}},
	{"HTTP", []string{"proxy"}},
	{"OUTPUT", []string{"output", "no-color", "log-level"}},
}

var rootCmd = &cobra.Command{
	Use:     "cloudeye -u <url> [flags]",
	Short:   "Sensitive file and secret exposure scanner",
	Version: version.Version,
	Long: `cloudeye probes a web target for commonly exposed sensitive files and
scans every file it finds for credentials, keys and personal data.
Results are saved as JSON and CSV.`,
	Example: `  cloudeye -u https://example.com
  cloudeye -u example.com -m full -o audit
  cloudeye -u https://example.com --custom-list paths.txt
  cloudeye -u https://example.com --proxy http://127.0.0.1:8080
  cloudeye -u https://example.com --proxy socks5://127.0.0.1:9050`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if opts.URL == "" {
			_ = cmd.Help()
			fmt.Fprintln(os.Stderr)
		}
		opts.URL = normalizeTarget(opts.URL)
		if !cmd.Flags().Changed("no-color") && !term.IsTerminal(int(os.Stdout.Fd())) {
			opts.NoColor = true
		}
		return opts.Validate()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runner.Run(context.Background(), &opts, os.Stdout)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Target
	f.StringVarP(&opts.URL, "url", "u", "", "Target URL (e.g. https://example.com)")
	f.VarP(&choiceValue{target: &opts.Mode, choices: config.Modes}, "mode", "m", "Scan mode: basic, full")
	f.StringVar(&opts.CustomList, "custom-list", "", "File with one path per line (default: built-in)")

	// HTTP
	f.StringVar(&opts.Proxy, "proxy", "", "HTTP/SOCKS5 proxy URL")

	// Output
	f.StringVarP(&opts.OutputBase, "output", "o", config.DefaultOutput, "Basename for the .json and .csv result files")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	f.StringVar(&opts.LogLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// normalizeTarget adds http:// to a target given without a scheme.
func normalizeTarget(target string) string {
	if target == "" || hasSchemePrefix(target, "http://") || hasSchemePrefix(target, "https://") {
		return target
	}
	return "http://" + target
}

// hasSchemePrefix reports whether s starts with prefix, ignoring case.
func hasSchemePrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// choiceValue implements pflag.Value for a string limited to a fixed set.
type choiceValue struct {
	target  *string
	choices []string
}

func (v *choiceValue) String() string {
	if v.target == nil {
		return ""
	}
	return *v.target
}

func (v *choiceValue) Set(s string) error {
	for _, c := range v.choices {
		if c == s {
			*v.target = s
			return nil
		}
	}
	return fmt.Errorf("invalid choice %q: must be one of %s", s, strings.Join(v.choices, ", "))
}

func (v *choiceValue) Type() string { return "string" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	const col = 32
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	def := f.DefValue
	if def != "" && def != "false" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
   ________    ____  __  ______
  / ____/ /   / __ \/ / / / __ \__  _____
 / /   / /   / / / / / / / / / / / / / _ \
/ /___/ /___/ /_/ / /_/ / /_/ / /_/ /  __/
\____/_____/\____/\____/_____/\__, /\___/
                             /____/   %s

`, ver)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/athas-labs/querysync/internal/branding"
	"github.com/athas-labs/querysync/internal/config"
	"github.com/athas-labs/querysync/internal/logging"
	"github.com/athas-labs/querysync/internal/sources"
	"github.com/athas-labs/querysync/internal/syncer"
	"github.com/athas-labs/querysync/internal/upstream"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
)

var (
	syncCheck       bool
	syncDiff        bool
	syncFailFast    bool
	syncOnly        []string
	syncTimeout     time.Duration
	syncMetricsFile string
)

func init() {
	f := rootCmd.Flags()
	f.BoolVar(&syncCheck, "check", false, "Verify targets are current without writing")
	f.BoolVar(&syncDiff, "diff", false, "With --check, print a diff for each out-of-date target")
	f.BoolVar(&syncFailFast, "fail-fast", false, "With --check, stop at the first out-of-date entry")
	f.StringSliceVar(&syncOnly, "only", nil, "Sync only the named entries (comma-separated)")
	f.DurationVar(&syncTimeout, "timeout", config.DefaultTimeout, "Timeout for each upstream fetch")
	f.StringVar(&syncMetricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format to this path after the run")
}

// syncOptions holds everything one run needs, resolved from flags and config.
type syncOptions struct {
	root        string
	sourcesFile string
	check       bool
	diff        bool
	failFast    bool
	only        []string
	timeout     time.Duration
	metricsFile string
	verbosity   int
	token       string

	// command is named in drift errors; empty means the bare CLI name.
	command string

	// fetchOptions are applied after the defaults.
	fetchOptions []upstream.Option
}

// extraFetchOptions are appended to every fetcher built by the root command.
var extraFetchOptions []upstream.Option

func runRoot(cmd *cobra.Command, args []string) error {
	return runSync(cmd, syncOptions{
		root:         rootDir,
		sourcesFile:  config.Get(config.KeySources),
		check:        syncCheck,
		diff:         syncDiff,
		failFast:     syncFailFast,
		only:         syncOnly,
		timeout:      config.Timeout(),
		metricsFile:  syncMetricsFile,
		verbosity:    verbosity,
		token:        os.Getenv("GITHUB_TOKEN"),
		command:      regenerateCommand(cmd.Flags()),
		fetchOptions: extraFetchOptions,
	})
}

func runSync(cmd *cobra.Command, opts syncOptions) (err error) {
	if opts.diff && !opts.check {
		return errors.New("--diff requires --check")
	}

	out := cmd.OutOrStdout()
	logger := logging.New(cmd.ErrOrStderr(), opts.verbosity)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.IntoContext(ctx, logger)

	var metrics *syncer.Metrics
	if opts.metricsFile != "" {
		promReg := prometheus.NewRegistry()
		metrics = syncer.NewMetrics(promReg)
		defer func() {
			metrics.ObserveRun(err)
			if werr := prometheus.WriteToTextfile(opts.metricsFile, promReg); werr != nil {
				err = multierr.Append(err, fmt.Errorf("writing metrics file: %w", werr))
			}
		}()
	}

	root, file := resolvePaths(opts.root, opts.sourcesFile)
	logger.V(1).Info("loading registry", "file", file, "root", root)

	reg, err := loadRegistry(file, opts.only)
	if err != nil {
		return err
	}
	if len(reg) == 0 {
		fmt.Fprintln(out, "No query sources configured.")
		return nil
	}

	mode := syncer.ModeWrite
	if opts.check {
		mode = syncer.ModeCheck
	}

	command := opts.command
	if command == "" {
		command = branding.CLIName()
	}

	syncOpts := []syncer.Option{
		syncer.WithRoot(root),
		syncer.WithMode(mode),
		syncer.WithFailFast(opts.failFast),
		syncer.WithCommand(command),
		syncer.WithMetrics(metrics),
		syncer.WithProgress(func(res syncer.Result) {
			fmt.Fprintf(out, "%s: %s\n", res.Name, colorLabel(res.Label(mode)))
		}),
	}

	fetchOpts := append([]upstream.Option{
		upstream.WithUserAgent(userAgent()),
		upstream.WithToken(opts.token),
		upstream.WithTimeout(opts.timeout),
	}, opts.fetchOptions...)

	s := syncer.New(upstream.New(fetchOpts...), syncOpts...)
	report, err := s.Run(ctx, reg)

	if opts.diff {
		printDiffs(out, report.Stale())
	}

	if err == nil || mode == syncer.ModeCheck {
		fmt.Fprintf(out, "\n%s\n", report.Summary())
	}
	return err
}

// regenerateCommand is the write-mode invocation named in drift errors. It
// repeats the flags that select the registry and entries so that the command
// regenerates the same targets the check looked at.
func regenerateCommand(flags *pflag.FlagSet) string {
	parts := []string{branding.CLIName()}
	for _, name := range []string{"root", "sources", "only"} {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		value := f.Value.String()
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			value = strings.Join(sv.GetSlice(), ",")
		}
		parts = append(parts, "--"+name, shellQuote(value))
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"'\\$`;&|<>()*?[]#~") {
		return strconv.Quote(s)
	}
	return s
}

// resolvePaths returns the sync root and the registry path. Without an
// explicit root the registry's directory is the root.
func resolvePaths(root, file string) (string, string) {
	if file == "" {
		file = branding.SourcesFile()
	}
	if root == "" {
		return filepath.Dir(file), file
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(root, file)
	}
	return root, file
}

func loadRegistry(file string, only []string) (sources.Registry, error) {
	reg, err := sources.Load(file)
	if err != nil {
		return nil, err
	}
	if len(only) == 0 {
		return reg, nil
	}
	selected, err := reg.Select(only)
	if err != nil {
		var cfgErr *sources.ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.File = file
		}
		return nil, err
	}
	return selected, nil
}

// userAgent identifies requests as querysync/<version> unless the user
// configured a different agent.
func userAgent() string {
	ua := config.Get(config.KeyUserAgent)
	if ua == "" {
		ua = branding.CLIName()
	}
	if ua == branding.CLIName() && buildVersion != "" {
		ua += "/" + buildVersion
	}
	return ua
}

func colorLabel(label string) string {
	switch label {
	case "updated":
		return color.GreenString(label)
	case "out of date":
		return color.YellowString(label)
	case "failed":
		return color.RedString(label)
	default:
		return label
	}
}

func printDiffs(w io.Writer, stale []syncer.Result) {
	for _, res := range stale {
		fmt.Fprintf(w, "\n%s (%s) (-existing +generated):\n%s", res.Name, res.TargetPath, syncer.Diff(res.Existing, res.Generated))
	}
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/athas-labs/querysync/internal/branding"
	"github.com/athas-labs/querysync/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	rootDir     string
	sourcesFile string
	verbosity   int
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` regenerates vendored tree-sitter query files from pinned upstream
sources. Each entry in ` + branding.SourcesFile() + ` names an upstream repository, a pinned
revision, the query file to fetch, and the local file to write.

Run without a subcommand to write every target, or with --check to verify that
committed targets are current without writing anything.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		return bindFlags(cmd)
	},
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Directory target and override paths are relative to (default: the registry's directory)")
	rootCmd.PersistentFlags().StringVar(&sourcesFile, "sources", branding.SourcesFile(), "Registry file, relative to --root unless absolute")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
}

// bindFlags lets explicitly set flags win over environment and config file values.
func bindFlags(cmd *cobra.Command) error {
	if err := config.BindFlag(config.KeySources, cmd.Flag("sources")); err != nil {
		return err
	}
	if f := cmd.Flag("timeout"); f != nil {
		if err := config.BindFlag(config.KeyTimeout, f); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the root command with build info injected via ldflags.
// SIGINT and SIGTERM cancel the in-flight fetch and stop further entries.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printErrors(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// printErrors writes one "Error:" line per aggregated cause.
func printErrors(w io.Writer, err error) {
	for _, e := range multierr.Errors(err) {
		fmt.Fprintf(w, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), e)
	}
}

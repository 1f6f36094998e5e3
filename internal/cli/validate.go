package cli

import (
	"fmt"

	"github.com/athas-labs/querysync/internal/config"
	"github.com/athas-labs/querysync/internal/sources"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the registry file without fetching anything",
	Long: `Check the registry against its schema and the pinning rules: revisions must be
commit ids or tags rather than branches, paths must stay inside the root, and target paths
must be unique.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, file := resolvePaths(rootDir, config.Get(config.KeySources))
		return runValidate(cmd, file)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, file string) error {
	reg, err := sources.Load(file)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s is valid (%d entries).\n", color.GreenString("✓"), file, len(reg))
	return nil
}

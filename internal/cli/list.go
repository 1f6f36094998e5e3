package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/athas-labs/querysync/internal/config"
	"github.com/athas-labs/querysync/internal/sources"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured query sources",
	Long:  `List every entry of the registry with its pinned upstream and local target.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, file := resolvePaths(rootDir, config.Get(config.KeySources))
		return runList(cmd, file, listJSON)
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents one registry entry for display.
type listEntry struct {
	Name         string `json:"name"`
	Repository   string `json:"repository"`
	Revision     string `json:"revision"`
	QueryPath    string `json:"queryPath"`
	TargetPath   string `json:"targetPath"`
	OverridePath string `json:"overridePath,omitempty"`
	Replacements int    `json:"replacements"`
}

func runList(cmd *cobra.Command, file string, asJSON bool) error {
	reg, err := sources.Load(file)
	if err != nil {
		return err
	}

	if len(reg) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No query sources configured.")
		return nil
	}

	entries := make([]listEntry, 0, len(reg))
	for _, name := range reg.Names() {
		e := reg[name]
		entries = append(entries, listEntry{
			Name:         name,
			Repository:   e.Repository,
			Revision:     e.Revision,
			QueryPath:    e.QueryPath,
			TargetPath:   e.TargetPath,
			OverridePath: e.OverridePath,
			Replacements: len(e.Replacements),
		})
	}

	if asJSON {
		return printListJSON(cmd, entries)
	}
	return printListTable(cmd, entries)
}

func printListTable(cmd *cobra.Command, entries []listEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tUPSTREAM\tTARGET\tOVERRIDE")
	for _, e := range entries {
		override := e.OverridePath
		if override == "" {
			override = "-"
		}
		fmt.Fprintf(w, "%s\t%s@%s:%s\t%s\t%s\n", e.Name, e.Repository, e.Revision, e.QueryPath, e.TargetPath, override)
	}
	return w.Flush()
}

func printListJSON(cmd *cobra.Command, entries []listEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/athas-labs/querysync/internal/config"
	"github.com/athas-labs/querysync/internal/upstream"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupExecute isolates a full rootCmd run: HOME points at a temp dir, viper
// starts empty and every flag is back at its default.
func setupExecute(t *testing.T) (home string, out, errOut *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	home = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("QUERYSYNC_TIMEOUT", "")
	t.Setenv("QUERYSYNC_SOURCES", "")
	t.Setenv("GITHUB_TOKEN", "")

	viper.Reset()
	resetFlags(t, rootCmd)

	old := [3]string{buildVersion, buildCommit, buildDate}
	out, errOut = new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	t.Cleanup(func() {
		viper.Reset()
		resetFlags(t, rootCmd)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		extraFetchOptions = nil
		buildVersion, buildCommit, buildDate = old[0], old[1], old[2]
	})
	return home, out, errOut
}

func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			require.NoError(t, sv.Replace(nil))
		} else {
			require.NoError(t, f.Value.Set(f.DefValue))
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
}

func TestExecute_TimeoutPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		env        string
		configFile string
		want       time.Duration
	}{
		{name: "default", want: config.DefaultTimeout},
		{name: "config file", configFile: "timeout: 9s\n", want: 9 * time.Second},
		{name: "env over config file", env: "7s", configFile: "timeout: 9s\n", want: 7 * time.Second},
		{name: "flag over env", args: []string{"--timeout", "5s"}, env: "7s", want: 5 * time.Second},
		{name: "flag over env and config file", args: []string{"--timeout", "5s"}, env: "7s", configFile: "timeout: 9s\n", want: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home, out, _ := setupExecute(t)
			if tt.env != "" {
				t.Setenv("QUERYSYNC_TIMEOUT", tt.env)
			}
			if tt.configFile != "" {
				dir := filepath.Join(home, ".querysync")
				require.NoError(t, os.MkdirAll(dir, 0o755))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.configFile), 0o644))
			}
			registry := writeRegistry(t, t.TempDir(), "{}")

			rootCmd.SetArgs(append([]string{"--sources", registry}, tt.args...))
			require.NoError(t, Execute("test", "none", "unknown"))

			assert.Equal(t, "No query sources configured.\n", out.String())
			assert.Equal(t, tt.want, config.Timeout())
		})
	}
}

func TestExecute_CheckStaleTarget(t *testing.T) {
	_, out, errOut := setupExecute(t)

	dir := t.TempDir()
	registry := writeRegistry(t, dir, fooRegistry)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "out.scm"), []byte("stale\n"), 0o644))
	server := upstreamServer(t, map[string]string{"/foo/bar/abcd123/q.scm": "(foo) @x\n"})
	extraFetchOptions = []upstream.Option{
		upstream.WithHTTPClient(server.Client()),
		upstream.WithBaseURL(server.URL),
	}

	rootCmd.SetArgs([]string{"--check", "--sources", registry})
	err := Execute("test", "none", "unknown")
	require.Error(t, err)

	assert.Contains(t, out.String(), "foo: out of date\n")
	assert.Contains(t, out.String(), "Query sources check failed (1/1 entries not verified).")
	assert.Equal(t, "Error: foo: out.scm is out of date. Run: querysync --sources "+registry+"\n", errOut.String())

	data, err := os.ReadFile(filepath.Join(dir, "out.scm"))
	require.NoError(t, err)
	assert.Equal(t, "stale\n", string(data))
}

func TestExecute_DiffWithoutCheck(t *testing.T) {
	_, out, errOut := setupExecute(t)
	registry := writeRegistry(t, t.TempDir(), fooRegistry)

	rootCmd.SetArgs([]string{"--diff", "--sources", registry})
	require.Error(t, Execute("test", "none", "unknown"))

	assert.Empty(t, out.String())
	assert.Equal(t, "Error: --diff requires --check\n", errOut.String())
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/goecma/internal/config"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "goecma",
	Short: "A specification-faithful ECMAScript evaluation core",
	Long: `goecma drives a pre-parsed ECMAScript tree through a tagged-value
object model, realm/intrinsics bootstrap, and completion-record control
flow — the evaluation core of an ECMAScript engine, without a source-text
parser or host built-in library.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to an AgentOptions YAML file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

var (
	configPath string
	verbose    bool
)

// loadOptions reads --config if given, otherwise returns the zero-value
// AgentOptions (no features, default depth, logging discarded).
func loadOptions() (*config.AgentOptions, error) {
	if configPath == "" {
		return &config.AgentOptions{}, nil
	}
	return config.Load(configPath)
}

// ExitWithError prints a formatted error message to stderr, matching the
// "Error: ..." prefix cobra's own usage output uses.
func ExitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
}

// qad-fixture is the reference entrypoint: it wires the registry together
// and exposes it over a newline-delimited-JSON WebSocket harness purely to
// prove the core is callable from a network collaborator. It is not a
// production route table (SPEC_FULL.md §6) and carries no authentication.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codethink/qad-fixture/internal/config"
)

var (
	version = "0.1.0"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "qad-fixture",
	Short: "Input-injection and screenshot fixture daemon",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the fixture daemon and reference command server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return runServe(cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("qad-fixture v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/qad-fixture/qad-fixture.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

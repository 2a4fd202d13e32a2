package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aquarist-labs/glass/internal/logger"
	"github.com/aquarist-labs/glass/pkg/config"
)

var (
	// Set at build time with -ldflags "-X main.version=..."
	version = "dev"
	commit  = "none"
)

var (
	configFile string
	logLevel   string
	cfg        *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "glass",
		Short: "Storage console services backend",
		Long: `glass manages the CephFS and NFS services of a storage node: it keeps the
service directory, hands out CephFS credentials and builds the command line
clients use to mount an export.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default $XDG_CONFIG_HOME/glass/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (DEBUG, INFO, WARN, ERROR)")

	rootCmd.AddCommand(
		initCmd(),
		serveCmd(),
		servicesCmd(),
		inventoryCmd(),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig loads the configuration and sets up logging for every command
// that needs it.
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Annotations["skipConfig"] == "true" {
		return nil
	}

	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if logLevel != "" {
		loaded.Logging.Level = logLevel
	}

	output := loaded.Logging.Output
	// Keep stdout clean for command output; only serve logs there
	if output == "stdout" && cmd.Name() != "serve" {
		output = "stderr"
	}

	logger.SetLevel(loaded.Logging.Level)
	logger.SetFormat(loaded.Logging.Format)
	if err := logger.SetOutput(output); err != nil {
		return fmt.Errorf("failed to set log output: %w", err)
	}
	if configFile == "" && !config.ConfigExists() {
		logger.Debug("No config file at %s, using defaults (run 'glass init' to create one)",
			config.GetDefaultConfigPath())
	}

	cfg = loaded
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{"skipConfig": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "glass %s (commit %s)\n", version, commit)
		},
	}
}

func initCmd() *cobra.Command {
	var (
		force bool
		path  string
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default configuration file",
		Annotations: map[string]string{"skipConfig": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				written, err := config.InitConfig(force)
				if err != nil {
					return err
				}
				path = written
			} else if err := config.InitConfigToPath(path, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().StringVar(&path, "path", "", "write to this path instead of the default location")

	return cmd
}

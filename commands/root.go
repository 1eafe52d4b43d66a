// Package commands defines the graphsync CLI commands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/graphsync/config"
)

// Version and BuildTime identify the binary.
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "graphsync"
)

// options carries the shared CLI state resolved by the root command.
type options struct {
	configPath string
	dataDir    string
	logLevel   string

	logger *slog.Logger
	config *config.Config
}

// NewRootCmd builds the graphsync command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Triplestore dataset synchronizer",
		Long: `Graphsync keeps a SPARQL triplestore synchronized with a local corpus
of Turtle dataset descriptions. It detects added, deleted, and modified
datasets by canonical graph comparison and maintains per-dataset metadata
graphs (generated identifiers, inferred membership) in lockstep with the
content graphs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Dataset document directory (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newSyncCmd(opts))
	cmd.AddCommand(newDiffCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Version does not need a loaded config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// setup configures logging and loads the configuration.
func (o *options) setup() error {
	level := slog.LevelInfo
	switch strings.ToLower(o.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	o.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(o.logger)

	cfg, err := config.NewLoader(o.logger).Load(o.configPath)
	if err != nil {
		return err
	}
	if o.dataDir != "" {
		cfg.Corpus.DataDir = o.dataDir
	}
	o.config = cfg
	return nil
}

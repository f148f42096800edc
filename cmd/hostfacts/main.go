// Command hostfacts resolves host facts and prints them.
//
//	hostfacts                          # every fact
//	hostfacts puppet_server_version    # selected facts
//	hostfacts list                     # installed plugins and their facts
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/facts"
	"github.com/zero-day-ai/facts/config"
)

// cliOptions holds the global flags plus collector options injected by tests.
type cliOptions struct {
	configPath string
	format     string
	logLevel   string

	extra []facts.Option
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "hostfacts [fact...]",
		Short: "Resolve host facts",
		Long: `Resolves the named facts, or every installed fact when none are named,
in a single collection run and prints them as YAML or JSON.

Facts that cannot be determined on this host print as null. Unknown fact
names are reported on stderr and make the command exit non-zero after the
known facts have been printed.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to facts.yaml or a directory containing it")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides log.level")
	root.Flags().StringVarP(&opts.format, "format", "f", formatYAML, "output format (yaml, json)")

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List installed plugins and the facts they define",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	})
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&cliOptions{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newCollector loads the configuration, builds the logger from it and the
// flags, and wires the collector.
func newCollector(stderr io.Writer, opts *cliOptions) (*facts.Collector, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(stderr, cfg.Log, opts.logLevel)
	if err != nil {
		return nil, err
	}

	collectorOpts := append([]facts.Option{facts.WithConfig(cfg), facts.WithLogger(logger)}, opts.extra...)
	return facts.New(collectorOpts...)
}

func newLogger(w io.Writer, cfg *config.LogConfig, levelFlag string) (*slog.Logger, error) {
	level := cfg.GetLevel()
	if levelFlag != "" {
		parsed, err := config.ParseLevel(levelFlag)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.GetFormat() == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
}

func runCollect(ctx context.Context, stdout, stderr io.Writer, opts *cliOptions, names []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := checkFormat(opts.format); err != nil {
		return err
	}

	collector, err := newCollector(stderr, opts)
	if err != nil {
		return err
	}

	collection, collectErr := collector.Collect(ctx, names...)
	if err := writeCollection(stdout, opts.format, collection); err != nil {
		return err
	}
	return collectErr
}

func runList(stdout, stderr io.Writer, opts *cliOptions) error {
	collector, err := newCollector(stderr, opts)
	if err != nil {
		return err
	}
	return writePlugins(stdout, collector.Plugins())
}

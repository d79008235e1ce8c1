// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xataio/esdoc/cmd/config"
	"github.com/xataio/esdoc/internal/profiling"
	"github.com/xataio/esdoc/pkg/client"
	loglib "github.com/xataio/esdoc/pkg/log"
	"github.com/xataio/esdoc/pkg/log/zerolog"
	"github.com/xataio/esdoc/pkg/otel"
)

// Version is the esdoc version
var (
	Version = "development"
	Env     string
)

func Prepare() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "esdoc",
		Short:        "Typed documents for Elasticsearch and OpenSearch indexes",
		SilenceUsage: true,
		Version:      version(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			return nil
		},
	}

	// env config keys carry the ESDOC_ prefix already
	viper.AutomaticEnv()

	// Flag definition

	// root cmd
	rootCmd.PersistentFlags().StringP("config", "c", "", ".env or .yaml config file to use with esdoc if any")
	rootCmd.PersistentFlags().String("log-level", "info", "log level for the application. One of trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().String("elasticsearch-url", "", "Elasticsearch cluster URL")
	rootCmd.PersistentFlags().String("opensearch-url", "", "OpenSearch cluster URL")

	// mapping cmd
	mappingCmd.Flags().StringP("schema", "s", "", "Path to the YAML schema definition")

	// validate cmd
	validateCmd.Flags().StringP("schema", "s", "", "Path to the YAML schema definition")
	validateCmd.Flags().StringP("file", "f", "", "NDJSON file with the documents to validate, - for stdin")
	validateCmd.Flags().Bool("json", false, "Output the validation report in JSON format")

	// create-index cmd
	createIndexCmd.Flags().StringP("schema", "s", "", "Path to the YAML schema definition")
	createIndexCmd.Flags().String("index", "", "Name of the index to create. Defaults to the schema index name")
	createIndexCmd.Flags().Bool("exists-ok", false, "Whether an already existing index is accepted")

	// load cmd
	loadCmd.Flags().StringP("schema", "s", "", "Path to the YAML schema definition")
	loadCmd.Flags().StringP("file", "f", "", "NDJSON file with the documents to load, - for stdin")
	loadCmd.Flags().String("index", "", "Target index of all the documents. Defaults to the schema index name")
	loadCmd.Flags().Int64("max-bytes-per-request", 0, "Size ceiling of each bulk request. Defaults to 10MiB")
	loadCmd.Flags().Bool("create-indexes", false, "Whether to create the target indexes before loading the documents")
	loadCmd.Flags().Bool("validate", false, "Whether to validate all the documents before loading them")
	loadCmd.Flags().Bool("refresh", false, "Whether to refresh the target indexes once the documents are loaded")
	loadCmd.Flags().Bool("exact-size", false, "Whether to measure the encoded documents instead of estimating their size")
	loadCmd.Flags().Bool("progress", false, "Whether to render a progress bar")
	loadCmd.Flags().Bool("profile", false, "Whether to produce CPU and memory profile files in the working directory")

	// refresh cmd
	refreshCmd.Flags().StringP("schema", "s", "", "Path to a YAML schema definition whose index is refreshed")

	// Flag binding for root cmd
	rootFlagBinding(rootCmd)

	// register subcommands
	rootCmd.AddCommand(mappingCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(createIndexCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(refreshCmd)
	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	cmd := Prepare()
	return cmd.Execute()
}

func withSignalWatcher(fn func(ctx context.Context, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()
		return fn(ctx, cmd, args)
	}
}

func withProfiling(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if !flagEnabled(cmd.Flags(), "profile") {
			return fn(cmd, args)
		}

		stopProfiling, err := profiling.Start(".")
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, stopProfiling())
		}()

		return fn(cmd, args)
	}
}

func rootFlagBinding(cmd *cobra.Command) {
	viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))

	bindFlags(cmd.PersistentFlags(), []flagBinding{
		{flag: "log-level", yamlKey: "log.level", envKey: "ESDOC_LOG_LEVEL"},
		{flag: "elasticsearch-url", yamlKey: "store.elasticsearch.url", envKey: "ESDOC_ELASTICSEARCH_URL"},
		{flag: "opensearch-url", yamlKey: "store.opensearch.url", envKey: "ESDOC_OPENSEARCH_URL"},
	})
}

func version() string {
	if Env != "" {
		return Env + " (" + Version + ")"
	}
	return Version
}

func newLogger() loglib.Logger {
	logger := zerolog.NewZerolog(&zerolog.Config{
		LogLevel: config.LogLevel(),
	})
	zerolog.SetGlobalLogger(logger)
	return zerolog.NewLogger(logger)
}

func newInstrumentationProvider() (otel.InstrumentationProvider, error) {
	cfg, err := config.ParseInstrumentationConfig()
	if err != nil {
		return nil, fmt.Errorf("parsing instrumentation config: %w", err)
	}

	p, err := otel.NewInstrumentationProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialisating instrumentation provider: %w", err)
	}
	return p, nil
}

// withClient runs fn with a store client built from the configuration. The
// instrumentation provider is flushed once fn returns.
func withClient(ctx context.Context, name string, fn func(context.Context, *config.Config, *client.Client) error) error {
	cfg, err := config.ParseConfig()
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	provider, err := newInstrumentationProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	c, err := client.New(cfg.Client,
		client.WithLogger(newLogger()),
		client.WithInstrumentation(provider.NewInstrumentation(name)))
	if err != nil {
		return err
	}

	return fn(ctx, cfg, c)
}

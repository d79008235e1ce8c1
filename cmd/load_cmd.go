// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/xataio/esdoc/cmd/config"
	"github.com/xataio/esdoc/internal/progress"
	"github.com/xataio/esdoc/pkg/client"
	"github.com/xataio/esdoc/pkg/index"
)

var loadCmd = &cobra.Command{
	Use:     "load",
	Short:   "Loads NDJSON documents into the indexes of a schema definition",
	PreRunE: loadFlagBinding,
	RunE:    withProfiling(withSignalWatcher(load)),
	Example: `
	esdoc load --schema places.yaml --file places.ndjson --elasticsearch-url http://localhost:9200 --create-indexes --refresh
	esdoc load -s places.yaml -f places.ndjson --index places-2024 --validate --progress -c config.yaml`,
}

func load(ctx context.Context, cmd *cobra.Command, _ []string) error {
	schema, err := loadSchema(flagValue(cmd.Flags(), "schema"))
	if err != nil {
		return err
	}
	docs, err := readDocumentsFile(flagValue(cmd.Flags(), "file"), schema, flagValue(cmd.Flags(), "index"))
	if err != nil {
		return err
	}

	return withClient(ctx, "load", func(ctx context.Context, cfg *config.Config, c *client.Client) error {
		var bar progress.Bar = progress.NoopBar{}
		if flagEnabled(cmd.Flags(), "progress") {
			bar = progress.NewDocumentsBar(len(docs), "loading documents")
		}

		result, err := saveDocuments(ctx, c, docs, cfg.Save, bar)
		if err != nil {
			pterm.Error.Println(err.Error())
			return err
		}

		for _, failed := range result.Failed {
			pterm.Warning.Printfln("document %s not written to %s: %s (%s)", failed.ID, failed.Index, failed.Reason, failed.Type)
		}
		pterm.Success.Printfln("%d documents sent in %d bulk requests, %d failed", len(docs), result.Batches, len(result.Failed))
		if cfg.Save.RefreshAfter && !result.Refreshed {
			pterm.Warning.Println("some shards failed to refresh")
		}
		return nil
	})
}

func saveDocuments(ctx context.Context, c *client.Client, docs []*index.Document, opts client.SaveOptions, bar progress.Bar) (*client.SaveResult, error) {
	defer bar.Close()

	opts.OnBatch = func(n int) {
		bar.Add(n)
	}

	result, err := c.Save(ctx, docs, opts)
	if err != nil {
		return nil, fmt.Errorf("saving documents: %w", err)
	}
	return result, nil
}

func loadFlagBinding(cmd *cobra.Command, _ []string) error {
	bindFlags(cmd.Flags(), []flagBinding{
		{flag: "max-bytes-per-request", yamlKey: "bulk.max_bytes_per_request", envKey: "ESDOC_BULK_MAX_BYTES_PER_REQUEST"},
		{flag: "create-indexes", yamlKey: "bulk.create_indexes", envKey: "ESDOC_BULK_CREATE_INDEXES"},
		{flag: "validate", yamlKey: "bulk.validate", envKey: "ESDOC_BULK_VALIDATE"},
		{flag: "refresh", yamlKey: "bulk.refresh_after", envKey: "ESDOC_BULK_REFRESH_AFTER"},
		{flag: "exact-size", yamlKey: "bulk.exact_size", envKey: "ESDOC_BULK_EXACT_SIZE"},
	})
	return nil
}

// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/xataio/esdoc/cmd/config"
	"github.com/xataio/esdoc/pkg/client"
)

var errNoIndexes = errors.New("at least one index name or a schema is required")

var createIndexCmd = &cobra.Command{
	Use:   "create-index",
	Short: "Creates an index with the mapping and settings of a schema definition",
	RunE:  withSignalWatcher(createIndex),
	Example: `
	esdoc create-index --schema places.yaml --elasticsearch-url http://localhost:9200
	esdoc create-index -s places.yaml --index places-2024 --exists-ok -c config.yaml`,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [index...]",
	Short: "Refreshes indexes, making the recent writes visible to searches",
	RunE:  withSignalWatcher(refresh),
	Example: `
	esdoc refresh places archive --opensearch-url http://localhost:9200
	esdoc refresh --schema places.yaml -c config.env`,
}

func createIndex(ctx context.Context, cmd *cobra.Command, _ []string) error {
	schema, err := loadSchema(flagValue(cmd.Flags(), "schema"))
	if err != nil {
		return err
	}
	name := flagValue(cmd.Flags(), "index")
	existsOK := flagEnabled(cmd.Flags(), "exists-ok")

	sp, _ := pterm.DefaultSpinner.WithText("creating index...").Start()
	err = withClient(ctx, "create_index", func(ctx context.Context, _ *config.Config, c *client.Client) error {
		acknowledged, err := c.CreateIndex(ctx, schema, name, existsOK)
		if err != nil {
			return err
		}
		if acknowledged {
			sp.Success("index created")
		} else {
			sp.Warning("index not created: it already exists or the creation was not acknowledged")
		}
		return nil
	})
	if err != nil {
		sp.Fail(err.Error())
	}
	return err
}

func refresh(ctx context.Context, cmd *cobra.Command, args []string) error {
	names := args
	if schemaFile := flagValue(cmd.Flags(), "schema"); schemaFile != "" {
		schema, err := loadSchema(schemaFile)
		if err != nil {
			return err
		}
		if schema.IndexName() != "" {
			names = append(names, schema.IndexName())
		}
	}
	if len(names) == 0 {
		return errNoIndexes
	}

	sp, _ := pterm.DefaultSpinner.WithText("refreshing indexes...").Start()
	err := withClient(ctx, "refresh", func(ctx context.Context, _ *config.Config, c *client.Client) error {
		ok, err := c.RefreshIndex(ctx, names...)
		if err != nil {
			return err
		}
		if ok {
			sp.Success(fmt.Sprintf("%d indexes refreshed", len(names)))
		} else {
			sp.Warning("some shards failed to refresh")
		}
		return nil
	})
	if err != nil {
		sp.Fail(err.Error())
	}
	return err
}

// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xataio/esdoc/internal/json"
)

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Prints the index mapping and settings derived from a schema definition",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := loadSchema(flagValue(cmd.Flags(), "schema"))
		if err != nil {
			return err
		}

		body := schema.Mapping()
		body["settings"] = schema.IndexSettings()
		out, err := json.MarshalIndent(body, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding mapping: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
	Example: `
	esdoc mapping --schema places.yaml`,
}

// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xataio/esdoc/internal/json"
)

type printer interface {
	PrettyPrint() string
}

func print(cmd *cobra.Command, p printer) error {
	str := p.PrettyPrint()
	if flagEnabled(cmd.Flags(), "json") {
		jsonData, err := json.MarshalIndent(p, "", "\t")
		if err != nil {
			return err
		}
		str = string(jsonData)
	}

	fmt.Fprintln(cmd.OutOrStdout(), str)
	return nil
}

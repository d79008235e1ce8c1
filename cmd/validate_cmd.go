// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/xataio/esdoc/pkg/index"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates NDJSON documents against a schema definition",
	RunE: func(cmd *cobra.Command, args []string) error {
		sp, _ := pterm.DefaultSpinner.WithText("validating documents...").Start()

		report, err := func() (*validationReport, error) {
			schema, err := loadSchema(flagValue(cmd.Flags(), "schema"))
			if err != nil {
				return nil, err
			}

			docs, err := readDocumentsFile(flagValue(cmd.Flags(), "file"), schema, "")
			if err != nil {
				return nil, err
			}

			return validateDocuments(docs), nil
		}()
		if err != nil {
			sp.Fail(err.Error())
			return err
		}

		if len(report.Invalid) == 0 {
			sp.Success(fmt.Sprintf("%d documents are valid", report.Documents))
		} else {
			sp.Warning(fmt.Sprintf("%d out of %d documents are invalid", len(report.Invalid), report.Documents))
		}

		if err := print(cmd, report); err != nil {
			return fmt.Errorf("failed to format validation report: %w", err)
		}
		if len(report.Invalid) > 0 {
			return errInvalidDocuments
		}
		return nil
	},
	Example: `
	esdoc validate --schema places.yaml --file places.ndjson
	cat places.ndjson | esdoc validate -s places.yaml -f - --json`,
}

type validationReport struct {
	Documents int               `json:"documents"`
	Invalid   []invalidDocument `json:"invalid,omitempty"`
}

type invalidDocument struct {
	// Line is the 1-based position of the document in the input.
	Line  int    `json:"line"`
	Error string `json:"error"`
}

func validateDocuments(docs []*index.Document) *validationReport {
	report := &validationReport{Documents: len(docs)}
	for i, doc := range docs {
		if err := doc.Validate(); err != nil {
			report.Invalid = append(report.Invalid, invalidDocument{
				Line:  i + 1,
				Error: err.Error(),
			})
		}
	}
	return report
}

func (r *validationReport) PrettyPrint() string {
	if len(r.Invalid) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range r.Invalid {
		fmt.Fprintf(&sb, "document %d: %s\n", d.Line, d.Error)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

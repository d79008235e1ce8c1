// SPDX-License-Identifier: Apache-2.0

// Package progress renders the progress of long running commands.
package progress

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
)

type Bar interface {
	Add(int) error
	Close() error
}

type ProgressBar struct {
	*progressbar.ProgressBar
}

// NewDocumentsBar returns a bar counting the documents written out of total.
func NewDocumentsBar(total int, description string) *ProgressBar {
	return &ProgressBar{
		ProgressBar: progressbar.NewOptions(total,
			progressbar.OptionShowCount(),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionSetWidth(20),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("docs"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetDescription(description),
			progressbar.OptionOnCompletion(func() {
				fmt.Printf("\n") //nolint:forbidigo
			}),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			})),
	}
}

// NoopBar is used when the progress is not rendered.
type NoopBar struct{}

func (NoopBar) Add(int) error { return nil }
func (NoopBar) Close() error  { return nil }

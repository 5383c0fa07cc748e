package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"
)

// Progress counts classified documents on a terminal progress bar.
type Progress struct {
	bar    *progressbar.ProgressBar
	writer io.Writer
	done   atomic.Int64
}

// NewProgress creates a bar for total documents. A hidden bar still counts.
func NewProgress(writer io.Writer, total int, visible bool) *Progress {
	if writer == nil {
		writer = os.Stderr
	}
	p := &Progress{writer: writer}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Classifying documents...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if !visible {
				return
			}
			if _, err := fmt.Fprintln(writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// Add records one finished document.
func (p *Progress) Add() {
	p.done.Add(1)
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Done returns how many documents were recorded.
func (p *Progress) Done() int {
	return int(p.done.Load())
}

// Finish completes the bar, even when the batch stopped early.
func (p *Progress) Finish() {
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}

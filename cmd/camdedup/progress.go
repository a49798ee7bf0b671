package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/CavaJ/ImagingInterview/internal/model"
)

// progressObserver advances a bar once per image that leaves the working set.
type progressObserver struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
}

func newProgressObserver(w io.Writer) *progressObserver {
	return &progressObserver{writer: w}
}

func (p *progressObserver) Notify(ev model.Event) {
	switch ev.Kind {
	case model.EventRunStarted:
		p.bar = progressbar.NewOptions(ev.Count,
			progressbar.OptionSetDescription("Deduplicating"),
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionShowCount(),
		)
	case model.EventGroupStarted:
		if p.bar != nil {
			p.bar.Describe("Camera " + ev.CameraID)
		}
	case model.EventRecordResolved:
		if p.bar != nil {
			_ = p.bar.Add(1)
		}
	case model.EventRunFinished:
		if p.bar != nil {
			_ = p.bar.Finish()
			io.WriteString(p.writer, "\n")
		}
	}
}

func isTerminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

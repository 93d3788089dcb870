package summarizer

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/ideamans/go-l10n"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ConsoleFormatter renders the key figures of a Summary as a rounded
// terminal table.
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new ConsoleFormatter.
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// Format implements Formatter.
func (f *ConsoleFormatter) Format(s *Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(l10n.T("Recording Summary"))
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})

	tw.AppendRow(table.Row{"URL", orDash(s.Page.URL)})
	tw.AppendRow(table.Row{l10n.T("Stopped by"), stopReason(string(s.Session.Reason))})
	tw.AppendRow(table.Row{l10n.T("Frames captured"), humanize.Comma(s.Session.FramesCaptured)})
	tw.AppendRow(table.Row{l10n.T("Encoder frames"), humanize.Comma(int64(s.Session.EncoderFrames))})
	tw.AppendRow(table.Row{l10n.T("Video length"), fmt.Sprintf("%.2f s", s.Session.VideoSeconds)})
	if s.Video.Timemark != "" {
		tw.AppendRow(table.Row{l10n.T("Encoded up to"), s.Video.Timemark})
	}
	if s.Video.Probed {
		tw.AppendSeparator()
		tw.AppendRow(table.Row{l10n.T("File"), s.Video.Path})
		tw.AppendRow(table.Row{l10n.T("File size"), humanize.Bytes(uint64(s.Video.FileSize))})
	}

	return tw.Render()
}

var (
	_ Formatter = (*MarkdownFormatter)(nil)
	_ Formatter = (*ConsoleFormatter)(nil)
)

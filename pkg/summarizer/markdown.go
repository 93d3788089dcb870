package summarizer

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ideamans/go-l10n"
	"github.com/jedib0t/go-pretty/v6/table"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", l10n.T("Recording Summary"))
	fmt.Fprintf(&b, "%s: %s\n\n", l10n.T("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	section(&b, l10n.T("Page"), [][2]string{
		{l10n.T("Title"), orDash(s.Page.Title)},
		{"URL", orDash(s.Page.URL)},
	})

	section(&b, l10n.T("Session"), sessionRows(s))

	section(&b, l10n.T("Settings"), settingsRows(s))

	section(&b, l10n.T("Video"), videoRows(s))

	return b.String()
}

// section writes a heading and a two-column Markdown table.
func section(b *strings.Builder, title string, rows [][2]string) {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{l10n.T("Item"), l10n.T("Value")})
	for _, r := range rows {
		tw.AppendRow(table.Row{r[0], r[1]})
	}
	fmt.Fprintf(b, "## %s\n\n%s\n\n", title, tw.RenderMarkdown())
}

func sessionRows(s *Summary) [][2]string {
	rows := [][2]string{
		{l10n.T("Session ID"), orDash(s.Session.ID)},
		{l10n.T("Stopped by"), stopReason(string(s.Session.Reason))},
		{l10n.T("Elapsed"), fmt.Sprintf("%.2f s", s.Session.ElapsedSeconds)},
		{l10n.T("Frames captured"), humanize.Comma(s.Session.FramesCaptured)},
		{l10n.T("Capture failures"), humanize.Comma(s.Session.CaptureFailures)},
		{l10n.T("Buffer flushes"), humanize.Comma(int64(s.Session.Flushes))},
		{l10n.T("Encoder frames"), humanize.Comma(int64(s.Session.EncoderFrames))},
		{l10n.T("Frames skipped"), humanize.Comma(int64(s.Session.FramesSkipped))},
		{l10n.T("Video length"), fmt.Sprintf("%.2f s", s.Session.VideoSeconds)},
	}
	return rows
}

func settingsRows(s *Summary) [][2]string {
	st := s.Settings
	return [][2]string{
		{l10n.T("Preset"), orDash(st.Preset)},
		{l10n.T("Quality"), orDash(st.Quality)},
		{l10n.T("Engine"), orDash(st.Engine)},
		{l10n.T("Codec"), orDash(st.Codec)},
		{l10n.T("Frame rate"), fmt.Sprintf("%g fps", st.FPS)},
		{l10n.T("Buffer capacity"), fmt.Sprintf("%d", st.BufferCapacity)},
		{l10n.T("Capture format"), orDash(st.CaptureFormat)},
		{l10n.T("Viewport"), fmt.Sprintf("%dx%d", st.ViewportWidth, st.ViewportHeight)},
		{l10n.T("Download speed"), throughput(st.DownloadSpeed)},
		{l10n.T("Upload speed"), throughput(st.UploadSpeed)},
		{l10n.T("CPU throttling"), cpuThrottling(st.CPUThrottling)},
	}
}

func videoRows(s *Summary) [][2]string {
	v := s.Video
	rows := [][2]string{
		{l10n.T("File"), orDash(v.Path)},
		{"CRF", fmt.Sprintf("%d", v.CRF)},
		{l10n.T("Encoded up to"), orDash(v.Timemark)},
		{l10n.T("Encoder input"), humanize.Bytes(uint64(v.InputBytes))},
	}
	if !v.Probed {
		return append(rows, [2]string{l10n.T("Details"), l10n.T("not available for this container")})
	}
	return append(rows,
		[2]string{l10n.T("Frames"), humanize.Comma(int64(v.FrameCount))},
		[2]string{l10n.T("Duration"), fmt.Sprintf("%d ms", v.DurationMs)},
		[2]string{l10n.T("Size"), fmt.Sprintf("%dx%d", v.Width, v.Height)},
		[2]string{l10n.T("Codec"), orDash(v.Codec)},
		[2]string{l10n.T("File size"), humanize.Bytes(uint64(v.FileSize))},
	)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func stopReason(r string) string {
	switch r {
	case "duration":
		return l10n.T("duration limit")
	case "interrupted":
		return l10n.T("interrupted")
	case "encoder":
		return l10n.T("encoder failure")
	case "length":
		return l10n.T("video length limit")
	default:
		return "-"
	}
}

// throughput renders a bytes/sec limit, 0 meaning no limit.
func throughput(bytesPerSec int) string {
	if bytesPerSec <= 0 {
		return l10n.T("unlimited")
	}
	return humanize.Bytes(uint64(bytesPerSec)) + "/s"
}

func cpuThrottling(rate float64) string {
	if rate <= 1 {
		return l10n.T("none")
	}
	return fmt.Sprintf("%.1fx", rate)
}

package ffmpegsink

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Container formats accepted for file output.
const (
	FormatMP4  = "mp4"
	FormatAVI  = "avi"
	FormatMOV  = "mov"
	FormatWEBM = "webm"
)

var supportedFormats = []string{FormatMP4, FormatAVI, FormatMOV, FormatWEBM}

// fragmentedMovFlags lets a non-seekable writer receive a playable MP4.
const fragmentedMovFlags = "+frag_keyframe+separate_moof+omit_tfhd_offset+empty_moov"

// colorConversion maps full-range BT.601 screenshots to limited-range BT.709.
const colorConversion = "scale=in_range=pc:in_color_matrix=bt601:out_range=tv:out_color_matrix=bt709"

// Options configures the ffmpeg invocation.
type Options struct {
	FPS          float64 // Input frame rate; must match the session rate
	Codec        string  // Video codec (default libx264, libvpx for webm)
	Width        int     // Output width; 0 keeps the input size
	Height       int     // Output height; 0 keeps the input size
	AspectRatio  string  // Display aspect ratio (default "4:3")
	Autopad      bool    // Letterbox to Width x Height instead of stretching
	AutopadColor string  // Padding colour (default black)
	CRF          int     // Constant rate factor
	Preset       string  // Encoder preset (default ultrafast)
	PixelFormat  string  // Output pixel format (default yuv420p)
	Bitrate      int     // Target bitrate in kbit/s (default 1000)
	Threads      int     // Encoder threads; 0 uses all CPUs but one

	Metadata      []string      // key=value container metadata
	OutputOptions []string      // Extra raw output arguments
	DurationLimit time.Duration // Caps the output length; zero means no cap

	FFmpegPath string // Overrides discovery when set
}

// DefaultOptions returns the default encoder options.
func DefaultOptions() Options {
	return Options{
		FPS:          25,
		Codec:        "libx264",
		AspectRatio:  "4:3",
		AutopadColor: "black",
		CRF:          23,
		Preset:       "ultrafast",
		PixelFormat:  "yuv420p",
		Bitrate:      1000,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FPS <= 0 {
		o.FPS = d.FPS
	}
	if o.Codec == "" {
		o.Codec = d.Codec
	}
	if o.AspectRatio == "" {
		o.AspectRatio = d.AspectRatio
	}
	if o.AutopadColor == "" {
		o.AutopadColor = d.AutopadColor
	}
	if o.Preset == "" {
		o.Preset = d.Preset
	}
	if o.PixelFormat == "" {
		o.PixelFormat = d.PixelFormat
	}
	if o.Bitrate <= 0 {
		o.Bitrate = d.Bitrate
	}
	if o.Threads <= 0 {
		o.Threads = max(1, runtime.NumCPU()-1)
	}
	return o
}

// Destination is where the encoded video goes: a file or a writer.
type Destination struct {
	Path   string
	Writer io.Writer
}

// ToFile returns a file destination.
func ToFile(path string) Destination {
	return Destination{Path: path}
}

// ToWriter returns a destination receiving fragmented MP4.
func ToWriter(w io.Writer) Destination {
	return Destination{Writer: w}
}

// IsFile reports whether the destination is a file path.
func (d Destination) IsFile() bool {
	return d.Writer == nil
}

// Validate checks that the destination can be encoded to.
func (d Destination) Validate() error {
	if d.Writer != nil {
		return nil
	}
	if d.Path == "" {
		return ErrNoDestination
	}
	_, err := OutputFormat(d.Path)
	return err
}

// OutputFormat returns the container format implied by path's extension.
func OutputFormat(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, f := range supportedFormats {
		if ext == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// BuildArgs returns the ffmpeg arguments for encoding a stream of still
// images read from stdin into dest.
func BuildArgs(opts Options, dest Destination) ([]string, error) {
	if err := dest.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	format := FormatMP4
	if dest.IsFile() {
		format, _ = OutputFormat(dest.Path)
	}

	codec := opts.Codec
	if format == FormatWEBM {
		codec = "libvpx"
	}

	args := []string{
		"-hide_banner",
		"-f", "image2pipe",
		"-r", formatFloat(opts.FPS),
		"-i", "pipe:0",
		"-c:v", codec,
		"-vf", buildFilters(opts),
		"-aspect", opts.AspectRatio,
		"-crf", strconv.Itoa(opts.CRF),
	}
	if codec != "libvpx" {
		args = append(args, "-preset", opts.Preset)
	}

	rate := fmt.Sprintf("%dk", opts.Bitrate)
	args = append(args,
		"-pix_fmt", opts.PixelFormat,
		"-minrate", rate,
		"-maxrate", rate,
		"-bufsize", fmt.Sprintf("%dk", opts.Bitrate*2),
		"-threads", strconv.Itoa(opts.Threads),
		"-loglevel", "error",
		"-colorspace", "bt709",
		"-color_range", "tv",
		"-color_primaries", "bt709",
		"-color_trc", "bt709",
	)

	if format == FormatWEBM {
		args = append(args, "-b:v", rate, "-flags", "+global_header", "-psnr")
	}

	for _, m := range opts.Metadata {
		args = append(args, "-metadata", m)
	}
	args = append(args, opts.OutputOptions...)

	if opts.DurationLimit > 0 {
		args = append(args, "-t", formatFloat(opts.DurationLimit.Seconds()))
	}

	if dest.IsFile() {
		args = append(args, "-progress", "pipe:1", "-nostats", "-y", dest.Path)
	} else {
		args = append(args, "-f", "mp4", "-movflags", fragmentedMovFlags, "pipe:1")
	}
	return args, nil
}

func buildFilters(opts Options) string {
	filters := []string{colorConversion}
	if opts.Width > 0 && opts.Height > 0 {
		if opts.Autopad {
			filters = append(filters,
				fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", opts.Width, opts.Height),
				fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2:%s", opts.Width, opts.Height, opts.AutopadColor),
			)
		} else {
			filters = append(filters, fmt.Sprintf("scale=%d:%d", opts.Width, opts.Height))
		}
	}
	return strings.Join(filters, ",")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

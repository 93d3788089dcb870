package ffmpegsink

import (
	"errors"
	"fmt"

	"github.com/user/pagecast/pkg/ports"
)

var (
	// ErrFFmpegNotFound is returned when no ffmpeg executable can be located.
	ErrFFmpegNotFound = errors.New("ffmpegsink: ffmpeg not found")

	// ErrUnsupportedFormat is returned for output files whose extension is
	// not one of mp4, avi, mov or webm.
	ErrUnsupportedFormat = errors.New("ffmpegsink: file format is not supported")

	// ErrNoDestination is returned when neither a path nor a writer is given.
	ErrNoDestination = errors.New("ffmpegsink: no output destination")

	// ErrNotStarted is returned when writing before Start.
	ErrNotStarted = errors.New("ffmpegsink: encoder not started")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("ffmpegsink: encoder already started")

	// ErrEnded is returned when writing after End or after ffmpeg exited
	// cleanly on its own. It matches ports.ErrEncoderEnded.
	ErrEnded = fmt.Errorf("ffmpegsink: %w", ports.ErrEncoderEnded)

	// ErrEncoderFailed wraps a non-zero ffmpeg exit.
	ErrEncoderFailed = errors.New("ffmpegsink: ffmpeg failed")
)

package ports

// DebugSink abstracts debug output for a recording session.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveRawFrame saves a captured still image in arrival order.
	SaveRawFrame(index int, format ImageFormat, data []byte) error

	// SaveSessionJSON saves the session statistics as JSON.
	SaveSessionJSON(data []byte) error

	// SaveConfigJSON saves the effective recording configuration as JSON.
	SaveConfigJSON(data []byte) error
}

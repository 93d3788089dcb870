package ports

// FileSystem is the disk access used for config files, debug output,
// summaries and the output lock.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces path with data, creating parent directories.
	// Readers never observe a partially written file.
	WriteFile(path string, data []byte) error

	MkdirAll(path string) error

	// Lock claims path for this process until unlock is called. It fails
	// immediately if another recording holds the same path.
	Lock(path string) (unlock func() error, err error)
}

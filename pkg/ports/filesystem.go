package ports

// FileSystem abstracts file system operations used around recordings.
type FileSystem interface {
	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Size returns the size in bytes of a regular file.
	Size(path string) (int64, error)

	// Remove deletes a file or empty directory.
	Remove(path string) error

	// ReadDir lists the regular files in a directory, sorted by name.
	ReadDir(path string) ([]string, error)

	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)
}

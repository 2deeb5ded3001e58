package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// absPath is a variable for filepath.Abs to allow mocking in tests.
var absPath = filepath.Abs

// NotADirectoryError is returned when a check target exists but is not a directory.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("%s is not a directory", e.Path)
}

// ResolveDir returns the absolute form of path after checking that it is an existing directory.
// An empty path means the current working directory.
func ResolveDir(path string) (string, error) {
	if path == "" {
		path = "."
	}

	abs, err := absPath(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", &NotADirectoryError{Path: abs}
	}
	return abs, nil
}

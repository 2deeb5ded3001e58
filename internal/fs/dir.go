package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/andyballingall/gdcheck/internal/check"
)

// ListDir returns the entries of dirPath sorted by name. Symlinks are followed when
// deciding whether an entry is a regular file; a broken symlink is not a file.
func ListDir(dirPath string) ([]check.Entry, error) {
	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	entries := make([]check.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entries = append(entries, check.Entry{
			Name:   de.Name(),
			IsFile: isRegularFile(dirPath, de),
		})
	}
	return entries, nil
}

func isRegularFile(dirPath string, de iofs.DirEntry) bool {
	if de.Type()&iofs.ModeSymlink == 0 {
		return de.Type().IsRegular()
	}
	info, err := os.Stat(filepath.Join(dirPath, de.Name()))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// OSLister implements check.Lister using the real filesystem.
type OSLister struct{}

// NewOSLister creates a new OSLister.
func NewOSLister() *OSLister {
	return &OSLister{}
}

// List returns the entries of dir, sorted by name.
func (l *OSLister) List(dir string) ([]check.Entry, error) {
	return ListDir(dir)
}

package fsys

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// OSFilesystem resolves paths against Root using the real filesystem,
// grounded on the teacher's Preprocessor.ProcessFile (which joined
// baseDir+filename and called os.ReadFile directly); here that behavior is
// pulled out behind the Filesystem interface so the preprocessor itself
// never imports "os". A path that would resolve outside Root is refused
// with an IoError.
type OSFilesystem struct {
	Root string
}

// NewOSFilesystem builds an OSFilesystem rooted at root. An empty root
// means "current directory".
func NewOSFilesystem(root string) *OSFilesystem {
	if root == "" {
		root = "."
	}
	return &OSFilesystem{Root: root}
}

func (fs *OSFilesystem) Open(path string) (string, error) {
	full := filepath.Join(fs.Root, path)
	if rel, err := filepath.Rel(fs.Root, full); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &IoError{Path: path, Err: errors.New("path escapes the filesystem root")}
	}

	content, err := os.ReadFile(full) // #nosec G304 -- path is a caller-provided include path, scoped to Root
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", &IoError{Path: path, Err: err}
	}
	return string(content), nil
}

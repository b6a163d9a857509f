package static

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// validatePathSecurity ensures the requested path is within the root directory.
func validatePathSecurity(root, requestPath string) error {
	cleanPath := filepath.Clean(requestPath)
	cleanRoot := filepath.Clean(root)

	if !strings.HasPrefix(cleanPath, cleanRoot+string(filepath.Separator)) && cleanPath != cleanRoot {
		return fmt.Errorf("invalid path: outside root directory")
	}

	return nil
}

// validateStartup checks that a file or directory exists and is accessible at startup.
func validateStartup(path string, mustBeDir bool) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mustBeDir {
				return fmt.Errorf("directory does not exist: %s", path)
			}
			return fmt.Errorf("file does not exist: %s", path)
		}
		return fmt.Errorf("error accessing path: %w", err)
	}

	if mustBeDir && !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	if !mustBeDir && info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	return nil
}

// neuteredFileSystem wraps http.FileSystem so directories resolve to their
// index.html or not at all.
type neuteredFileSystem struct {
	fs http.FileSystem
}

// openFile opens name, substituting index.html for directories.
// The caller closes the returned file.
func (nfs neuteredFileSystem) openFile(name string) (http.File, fs.FileInfo, error) {
	f, info, err := nfs.stat(name)
	if err != nil {
		return nil, nil, err
	}
	if !info.IsDir() {
		return f, info, nil
	}
	_ = f.Close()

	f, info, err = nfs.stat(path.Join(name, "index.html"))
	if err != nil {
		return nil, nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, nil, fs.ErrNotExist
	}
	return f, info, nil
}

func (nfs neuteredFileSystem) stat(name string) (http.File, fs.FileInfo, error) {
	f, err := nfs.fs.Open(name)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return f, info, nil
}

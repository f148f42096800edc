package host

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem is the filesystem view fact computations use.
type FileSystem interface {
	// ListRegularFiles returns every regular file under root, recursively,
	// in lexical order. Symlinks resolving to regular files are included;
	// symlinked directories are not descended into.
	ListRegularFiles(root string) ([]string, error)

	// ReadFile returns the content of path.
	ReadFile(path string) ([]byte, error)

	// Exists reports whether path exists.
	Exists(path string) bool
}

// OS is the FileSystem backed by the local filesystem.
type OS struct{}

// ListRegularFiles implements FileSystem. A missing or unreadable root is
// an error; subdirectories that cannot be read are skipped.
func (OS) ListRegularFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return walkError(root, path, d, err)
		}
		if d.IsDir() {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			// dangling symlink
			return nil
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ReadFile implements FileSystem.
func (OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists implements FileSystem.
func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// walkError decides whether a failure during the walk of root ends it.
// Only a failure on root itself does.
func walkError(root, path string, d fs.DirEntry, err error) error {
	if path == root {
		return err
	}
	if d != nil && d.IsDir() {
		return fs.SkipDir
	}
	return nil
}

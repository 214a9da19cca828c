// Package filesystem provides a minimal file system abstraction so that
// components touching the data directory can be tested without real IO.
package filesystem

import (
	"io"
	"os"
)

type File interface {
	io.ReadWriteCloser
	WriteString(s string) (int, error)
}

type FileSystem interface {
	Open(name string) (File, error)
	Create(name string) (File, error)
}

// DefaultFileSystem is backed by the os package.
type DefaultFileSystem struct{}

func (DefaultFileSystem) Open(name string) (File, error) {
	return os.Open(name)
}

func (DefaultFileSystem) Create(name string) (File, error) {
	return os.Create(name)
}

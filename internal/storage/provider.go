// Package storage defines the report-directory file-system abstraction.
package storage

import "io"

// NotebookName is the file every report directory must contain.
const NotebookName = "index.ipynb"

// Provider is the interface for report directory operations.
type Provider interface {
	// Root returns the absolute path of the report directory.
	Root() string
	// Notebooks returns the sorted paths (relative to root) of every
	// ???/index.ipynb notebook.
	Notebooks() ([]string, error)
	// Open opens the file at path (relative to root) for reading.
	Open(path string) (io.ReadCloser, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
}

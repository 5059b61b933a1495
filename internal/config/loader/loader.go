// Package loader reads textrope configuration sources into plain maps.
//
// Sources are TOML files and TEXTROPE_ environment variables. Both produce
// nested map[string]any values that the config package merges and decodes.
package loader

import (
	"io"
	"io/fs"
	"os"
)

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	// Returns nil, nil if the source doesn't exist (not an error).
	Load() (map[string]any, error)
}

// ReaderLoader is the interface for loaders that read from io.Reader.
type ReaderLoader interface {
	// LoadFromReader reads configuration from a reader.
	LoadFromReader(r io.Reader) (map[string]any, error)
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// MaxIncludeDepth bounds nested @include directives.
const MaxIncludeDepth = 8

// TOMLLoader loads configuration from TOML files.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader creates a new TOML loader for the given path.
func NewTOMLLoader(path string) *TOMLLoader {
	return NewTOMLLoaderWithFS(DefaultFS(), path)
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fsys FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   fsys,
		path: path,
	}
}

// Path returns the configured path.
func (l *TOMLLoader) Path() string {
	return l.path
}

// Load reads the configured file and any files it includes.
func (l *TOMLLoader) Load() (map[string]any, error) {
	return l.LoadWithIncludes(l.path, MaxIncludeDepth)
}

// LoadFrom reads configuration from a specific path without following
// includes.
func (l *TOMLLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil // File doesn't exist, not an error
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	return parse(path, data)
}

// LoadFromReader reads configuration from an io.Reader.
func (l *TOMLLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return parse("<reader>", data)
}

// parse parses TOML data into a map.
func parse(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, NewParseError(source, err)
	}
	return config, nil
}

// LoadWithIncludes loads a TOML file and processes @include directives.
// Included files are relative to the including file and have lower
// priority than it. maxDepth limits nesting.
func (l *TOMLLoader) LoadWithIncludes(path string, maxDepth int) (map[string]any, error) {
	if maxDepth <= 0 {
		return nil, fmt.Errorf("include depth exceeded for %s", path)
	}

	config, err := l.LoadFrom(path)
	if err != nil || config == nil {
		return config, err
	}

	includes, ok := config["@include"]
	if !ok {
		return config, nil
	}
	delete(config, "@include")

	var includeList []string
	switch v := includes.(type) {
	case string:
		includeList = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: @include must be string or array of strings", path)
			}
			includeList = append(includeList, s)
		}
	default:
		return nil, fmt.Errorf("%s: @include must be string or array of strings, got %T", path, includes)
	}

	baseDir := filepath.Dir(path)
	merged := make(map[string]any)
	for _, inc := range includeList {
		incPath := inc
		if !filepath.IsAbs(inc) {
			incPath = filepath.Join(baseDir, inc)
		}

		incConfig, err := l.LoadWithIncludes(incPath, maxDepth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, err)
		}
		merged = DeepMerge(merged, incConfig)
	}

	// Main file values override include values
	return DeepMerge(merged, config), nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

// NewParseError wraps a go-toml error, keeping its position when the
// error carries one.
func NewParseError(path string, err error) *ParseError {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}

	var de *toml.DecodeError
	if errors.As(err, &de) {
		pe.Line, pe.Column = de.Position()
	}
	var se *toml.StrictMissingError
	if errors.As(err, &se) && len(se.Errors) > 0 {
		pe.Line, pe.Column = se.Errors[0].Position()
		pe.Message = "unknown key " + strings.Join(se.Errors[0].Key(), ".")
	}
	return pe
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DeepMerge recursively merges src into dst.
// Values in src override values in dst.
// Maps are merged recursively; other types are replaced.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}

	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
		} else {
			dst[key] = srcVal
		}
	}

	return dst
}

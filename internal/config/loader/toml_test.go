package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/textrope.toml", `
[rope]
max_leaf_units = 128

[log]
level = "debug"
format = "json"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/textrope.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := getByPath(config, "rope.max_leaf_units"); !ok || val != int64(128) {
		t.Errorf("rope.max_leaf_units = %v (%T), want 128", val, val)
	}
	if val, ok := getByPath(config, "log.format"); !ok || val != "json" {
		t.Errorf("log.format = %v, want 'json'", val)
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/missing.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config != nil {
		t.Errorf("config = %v, want nil", config)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[rope]\nmax_leaf_units = = 3\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	if err == nil {
		t.Fatal("expected parse error")
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %T, want *ParseError", err)
	}
	if pe.Path != "/bad.toml" {
		t.Errorf("Path = %q, want /bad.toml", pe.Path)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Error() = %q, want it to mention line 2", err.Error())
	}
	if pe.Unwrap() == nil {
		t.Error("Unwrap() = nil")
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader(`[history]
max_entries = 10`))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if val, ok := getByPath(config, "history.max_entries"); !ok || val != int64(10) {
		t.Errorf("history.max_entries = %v, want 10", val)
	}
}

func TestTOMLLoader_Includes(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/etc/base.toml", `
[rope]
max_leaf_units = 64

[log]
level = "warn"
`)
	memfs.AddFile("/etc/main.toml", `
"@include" = "base.toml"

[log]
level = "info"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/etc/main.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, ok := config["@include"]; ok {
		t.Error("@include should be removed from the result")
	}
	if val, _ := getByPath(config, "rope.max_leaf_units"); val != int64(64) {
		t.Errorf("rope.max_leaf_units = %v, want 64 from include", val)
	}
	if val, _ := getByPath(config, "log.level"); val != "info" {
		t.Errorf("log.level = %v, want main file value 'info'", val)
	}
}

func TestTOMLLoader_IncludeCycle(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = "b.toml"`)
	memfs.AddFile("/b.toml", `"@include" = ["a.toml"]`)

	_, err := NewTOMLLoaderWithFS(memfs, "/a.toml").Load()
	if err == nil || !strings.Contains(err.Error(), "include depth exceeded") {
		t.Errorf("error = %v, want include depth exceeded", err)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"rope": map[string]any{"max_leaf_units": int64(64)},
		"log":  map[string]any{"level": "warn", "format": "text"},
	}
	src := map[string]any{
		"log":     map[string]any{"level": "debug"},
		"history": map[string]any{"max_entries": int64(5)},
	}

	got := DeepMerge(dst, src)

	if val, _ := getByPath(got, "log.level"); val != "debug" {
		t.Errorf("log.level = %v, want debug", val)
	}
	if val, _ := getByPath(got, "log.format"); val != "text" {
		t.Errorf("log.format = %v, want text", val)
	}
	if val, _ := getByPath(got, "rope.max_leaf_units"); val != int64(64) {
		t.Errorf("rope.max_leaf_units = %v, want 64", val)
	}
	if val, _ := getByPath(got, "history.max_entries"); val != int64(5) {
		t.Errorf("history.max_entries = %v, want 5", val)
	}
}

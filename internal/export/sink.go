package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink delivers a serialized export.
type Sink interface {
	Write(file File) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(file File) error

func (f SinkFunc) Write(file File) error { return f(file) }

// DirSink writes exports into a directory.
type DirSink struct {
	Dir string
	// Path is the location of the last written file.
	Path string
}

func (d *DirSink) Write(file File) error {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, file.Name)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return err
	}
	d.Path = path
	return nil
}

// MemorySink keeps every file it receives.
type MemorySink struct {
	Files []File
}

func (m *MemorySink) Write(file File) error {
	m.Files = append(m.Files, file)
	return nil
}

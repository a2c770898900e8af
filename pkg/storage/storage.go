package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage writes output files below a root directory.
type Storage struct {
	Dir string
}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

func New(dir string) *Storage {
	return &Storage{Dir: dir}
}

// Path resolves a name relative to the root directory.
func (s *Storage) Path(name string) string {
	if s.Dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.Dir, name)
}

// SaveFile writes content to name, creating parent directories.
func (s *Storage) SaveFile(name string, content []byte) (string, error) {
	p := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return "", fmt.Errorf("error creating directory: %w", err)
	}
	if err := os.WriteFile(p, content, 0644); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}
	return p, nil
}

// SaveYAML encodes v as YAML into name.
func (s *Storage) SaveYAML(name string, v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("error marshalling %s: %w", name, err)
	}
	return s.SaveFile(name, data)
}

// SaveJSON encodes v as indented JSON into name.
func (s *Storage) SaveJSON(name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error marshalling %s: %w", name, err)
	}
	return s.SaveFile(name, data)
}

func (s *Storage) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

func (s *Storage) HasFile(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// GetFileStats returns metadata about a file using os.Stat.
func (s *Storage) GetFileStats(name string) (*FileStats, error) {
	info, err := os.Stat(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

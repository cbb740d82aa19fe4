package record

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Encode writes r as a single JSON document.
func Encode(w io.Writer, r *Record) error {
	if r == nil {
		return fmt.Errorf("record: nil record")
	}
	return json.NewEncoder(w).Encode(r)
}

// WriteFile serializes r to path, creating parent directories as needed.
func WriteFile(path string, r *Record) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("record: create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("record: create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, r); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("record: write %s: %w", path, err)
	}
	return f.Close()
}

// Decode reads a record previously written by Encode.
func Decode(r io.Reader) (*Record, error) {
	var out Record
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("record: decode: %w", err)
	}
	return &out, nil
}

// ReadFile loads a record from path.
func ReadFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("record: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}

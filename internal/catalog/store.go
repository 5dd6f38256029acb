package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadExisting reads a previously written catalog. A missing file, invalid
// JSON or a non-array document all yield an empty list; array elements that
// are not JSON objects are skipped. Objects are kept byte-for-byte.
func LoadExisting(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read existing catalog '%s': %w", path, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return []Entry{}, nil
	}

	entries := make([]Entry, 0, len(raw))
	for _, r := range raw {
		if e, ok := fromRaw(r); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// LoadCatalog is LoadExisting for a file that must exist.
func LoadCatalog(path string) ([]Entry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot read catalog '%s': %w", path, err)
	}
	return LoadExisting(path)
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", dir, err)
	}
	return nil
}

// Encode renders entries as an indented JSON array with a trailing newline.
// Stored objects are re-indented but otherwise written as read.
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes entries to path, replacing any existing file in one rename.
func Write(path string, entries []Entry) error {
	if err := EnsureDir(path); err != nil {
		return err
	}
	data, err := Encode(entries)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes to a temp file next to path and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		perm = st.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	_ = tmp.Chmod(perm)
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	committed = true
	return nil
}

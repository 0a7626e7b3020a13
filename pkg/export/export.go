package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/devicelab-dev/locator-finder/pkg/core"
)

// Write encodes records as two-space indented JSON. Non-ASCII text is written
// as is.
func Write(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}

// WriteFile writes records to path, creating parent directories.
func WriteFile(path string, records []Record) error {
	var buf bytes.Buffer
	if err := Write(&buf, records); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Read decodes an export. Input that is not a JSON array of records fails
// with core.ErrMalformedStore; a structurally invalid record fails with
// core.ErrInvalidRecord.
func Read(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, core.ErrMalformedStore.WithCause(err)
	}
	for i := range records {
		if err := records[i].validate(i); err != nil {
			return nil, err
		}
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// ReadFile reads an export from disk. A missing file returns the os error.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		var cerr *core.Error
		if errors.As(err, &cerr) {
			return nil, cerr.WithDetails(map[string]interface{}{"key": path})
		}
		return nil, err
	}
	return records, nil
}

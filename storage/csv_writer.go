package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"influencer-dashboard/models"
)

// WriteCSV writes records with normalized and derived columns to w.
func WriteCSV(w io.Writer, records []*models.Influencer) error {
	extras := extraColumns(records)
	cw := csv.NewWriter(w)

	if err := cw.Write(tableHeader(extras)); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, r := range records {
		cells := tableRow(r, extras)
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = formatCell(c)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSVWriter writes the normalized table to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}
	return &CSVWriter{path: path, file: f}, nil
}

// Write replaces the file contents with records.
func (c *CSVWriter) Write(records []*models.Influencer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.file.Truncate(0); err != nil {
		return fmt.Errorf("csv: truncate %q: %w", c.path, err)
	}
	if _, err := c.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("csv: seek %q: %w", c.path, err)
	}
	return WriteCSV(c.file, records)
}

// Close closes the underlying file.
func (c *CSVWriter) Close() error {
	return c.file.Close()
}

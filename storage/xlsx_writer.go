package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"influencer-dashboard/models"
)

const sheetName = "Influencers"

// BuildWorkbook lays records out on a single sheet with a bold header row.
// The caller owns the returned file and must Close it.
func BuildWorkbook(records []*models.Influencer) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	extras := extraColumns(records)
	header := tableHeader(extras)
	for i, name := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("xlsx: write header: %w", err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(sheetName, "A1", last, bold)
	}

	for rowIdx, r := range records {
		for colIdx, v := range tableRow(r, extras) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("xlsx: write row %d: %w", rowIdx+1, err)
			}
		}
	}

	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), len(records)+1)
		_ = f.AutoFilter(sheetName, "A1:"+last, nil)
	}
	return f, nil
}

// XLSXWriter saves the normalized table as an Excel workbook.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter prepares a writer for path, creating its directory.
func NewXLSXWriter(path string) (*XLSXWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}
	return &XLSXWriter{path: path}, nil
}

// Write replaces the workbook at the writer's path with records.
func (x *XLSXWriter) Write(records []*models.Influencer) error {
	f, err := BuildWorkbook(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}

func (x *XLSXWriter) Close() error { return nil }

// Package export renders ranked screening results as spreadsheet rows.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"resume-screener/internal/shared/storage/object"
)

const (
	// Key is where the latest export is stored. Each run overwrites it.
	Key = "exports/screened_candidates.xlsx"
	// SheetName is the worksheet holding the ranked candidates.
	SheetName = "Screened Candidates"
	// ContentType of the rendered workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrNoExport is returned when no run has written an export yet.
var ErrNoExport = errors.New("no export available")

// Header is the first row of every export.
var Header = []string{"Name", "Email", "Score"}

// Result is one ranked candidate as it appears in the export.
type Result struct {
	Name  string
	Email string
	Score float64
}

// Rows returns the header followed by one row per result, in input order.
func Rows(results []Result) [][]any {
	rows := make([][]any, 0, len(results)+1)
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	rows = append(rows, header)
	for _, r := range results {
		rows = append(rows, []any{r.Name, r.Email, r.Score})
	}
	return rows
}

// WriteXLSX renders results into a workbook and writes it to w.
func WriteXLSX(w io.Writer, results []Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	_ = f.SetColWidth(SheetName, "A", "B", 30)
	_ = f.SetColWidth(SheetName, "C", "C", 10)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, row := range Rows(results) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(SheetName, "A1", "C1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	_ = f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return f.Write(w)
}

// Save renders results and overwrites the export at Key.
func Save(ctx context.Context, store object.ObjectStore, results []Result) (string, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, results); err != nil {
		return "", err
	}
	if _, err := store.SaveWithKey(ctx, Key, ContentType, &buf); err != nil {
		return "", fmt.Errorf("store export: %w", err)
	}
	return Key, nil
}

// Remove deletes the stored export so an older run's workbook is not served.
func Remove(ctx context.Context, store object.ObjectStore) error {
	if err := store.Delete(ctx, Key); err != nil {
		return fmt.Errorf("remove export: %w", err)
	}
	return nil
}

// Open returns the latest stored export.
func Open(ctx context.Context, store object.ObjectStore) (io.ReadCloser, error) {
	rc, err := store.Open(ctx, Key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, ErrNoExport
		}
		return nil, err
	}
	return rc, nil
}

package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/xuri/excelize/v2"

	localstore "resume-screener/internal/shared/storage/object/local"
)

func TestRowsKeepsInputOrder(t *testing.T) {
	rows := Rows([]Result{
		{Name: "Jane Doe", Email: "jane@example.com", Score: 50},
		{Name: "John Roe", Email: "john@example.com", Score: 16.67},
	})
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Name" || rows[0][1] != "Email" || rows[0][2] != "Score" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "Jane Doe" || rows[2][2] != 16.67 {
		t.Fatalf("unexpected rows %v", rows[1:])
	}
}

func TestRowsEmpty(t *testing.T) {
	rows := Rows(nil)
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf, []Result{
		{Name: "Jane Doe", Email: "jane@example.com", Score: 50},
		{Name: "John Roe", Email: "", Score: 16.67},
	})
	if err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	want := [][]string{
		{"Name", "Email", "Score"},
		{"Jane Doe", "jane@example.com", "50"},
		{"John Roe", "", "16.67"},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(rows), rows)
	}
	for i := range want {
		for j := range want[i] {
			got := ""
			if j < len(rows[i]) {
				got = rows[i][j]
			}
			if got != want[i][j] {
				t.Fatalf("cell %d,%d: expected %q, got %q", i, j, want[i][j], got)
			}
		}
	}
}

func TestSaveOverwritesAndOpen(t *testing.T) {
	store := localstore.New(t.TempDir())
	ctx := context.Background()

	if _, err := Open(ctx, store); !errors.Is(err, ErrNoExport) {
		t.Fatalf("expected ErrNoExport, got %v", err)
	}
	if _, err := Save(ctx, store, []Result{{Name: "A", Score: 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	key, err := Save(ctx, store, []Result{{Name: "B", Score: 2}, {Name: "C", Score: 1}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if key != Key {
		t.Fatalf("expected key %s, got %s", Key, key)
	}

	rc, err := Open(ctx, store)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 || rows[1][0] != "B" {
		t.Fatalf("expected the second export, got %v", rows)
	}
}

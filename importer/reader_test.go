package importer

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeUTF16LEFile creates a temporary UTF-16LE file with BOM from the given
// UTF-8 content string. Returns the path to the file.
func writeUTF16LEFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)

	runes := []rune(content)
	buf := make([]byte, 0, 2+len(runes)*2)
	// BOM (little-endian)
	buf = append(buf, 0xFF, 0xFE)
	for _, r := range runes {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(r))
		buf = append(buf, b[:]...)
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCSVReader_UTF8(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "day.csv", "ID,Start,Duration\n1,09:00,60\n\n2,10:30\n")
	records, err := (&CSVReader{}).Read(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Get("start") != "09:00" || records[0].RowNumber != 2 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Get("duration") != "" || records[1].RowNumber != 4 {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestCSVReader_UTF16TabSeparated(t *testing.T) {
	t.Parallel()

	content := "id\tstart\tduration\tNotiz\n" +
		"1\t08:30\t90\tÜbergabe\n" +
		"2\t10:15\t105\tPlanung\n"
	path := writeUTF16LEFile(t, t.TempDir(), "day.tsv", content)

	records, err := (&CSVReader{Comma: '\t'}).Read(path)
	if err != nil {
		t.Fatalf("read tsv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if got := records[0].Get("Notiz"); got != "Übergabe" {
		t.Fatalf("unexpected decoded value %q", got)
	}
	if got := records[1].Get("duration"); got != "105" {
		t.Fatalf("unexpected duration %q", got)
	}
}

func TestJSONReader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "input.json", `[
  {"id": 1, "start": "09:00", "duration": 60},
  {"id": "b", "start": "10:30", "duration": 30, "note": null}
]`)

	records, err := (&JSONReader{}).Read(path)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Get("id") != "1" || records[0].Get("duration") != "60" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Get("note") != "" || records[1].RowNumber != 2 {
		t.Fatalf("unexpected second record: %+v", records[1])
	}

	wrapped := writeFile(t, dir, "wrapped.json", `{"entries": [{"id": "x", "start": "11:00", "duration": 5}]}`)
	records, err = (&JSONReader{}).Read(wrapped)
	if err != nil || len(records) != 1 {
		t.Fatalf("expected 1 wrapped record, got %d (err=%v)", len(records), err)
	}

	nested := writeFile(t, dir, "nested.json", `[{"id": "x", "start": {"h": 9}}]`)
	if _, err := (&JSONReader{}).Read(nested); err == nil {
		t.Fatalf("expected error for nested value")
	}
}

func TestYAMLReader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "day.yaml", `entries:
  - id: 017
    start: 09:00
    duration: 60
  - id: b
    start: "10:30"
    duration: 30
    note: ~
`)

	records, err := (&YAMLReader{}).Read(path)
	if err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Get("id") != "017" || records[0].Get("start") != "09:00" {
		t.Fatalf("expected source text to be kept, got %+v", records[0])
	}
	if records[1].Get("note") != "" {
		t.Fatalf("expected null to read as empty, got %q", records[1].Get("note"))
	}

	list := writeFile(t, dir, "list.yml", "- {id: a, start: \"08:00\", duration: 10}\n")
	records, err = (&YAMLReader{}).Read(list)
	if err != nil || len(records) != 1 {
		t.Fatalf("expected 1 record from list, got %d (err=%v)", len(records), err)
	}

	scalar := writeFile(t, dir, "scalar.yaml", "just text\n")
	if _, err := (&YAMLReader{}).Read(scalar); err == nil {
		t.Fatalf("expected error for scalar document")
	}
}

func TestExcelReader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "day.xlsx")
	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	rows := [][]any{
		{"ID", "Start", "Duration"},
		{"1", "09:00", 60},
		{},
		{"2", "10:30", 30},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if len(row) == 0 {
			continue
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := file.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = file.Close()

	records, err := (&ExcelReader{}).Read(path)
	if err != nil {
		t.Fatalf("read excel: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].Get("start") != "10:30" || records[1].RowNumber != 4 {
		t.Fatalf("unexpected record: %+v", records[1])
	}
}

func TestReaderForFormat(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"csv", "TSV", "excel", "xlsx", "json", "yml"} {
		if _, err := ReaderForFormat(format); err != nil {
			t.Fatalf("format %q: %v", format, err)
		}
	}
	if _, err := ReaderForFormat("xml"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

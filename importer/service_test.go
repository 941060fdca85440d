package importer

import (
	"path/filepath"
	"strings"
	"testing"

	"daytiles/config"
)

func TestRun_MixedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	csvPath := writeFile(t, dir, "day.csv", "id,start,duration\n1,09:00,60\n2,,30\n3,10:00,15\n")
	jsonPath := writeFile(t, dir, "more.json", `[{"id": 4, "start": "11:00", "duration": 20}]`)

	result, err := Run([]string{csvPath, jsonPath}, "", &GenericMapper{}, config.Config{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.FilesProcessed != 2 || result.RowsRead != 4 || result.RowsMapped != 3 || result.RowsSkipped != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.Entries[2].Entry.ID != "4" || result.Entries[2].SourceFile != jsonPath {
		t.Fatalf("unexpected last entry: %+v", result.Entries[2])
	}
}

func TestRun_UsesTemplateMatchedRule(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "rooms-march.txt", "id,start,end\nr1,09:00,09:45\n")
	cfg := config.Config{Rules: []config.Rule{
		{Name: "rooms", Mapper: "span", FileTemplate: "rooms-*.txt", Format: "csv"},
	}}

	result, err := Run([]string{path}, "", nil, cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Entries) != 1 || result.Entries[0].Entry.Duration != 45 {
		t.Fatalf("unexpected entries: %+v", result.Entries)
	}
}

func TestRunSources_MatchesRuleOnDisplayName(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "upload-1031667566.tmp", "id,start,end\ns1,08:00,12:30\n")
	cfg := config.Config{Rules: []config.Rule{
		{Name: "shifts", Mapper: "span", FileTemplate: "shifts.csv"},
	}}

	result, err := RunSources([]Source{{Path: path, Name: "shifts.csv"}}, "", nil, cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Entries) != 1 || result.Entries[0].Entry.Duration != 270 {
		t.Fatalf("unexpected entries: %+v", result.Entries)
	}
	if result.Entries[0].SourceFile != "shifts.csv" {
		t.Fatalf("expected display name as source file, got %q", result.Entries[0].SourceFile)
	}

	bad := writeFile(t, t.TempDir(), "upload-42.tmp", "id,start,end\ns1,12:00,08:00\n")
	_, err = RunSources([]Source{{Path: bad, Name: "shifts.csv"}}, "", nil, cfg)
	if err == nil || !strings.HasPrefix(err.Error(), "shifts.csv: ") {
		t.Fatalf("expected error prefixed with display name, got %v", err)
	}
}

func TestRun_StopsOnMappingError(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "bad.csv", "id,start,duration\n1,9h,60\n")
	if _, err := Run([]string{path}, "", nil, config.Config{}); err == nil {
		t.Fatalf("expected mapping error")
	}
}

func TestInferFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"a.csv":  "csv",
		"a.XLSX": "excel",
		"a.json": "json",
		"a.yml":  "yaml",
		"a.tsv":  "tsv",
	}
	for path, want := range tests {
		got, err := inferFormat(filepath.Join("/tmp", path), "")
		if err != nil {
			t.Fatalf("infer %q: %v", path, err)
		}
		if got != want {
			t.Fatalf("infer %q: want %q, got %q", path, want, got)
		}
	}

	if got, _ := inferFormat("a.txt", "JSON"); got != "json" {
		t.Fatalf("expected explicit format to win, got %q", got)
	}
	if _, err := inferFormat("a.pdf", ""); err == nil {
		t.Fatalf("expected error for unknown extension")
	}
}

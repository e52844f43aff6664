package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pavelanni/gradesheet/internal/model"
	"github.com/pavelanni/gradesheet/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestImportConfigurations(t *testing.T) {
	db := newTestStore(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "final.yaml", "tasks:\n  - subtasks:\n      - points: 3\n")

	if err := importConfigurations(db, []string{path}); err != nil {
		t.Fatalf("importConfigurations: %v", err)
	}
	cfg, err := db.GetConfiguration("final")
	if err != nil {
		t.Fatalf("GetConfiguration: %v", err)
	}
	if cfg == nil || cfg.TotalPoints() != 3 {
		t.Fatalf("expected imported configuration with 3 points, got %+v", cfg)
	}

	// An unchanged file is skipped even if the stored copy was removed.
	if _, err := db.DeleteConfiguration("final"); err != nil {
		t.Fatalf("DeleteConfiguration: %v", err)
	}
	if err := importConfigurations(db, []string{path}); err != nil {
		t.Fatalf("second import: %v", err)
	}
	if cfg, _ := db.GetConfiguration("final"); cfg != nil {
		t.Error("expected unchanged file to be skipped")
	}

	// A changed file is imported again.
	writeFile(t, dir, "final.yaml", "tasks:\n  - subtasks:\n      - points: 7\n")
	if err := importConfigurations(db, []string{path}); err != nil {
		t.Fatalf("third import: %v", err)
	}
	cfg, _ = db.GetConfiguration("final")
	if cfg == nil || cfg.TotalPoints() != 7 {
		t.Errorf("expected re-imported configuration with 7 points, got %+v", cfg)
	}
}

func TestImportConfigurationsInvalid(t *testing.T) {
	db := newTestStore(t)
	path := writeFile(t, t.TempDir(), "bad.yaml", "tasks: []\n")
	if err := importConfigurations(db, []string{path}); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadConfiguration(t *testing.T) {
	db := newTestStore(t)

	cfg, err := loadConfiguration(nil, "", "")
	if err != nil {
		t.Fatalf("loadConfiguration default: %v", err)
	}
	if cfg.TotalPoints() != 8 {
		t.Errorf("expected default 8 points, got %d", cfg.TotalPoints())
	}

	if _, err := loadConfiguration(nil, "", "exam"); err == nil {
		t.Error("expected error for --config-name without database")
	}
	if _, err := loadConfiguration(db, "", "exam"); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for unknown name, got %v", err)
	}

	stored := model.DefaultConfiguration()
	stored.AddTask()
	if err := db.SaveConfiguration("exam", stored); err != nil {
		t.Fatalf("SaveConfiguration: %v", err)
	}
	cfg, err = loadConfiguration(db, "", "exam")
	if err != nil {
		t.Fatalf("loadConfiguration by name: %v", err)
	}
	if cfg.TotalPoints() != 16 {
		t.Errorf("expected 16 points, got %d", cfg.TotalPoints())
	}
}

func TestConfigName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"configs/final.yaml", "final"},
		{"midterm.yml", "midterm"},
		{"/etc/gradesheet/exam", "exam"},
	}
	for _, tt := range tests {
		if got := configName(tt.path); got != tt.want {
			t.Errorf("configName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")
	if err := writeOutput(path, []byte("workbook")); err != nil {
		t.Fatalf("writeOutput: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "workbook" {
		t.Errorf("expected 'workbook', got %q", got)
	}

	if err := writeOutput(filepath.Join(dir, "missing", "out.xlsx"), []byte("x")); err == nil {
		t.Error("expected error for missing directory")
	}
	if err := writeOutput(dir, []byte("x")); err == nil {
		t.Error("expected error when the path is a directory")
	}
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	appI18n "github.com/pavelanni/gradesheet/internal/i18n"
	"github.com/pavelanni/gradesheet/internal/model"
	"github.com/pavelanni/gradesheet/internal/partition"
	"github.com/pavelanni/gradesheet/internal/plan"
	"github.com/pavelanni/gradesheet/internal/render"
	"github.com/pavelanni/gradesheet/internal/roster"
	"github.com/pavelanni/gradesheet/internal/store"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a gradesheet workbook from a student list",
		RunE:  runGenerate,
	}
	f := cmd.Flags()
	f.StringP("roster", "r", "", "Student list (.xlsx or .csv: Matr-Nr, Nachname, Vorname) (required)")
	f.StringP("config", "c", "", "Task configuration YAML file (default: 1 task with 2 subtasks of 4 points)")
	f.String("config-name", "", "Name of a configuration stored in the database")
	f.String("db", "", "SQLite database path; when set, the generation is recorded")
	f.StringP("term", "t", "", "Term label, e.g. \"WiSe 25/26\"")
	f.StringP("date", "d", "", "Exam date in YYYY-MM-DD format")
	f.IntP("capacity", "n", model.DefaultFolderCapacity, "Students per folder")
	f.StringP("lang", "l", "en", "Language of the sheet labels (en, de)")
	f.StringP("output", "o", "", "Output file path (- for stdout; default derived from the term)")
	addLogFlags(f)

	_ = cmd.MarkFlagRequired("roster")

	return cmd
}

func templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an example student list",
		RunE:  runTemplate,
	}
	f := cmd.Flags()
	f.StringP("output", "o", roster.TemplateFileName, "Output file path (- for stdout)")
	addLogFlags(f)
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	var db *store.Store
	if path := v.GetString("db"); path != "" {
		var err error
		db, err = store.New(path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
	}

	students, err := loadRoster(v.GetString("roster"))
	if err != nil {
		return err
	}
	cfg, err := loadConfiguration(db, v.GetString("config"), v.GetString("config-name"))
	if err != nil {
		return err
	}
	date, err := model.ParseExamDate(v.GetString("date"))
	if err != nil {
		return err
	}
	info := model.ExamInfo{
		Term:           v.GetString("term"),
		Date:           date,
		FolderCapacity: v.GetInt("capacity"),
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	ctx := appI18n.WithLocalizer(context.Background(), appI18n.NewLocalizer(lang))
	labels := appI18n.SheetLabels(ctx)

	plans, err := plan.BuildWorkbook(cfg, students, info, labels)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := render.Write(&buf, plans); err != nil {
		return err
	}

	out := v.GetString("output")
	if out == "" {
		out = plan.FileName(labels.FilePrefix, info.Term)
	}
	if err := writeOutput(out, buf.Bytes()); err != nil {
		return err
	}

	summary := partition.Summarize(len(students), info.FolderCapacity)
	slog.Info("generated gradesheet",
		"output", out,
		"students", summary.Students,
		"folders", summary.Folders,
		"capacity", summary.Capacity,
		"last_folder", summary.LastSize,
		"sheets", summary.Sheets,
		"total_points", cfg.TotalPoints(),
	)

	if db != nil {
		gen, err := db.RecordGeneration(model.Generation{
			Term:           info.Term,
			ExamDate:       info.Date,
			Students:       summary.Students,
			Folders:        summary.Folders,
			FolderCapacity: summary.Capacity,
			TotalPoints:    cfg.TotalPoints(),
			FileName:       out,
		})
		if err != nil {
			return fmt.Errorf("record generation: %w", err)
		}
		if err := db.SetExamInfo(info); err != nil {
			return fmt.Errorf("store exam settings: %w", err)
		}
		slog.Debug("recorded generation", "id", gen.ID)
	}
	return nil
}

func loadRoster(path string) ([]model.StudentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open student list: %w", err)
	}
	defer f.Close()
	return roster.Load(f, path)
}

// loadConfiguration reads the task configuration from a file, from the
// database by name, or falls back to the default configuration.
func loadConfiguration(db *store.Store, path, name string) (model.Configuration, error) {
	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return model.Configuration{}, fmt.Errorf("read configuration: %w", err)
		}
		return model.ParseConfiguration(data)
	case name != "":
		if db == nil {
			return model.Configuration{}, fmt.Errorf("--config-name requires --db")
		}
		cfg, err := db.GetConfiguration(name)
		if err != nil {
			return model.Configuration{}, err
		}
		if cfg == nil {
			return model.Configuration{}, fmt.Errorf("%w: unknown configuration %q", model.ErrConfiguration, name)
		}
		return *cfg, nil
	default:
		return model.DefaultConfiguration(), nil
	}
}

func runTemplate(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	var buf bytes.Buffer
	if err := roster.WriteTemplate(&buf); err != nil {
		return err
	}
	out := v.GetString("output")
	if err := writeOutput(out, buf.Bytes()); err != nil {
		return err
	}
	slog.Info("wrote student list template", "output", out)
	return nil
}

// writeOutput writes data to path, or to stdout for "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

// Package roster reads student lists from spreadsheet or CSV uploads and
// produces the blank roster template.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pavelanni/gradesheet/internal/model"
)

// MinColumns is the number of columns a roster must provide:
// matriculation id, last name, first name.
const MinColumns = 3

// Load reads a roster. The format is chosen by the file extension of name
// (.xlsx or .csv). The first row is a header; only the first three columns
// are used and rows empty in all of them are dropped.
func Load(r io.Reader, name string) ([]model.StudentRecord, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return nil, fmt.Errorf("%w: unsupported roster format %q", model.ErrValidation, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read roster %s: %w", model.ErrValidation, name, err)
	}
	return parseRows(rows)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

func parseRows(rows [][]string) ([]model.StudentRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: roster is empty", model.ErrValidation)
	}
	if width := len(rows[0]); width < MinColumns {
		return nil, fmt.Errorf("%w: roster has %d columns, need at least %d (matriculation no., last name, first name)",
			model.ErrValidation, width, MinColumns)
	}

	var students []model.StudentRecord
	for _, row := range rows[1:] {
		s := model.StudentRecord{
			MatriculationID: field(row, 0),
			LastName:        field(row, 1),
			FirstName:       field(row, 2),
		}
		if s == (model.StudentRecord{}) {
			continue
		}
		students = append(students, s)
	}
	if len(students) == 0 {
		return nil, fmt.Errorf("%w: roster has no students", model.ErrValidation)
	}
	return students, nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

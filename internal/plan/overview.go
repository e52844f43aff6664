package plan

import (
	"github.com/pavelanni/gradesheet/internal/model"
	"github.com/pavelanni/gradesheet/internal/partition"
)

var overviewWidths = [6]float64{8, 16, 14, 18, 20, 20}

// BuildOverview lays out the overview sheet: one row per student in roster
// order with folder number, slot, exam code and identity.
func BuildOverview(students []model.StudentRecord, capacity int, labels Labels) (Plan, error) {
	folders, err := partition.Partition(students, capacity)
	if err != nil {
		return Plan{}, err
	}

	p := newPlan(labels.OverviewSheet)
	for i, h := range labels.OverviewHeaders {
		p.Header = append(p.Header, Cell{Col: i + 1, Row: 1, Value: h, Style: StyleHeader})
		p.ColumnWidths[i+1] = overviewWidths[i]
	}

	row := 2
	for _, f := range folders {
		for slot, s := range f.Students {
			p.Rows = append(p.Rows, Row{Index: row, Cells: []Cell{
				{Col: 1, Row: row, Value: f.Number, Style: StyleData},
				{Col: 2, Row: row, Value: slot, Style: StyleData},
				{Col: 3, Row: row, Value: f.ExamCode(slot), Style: StyleData},
				{Col: 4, Row: row, Value: s.MatriculationID, Style: StyleData},
				{Col: 5, Row: row, Value: s.LastName, Style: StyleData},
				{Col: 6, Row: row, Value: s.FirstName, Style: StyleData},
			}})
			row++
		}
	}
	return p, nil
}

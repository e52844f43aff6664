package plan

import (
	"fmt"
	"strings"

	"github.com/pavelanni/gradesheet/internal/formula"
	"github.com/pavelanni/gradesheet/internal/layout"
	"github.com/pavelanni/gradesheet/internal/model"
)

// Fixed rows of a folder sheet.
const (
	TitleRow        = 1
	LabelRow        = 2
	DescriptionRow  = 3
	HeaderRow       = 4
	MaxPointsRow    = 5
	AverageRow      = 6
	FirstStudentRow = 7
)

var (
	identityWidths = [layout.IdentityColumns]float64{8, 5.5, 8, 18, 20, 20}
	headerHeights  = map[int]float64{
		TitleRow:       26,
		LabelRow:       30,
		DescriptionRow: 148,
		HeaderRow:      21,
		MaxPointsRow:   16,
		AverageRow:     17,
	}
)

const (
	summaryWidth  = 5
	pointWidth    = 4.5
	studentHeight = 16
)

// BuildFolder lays out the grading sheet of one folder. The layout must
// have been allocated from cfg; it is shared by all folders of a run.
func BuildFolder(cfg model.Configuration, l *layout.Layout, folder model.Folder, info model.ExamInfo, labels Labels) (Plan, error) {
	if folder.Len() == 0 {
		return Plan{}, fmt.Errorf("%w: folder %d has no students", model.ErrConfiguration, folder.Number)
	}
	if err := checkLayout(cfg, l); err != nil {
		return Plan{}, err
	}

	b := &folderBuilder{
		cfg:     cfg,
		l:       l,
		folder:  folder,
		info:    info,
		labels:  labels,
		p:       newPlan(fmt.Sprintf("%s %d", labels.FolderSheet, folder.Number)),
		lastRow: FirstStudentRow + folder.Len() - 1,
	}
	steps := []func() error{
		b.titleRow,
		b.labelRow,
		b.descriptionRow,
		b.headerRow,
		b.maxPointsRow,
		b.averageRow,
		b.studentRows,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return Plan{}, err
		}
	}
	b.dimensions()
	b.outlines()
	return b.p, nil
}

// checkLayout re-validates the configuration and makes sure l was
// allocated from it.
func checkLayout(cfg model.Configuration, l *layout.Layout) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if l == nil || len(l.Tasks) != len(cfg.Tasks) {
		return fmt.Errorf("%w: layout does not match configuration", model.ErrConfiguration)
	}
	for ti, t := range cfg.Tasks {
		if len(l.Tasks[ti].Subtasks) != len(t.Subtasks) {
			return fmt.Errorf("%w: layout does not match task %d", model.ErrConfiguration, ti+1)
		}
		for si, s := range t.Subtasks {
			if l.Tasks[ti].Subtasks[si].PointCount != s.Points() {
				return fmt.Errorf("%w: layout does not match subtask %d.%d", model.ErrConfiguration, ti+1, si+1)
			}
		}
	}
	return nil
}

type folderBuilder struct {
	cfg     model.Configuration
	l       *layout.Layout
	folder  model.Folder
	info    model.ExamInfo
	labels  Labels
	p       Plan
	lastRow int
}

func (b *folderBuilder) header(col, row int, value any, style Style) {
	b.p.Header = append(b.p.Header, Cell{Col: col, Row: row, Value: value, Style: style})
}

func (b *folderBuilder) headerFormula(col, row int, f formula.Expression, style Style) {
	b.p.Header = append(b.p.Header, Cell{Col: col, Row: row, Formula: f, Style: style})
}

func (b *folderBuilder) merge(fromCol, fromRow, toCol, toRow int) {
	b.p.Merges = append(b.p.Merges, Region{FromCol: fromCol, FromRow: fromRow, ToCol: toCol, ToRow: toRow})
}

func (b *folderBuilder) titleRow() error {
	b.merge(1, TitleRow, layout.IdentityColumns, TitleRow)
	b.header(1, TitleRow, b.info.Term, StyleTitle)

	for _, tc := range b.l.Tasks {
		b.merge(tc.Summary, TitleRow, tc.BlockEnd(), LabelRow)
		b.header(tc.Summary, TitleRow, b.labels.Sum, StyleTitle)
	}
	return nil
}

func (b *folderBuilder) labelRow() error {
	b.merge(1, LabelRow, 2, LabelRow)
	b.header(1, LabelRow, b.labels.Date, StyleTitleRight)
	b.merge(3, LabelRow, 4, LabelRow)
	if b.info.Date.IsZero() {
		b.header(3, LabelRow, nil, StyleDate)
	} else {
		b.header(3, LabelRow, b.info.Date, StyleDate)
	}
	b.header(5, LabelRow, b.labels.Folder, StyleTitle)
	b.header(6, LabelRow, b.folder.Number, StyleTitle)

	for ti, tc := range b.l.Tasks {
		for si, s := range tc.Subtasks {
			if s.PointCount > 1 {
				b.merge(s.PointStart, LabelRow, s.PointEnd(), LabelRow)
			}
			b.header(s.PointStart, LabelRow, layout.SubtaskRef{Task: ti, Subtask: si}.Label(), StyleTitle)
		}
	}
	return nil
}

func (b *folderBuilder) descriptionRow() error {
	for ti, tc := range b.l.Tasks {
		labels := make([]string, len(tc.Subtasks))
		for si := range tc.Subtasks {
			labels[si] = layout.SubtaskRef{Task: ti, Subtask: si}.Label()
		}
		b.header(tc.Summary, DescriptionRow, strings.Join(labels, " + "), StyleDescription)

		for si, s := range tc.Subtasks {
			b.header(s.Summary, DescriptionRow, labels[si], StyleDescription)

			sub := b.cfg.Tasks[ti].Subtasks[si]
			for p := range s.PointCount {
				b.header(s.Point(p), DescriptionRow, sub.Description(p), StyleDescription)
			}
		}
	}
	return nil
}

func (b *folderBuilder) headerRow() error {
	for i, h := range b.labels.FolderHeaders {
		b.header(i+1, HeaderRow, h, StyleHeader)
	}
	for _, tc := range b.l.Tasks {
		b.header(tc.Summary, HeaderRow, b.labels.TaskSummary, StyleHeader)
		for _, s := range tc.Subtasks {
			b.header(s.Summary, HeaderRow, b.labels.SubtaskSummary, StyleHeader)
			for p := range s.PointCount {
				b.header(s.Point(p), HeaderRow, layout.PointLabel(p), StylePointFill)
			}
		}
	}
	return nil
}

// summaryFormulas returns the task and subtask sums of one row.
func (b *folderBuilder) summaryFormulas(row int, style Style) ([]Cell, error) {
	var cells []Cell
	for ti, tc := range b.l.Tasks {
		f, err := formula.TaskSum(b.l, ti, row)
		if err != nil {
			return nil, err
		}
		cells = append(cells, Cell{Col: tc.Summary, Row: row, Formula: f, Style: style})
		for si, s := range tc.Subtasks {
			f, err := formula.SubtaskSum(b.l, layout.SubtaskRef{Task: ti, Subtask: si}, row)
			if err != nil {
				return nil, err
			}
			cells = append(cells, Cell{Col: s.Summary, Row: row, Formula: f, Style: style})
		}
	}
	return cells, nil
}

func (b *folderBuilder) rowLabel(row int, text string) {
	b.merge(1, row, layout.IdentityColumns, row)
	b.header(1, row, text, StyleLabel)
	for c := 2; c <= layout.IdentityColumns; c++ {
		b.header(c, row, nil, StyleLabel)
	}
}

func (b *folderBuilder) maxPointsRow() error {
	b.rowLabel(MaxPointsRow, b.labels.MaxPoints)
	sums, err := b.summaryFormulas(MaxPointsRow, StyleSummaryFill)
	if err != nil {
		return err
	}
	b.p.Header = append(b.p.Header, sums...)
	for _, col := range b.l.PointColumns() {
		b.header(col, MaxPointsRow, formula.MaxPointValue, StyleSummaryFill)
	}
	return nil
}

func (b *folderBuilder) averageRow() error {
	b.rowLabel(AverageRow, b.labels.AveragePoints)
	sums, err := b.summaryFormulas(AverageRow, StyleAverage)
	if err != nil {
		return err
	}
	b.p.Header = append(b.p.Header, sums...)
	for _, col := range b.l.PointColumns() {
		f, err := formula.ColumnAverage(col, FirstStudentRow, b.lastRow)
		if err != nil {
			return err
		}
		b.headerFormula(col, AverageRow, f, StyleAverage)
	}
	return nil
}

func (b *folderBuilder) studentRows() error {
	points := b.l.PointColumns()
	for slot, s := range b.folder.Students {
		row := FirstStudentRow + slot
		r := Row{Index: row, Cells: []Cell{
			{Col: 1, Row: row, Value: b.folder.Number, Style: StyleData},
			{Col: 2, Row: row, Value: slot, Style: StyleData},
			{Col: 3, Row: row, Value: b.folder.ExamCode(slot), Style: StyleData},
			{Col: 4, Row: row, Value: s.MatriculationID, Style: StyleData},
			{Col: 5, Row: row, Value: s.LastName, Style: StyleData},
			{Col: 6, Row: row, Value: s.FirstName, Style: StyleData},
		}}
		sums, err := b.summaryFormulas(row, StyleSummaryFill)
		if err != nil {
			return err
		}
		r.Cells = append(r.Cells, sums...)
		// Point cells stay blank for manual entry.
		for _, col := range points {
			r.Cells = append(r.Cells, Cell{Col: col, Row: row, Style: StyleData})
		}
		b.p.Rows = append(b.p.Rows, r)
	}
	return nil
}

func (b *folderBuilder) dimensions() {
	for i, w := range identityWidths {
		b.p.ColumnWidths[i+1] = w
	}
	for _, tc := range b.l.Tasks {
		b.p.ColumnWidths[tc.Summary] = summaryWidth
		for _, s := range tc.Subtasks {
			b.p.ColumnWidths[s.Summary] = pointWidth
		}
	}
	for _, col := range b.l.PointColumns() {
		b.p.ColumnWidths[col] = pointWidth
	}
	for row, h := range headerHeights {
		b.p.RowHeights[row] = h
	}
	for row := FirstStudentRow; row <= b.lastRow; row++ {
		b.p.RowHeights[row] = studentHeight
	}
}

func (b *folderBuilder) outlines() {
	outline := func(fromCol, fromRow, toCol int) {
		b.p.Outlines = append(b.p.Outlines, Region{
			FromCol: fromCol, FromRow: fromRow, ToCol: toCol, ToRow: b.lastRow, Style: StyleGridBorder,
		})
	}
	outline(1, HeaderRow, layout.IdentityColumns)
	for _, tc := range b.l.Tasks {
		outline(tc.Summary, DescriptionRow, tc.BlockEnd())
		for _, s := range tc.Subtasks {
			outline(s.PointStart, DescriptionRow, s.PointEnd())
		}
	}
}

// Package plan turns a task configuration and a roster into sheet plans:
// plain data describing every cell, merged region and outline of the
// workbook. Rendering a plan is left to a sink such as package render.
package plan

import (
	"github.com/pavelanni/gradesheet/internal/formula"
)

// Style is a symbolic cell style. The sink decides how it looks.
type Style string

const (
	StyleTitle       Style = "title"
	StyleTitleRight  Style = "title-right"
	StyleDate        Style = "date"
	StyleHeader      Style = "header"
	StyleLabel       Style = "label"
	StyleDescription Style = "description"
	StyleSummaryFill Style = "summary-fill"
	StylePointFill   Style = "point-fill"
	StyleAverage     Style = "average"
	StyleData        Style = "data"
	StyleGridBorder  Style = "grid-border"
)

// Cell is one cell of a plan. Positions are 1-based. A cell carries either
// a literal Value or a Formula; a cell with neither is reserved blank.
type Cell struct {
	Col     int
	Row     int
	Value   any
	Formula formula.Expression
	Style   Style
}

// IsFormula reports whether the cell holds a formula.
func (c Cell) IsFormula() bool {
	return !c.Formula.IsBlank()
}

// IsBlank reports whether the cell has no content.
func (c Cell) IsBlank() bool {
	return c.Formula.IsBlank() && (c.Value == nil || c.Value == "")
}

// Region is a rectangular cell range, inclusive on both ends.
type Region struct {
	FromCol int
	FromRow int
	ToCol   int
	ToRow   int
	Style   Style
}

// Row holds the cells of one student row.
type Row struct {
	Index int
	Cells []Cell
}

// Plan describes one sheet.
type Plan struct {
	Name         string
	Header       []Cell
	Rows         []Row
	Merges       []Region
	Outlines     []Region
	ColumnWidths map[int]float64
	RowHeights   map[int]float64
}

// Cells returns header and row cells in order.
func (p Plan) Cells() []Cell {
	cells := make([]Cell, 0, len(p.Header))
	cells = append(cells, p.Header...)
	for _, r := range p.Rows {
		cells = append(cells, r.Cells...)
	}
	return cells
}

// Cell returns the cell at (col, row) if the plan defines it.
func (p Plan) Cell(col, row int) (Cell, bool) {
	for _, c := range p.Cells() {
		if c.Col == col && c.Row == row {
			return c, true
		}
	}
	return Cell{}, false
}

// LastRow returns the highest row index used by the plan.
func (p Plan) LastRow() int {
	last := 0
	for _, c := range p.Cells() {
		last = max(last, c.Row)
	}
	return last
}

func newPlan(name string) Plan {
	return Plan{
		Name:         name,
		ColumnWidths: make(map[int]float64),
		RowHeights:   make(map[int]float64),
	}
}

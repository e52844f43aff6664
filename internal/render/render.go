// Package render writes sheet plans into an .xlsx workbook.
package render

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/pavelanni/gradesheet/internal/model"
	"github.com/pavelanni/gradesheet/internal/plan"
)

// Sink renders a list of plans into a serialized workbook.
type Sink interface {
	Render(w io.Writer, plans []plan.Plan) error
}

// Excel renders plans with excelize. The zero value is ready to use.
type Excel struct{}

// ContentType is the MIME type of the rendered workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Render writes one sheet per plan, in order, and serializes the workbook to w.
func (Excel) Render(w io.Writer, plans []plan.Plan) error {
	if len(plans) == 0 {
		return fmt.Errorf("%w: nothing to render", model.ErrRender)
	}

	f := excelize.NewFile()
	defer f.Close()

	styles := newStyleCache(f)
	for i, p := range plans {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), p.Name); err != nil {
				return fmt.Errorf("%w: rename sheet %q: %w", model.ErrRender, p.Name, err)
			}
		} else if _, err := f.NewSheet(p.Name); err != nil {
			return fmt.Errorf("%w: create sheet %q: %w", model.ErrRender, p.Name, err)
		}
		if err := writeSheet(f, styles, p); err != nil {
			return fmt.Errorf("%w: sheet %q: %w", model.ErrRender, p.Name, err)
		}
		slog.Debug("rendered sheet", "sheet", p.Name, "rows", len(p.Rows), "merges", len(p.Merges))
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: write workbook: %w", model.ErrRender, err)
	}
	return nil
}

// Write renders plans with the Excel sink.
func Write(w io.Writer, plans []plan.Plan) error {
	return Excel{}.Render(w, plans)
}

type coord struct{ col, row int }

type cellState struct {
	tag    plan.Style
	border edges
}

func writeSheet(f *excelize.File, styles *styleCache, p plan.Plan) error {
	sheet := p.Name
	grid := make(map[coord]*cellState)
	state := func(col, row int) *cellState {
		k := coord{col, row}
		st, ok := grid[k]
		if !ok {
			st = &cellState{}
			grid[k] = st
		}
		return st
	}

	for _, c := range p.Cells() {
		ref, err := excelize.CoordinatesToCellName(c.Col, c.Row)
		if err != nil {
			return err
		}
		switch {
		case c.IsFormula():
			if err := f.SetCellFormula(sheet, ref, c.Formula.String()); err != nil {
				return err
			}
		case !c.IsBlank():
			if err := f.SetCellValue(sheet, ref, c.Value); err != nil {
				return err
			}
		}
		state(c.Col, c.Row).tag = c.Style
	}

	for _, m := range p.Merges {
		from, to, err := corners(m)
		if err != nil {
			return err
		}
		if err := f.MergeCell(sheet, from, to); err != nil {
			return err
		}
	}

	// Later outlines replace the borders of earlier ones on shared cells.
	for _, o := range p.Outlines {
		for row := o.FromRow; row <= o.ToRow; row++ {
			for col := o.FromCol; col <= o.ToCol; col++ {
				state(col, row).border = edges{
					weight(col == o.FromCol),
					weight(col == o.ToCol),
					weight(row == o.FromRow),
					weight(row == o.ToRow),
				}
			}
		}
	}

	keys := make([]coord, 0, len(grid))
	for k := range grid {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b coord) int {
		if a.row != b.row {
			return a.row - b.row
		}
		return a.col - b.col
	})
	for _, k := range keys {
		st := grid[k]
		id, err := styles.id(styleKey{tag: st.tag, border: st.border})
		if err != nil {
			return err
		}
		ref, err := excelize.CoordinatesToCellName(k.col, k.row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, ref, ref, id); err != nil {
			return err
		}
	}

	for col, width := range p.ColumnWidths {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}
	for row, height := range p.RowHeights {
		if err := f.SetRowHeight(sheet, row, height); err != nil {
			return err
		}
	}
	return nil
}

func weight(edge bool) int {
	if edge {
		return borderMedium
	}
	return borderThin
}

func corners(r plan.Region) (string, string, error) {
	from, err := excelize.CoordinatesToCellName(r.FromCol, r.FromRow)
	if err != nil {
		return "", "", err
	}
	to, err := excelize.CoordinatesToCellName(r.ToCol, r.ToRow)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

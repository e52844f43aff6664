// Package formula builds the spreadsheet expressions of a grading sheet
// from the columns assigned by package layout.
//
// Expressions are returned without a leading "=".
package formula

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pavelanni/gradesheet/internal/layout"
)

// Expression is a spreadsheet formula. The zero value is a blank cell.
type Expression string

// Blank is the empty expression.
const Blank Expression = ""

// IsBlank reports whether e renders as an empty cell.
func (e Expression) IsBlank() bool {
	return e == Blank
}

func (e Expression) String() string {
	return string(e)
}

// Cell returns the A1 reference of (col, row).
func Cell(col, row int) (string, error) {
	return excelize.CoordinatesToCellName(col, row)
}

// Range returns the A1 range from (fromCol, fromRow) to (toCol, toRow).
func Range(fromCol, fromRow, toCol, toRow int) (string, error) {
	from, err := Cell(fromCol, fromRow)
	if err != nil {
		return "", err
	}
	to, err := Cell(toCol, toRow)
	if err != nil {
		return "", err
	}
	return from + ":" + to, nil
}

func sum(fromCol, toCol, row int) (Expression, error) {
	rng, err := Range(fromCol, row, toCol, row)
	if err != nil {
		return Blank, err
	}
	return Expression("SUM(" + rng + ")"), nil
}

// SubtaskSum sums the point columns of the referenced subtask at row.
func SubtaskSum(l *layout.Layout, ref layout.SubtaskRef, row int) (Expression, error) {
	s, err := l.Subtask(ref)
	if err != nil {
		return Blank, err
	}
	return sum(s.PointStart, s.PointEnd(), row)
}

// TaskSum sums the subtask-summary columns of task t at row. It never
// references point columns directly, so a changed subtask formula feeds
// into the task total.
func TaskSum(l *layout.Layout, t int, row int) (Expression, error) {
	tc, err := l.Task(t)
	if err != nil {
		return Blank, err
	}
	cols := tc.SubtaskSummaries()
	return sum(cols[0], cols[len(cols)-1], row)
}

// ColumnAverage averages col over rows firstRow..lastRow. An empty row
// range yields Blank, and the expression itself evaluates to an empty
// string instead of a division error when every cell is empty.
func ColumnAverage(col, firstRow, lastRow int) (Expression, error) {
	if lastRow < firstRow {
		return Blank, nil
	}
	rng, err := Range(col, firstRow, col, lastRow)
	if err != nil {
		return Blank, err
	}
	return Expression(fmt.Sprintf(`IFERROR(AVERAGE(%s),"")`, rng)), nil
}

// MaxPointValue is the literal written into every point column of the
// max-points row.
const MaxPointValue = 1

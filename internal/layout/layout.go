// Package layout assigns spreadsheet columns to the summary and point
// columns of a task configuration.
//
// Columns are placed in two phases. First every task gets a summary block
// (one task-summary column followed by one summary column per subtask),
// in task order. Then every subtask gets a run of point columns, again in
// task order. All summary blocks therefore precede all point columns.
package layout

import (
	"fmt"

	"github.com/pavelanni/gradesheet/internal/model"
)

// IdentityColumns is the number of leading columns reserved for student
// identity fields: folder, slot, exam code, matriculation id, last name,
// first name.
const IdentityColumns = 6

// FirstColumn is the first column available to the allocator (1-based).
const FirstColumn = IdentityColumns + 1

// SubtaskColumns holds the columns of one subtask.
type SubtaskColumns struct {
	Summary    int // "S" column
	PointStart int
	PointCount int
}

// PointEnd returns the last point column of the subtask.
func (s SubtaskColumns) PointEnd() int {
	return s.PointStart + s.PointCount - 1
}

// Point returns the column of point p (0-based).
func (s SubtaskColumns) Point(p int) int {
	return s.PointStart + p
}

// TaskColumns holds the columns of one task.
type TaskColumns struct {
	Summary  int // "SS" column, first column of the summary block
	Subtasks []SubtaskColumns
}

// BlockEnd returns the last column of the task's summary block.
func (t TaskColumns) BlockEnd() int {
	return t.Summary + len(t.Subtasks)
}

// SubtaskSummaries returns the "S" columns of the task in order.
func (t TaskColumns) SubtaskSummaries() []int {
	cols := make([]int, len(t.Subtasks))
	for i, s := range t.Subtasks {
		cols[i] = s.Summary
	}
	return cols
}

// SubtaskRef addresses a subtask by 0-based task and subtask index.
type SubtaskRef struct {
	Task    int
	Subtask int
}

// Label returns the 1-based "T{task}.{subtask}" label.
func (r SubtaskRef) Label() string {
	return fmt.Sprintf("T%d.%d", r.Task+1, r.Subtask+1)
}

// Layout is the column assignment for one configuration. It depends only on
// the configuration, so one Layout serves every folder of a generation run.
type Layout struct {
	Tasks []TaskColumns
	first int
	last  int
}

// Allocate computes the layout for cfg starting at FirstColumn.
func Allocate(cfg model.Configuration) (*Layout, error) {
	return AllocateFrom(cfg, FirstColumn)
}

// AllocateFrom computes the layout for cfg starting at column first.
func AllocateFrom(cfg model.Configuration, first int) (*Layout, error) {
	if first < 1 {
		return nil, fmt.Errorf("%w: first column %d must be positive", model.ErrConfiguration, first)
	}
	if len(cfg.Tasks) == 0 {
		return nil, fmt.Errorf("%w: no tasks", model.ErrConfiguration)
	}
	for ti, t := range cfg.Tasks {
		if len(t.Subtasks) == 0 {
			return nil, fmt.Errorf("%w: task %d has no subtasks", model.ErrConfiguration, ti+1)
		}
		for si, s := range t.Subtasks {
			if s.Points() < model.MinPoints {
				return nil, fmt.Errorf("%w: subtask %d.%d has %d points", model.ErrConfiguration, ti+1, si+1, s.Points())
			}
		}
	}

	l := &Layout{Tasks: make([]TaskColumns, len(cfg.Tasks)), first: first}
	col := first

	// Summary blocks.
	for ti, t := range cfg.Tasks {
		tc := TaskColumns{Summary: col, Subtasks: make([]SubtaskColumns, len(t.Subtasks))}
		for si := range t.Subtasks {
			tc.Subtasks[si].Summary = col + 1 + si
		}
		l.Tasks[ti] = tc
		col += 1 + len(t.Subtasks)
	}

	// Point columns.
	for ti, t := range cfg.Tasks {
		for si, s := range t.Subtasks {
			l.Tasks[ti].Subtasks[si].PointStart = col
			l.Tasks[ti].Subtasks[si].PointCount = s.Points()
			col += s.Points()
		}
	}

	l.last = col - 1
	return l, nil
}

// FirstColumn returns the first allocated column.
func (l *Layout) FirstColumn() int {
	return l.first
}

// LastColumn returns the last allocated column.
func (l *Layout) LastColumn() int {
	return l.last
}

// FirstPointColumn returns the first column of the point phase.
func (l *Layout) FirstPointColumn() int {
	return l.Tasks[0].Subtasks[0].PointStart
}

// Task returns the columns of task t.
func (l *Layout) Task(t int) (TaskColumns, error) {
	if t < 0 || t >= len(l.Tasks) {
		return TaskColumns{}, fmt.Errorf("%w: task %d not in layout", model.ErrConfiguration, t+1)
	}
	return l.Tasks[t], nil
}

// Subtask returns the columns of the referenced subtask.
func (l *Layout) Subtask(ref SubtaskRef) (SubtaskColumns, error) {
	t, err := l.Task(ref.Task)
	if err != nil {
		return SubtaskColumns{}, err
	}
	if ref.Subtask < 0 || ref.Subtask >= len(t.Subtasks) {
		return SubtaskColumns{}, fmt.Errorf("%w: subtask %s not in layout", model.ErrConfiguration, ref.Label())
	}
	return t.Subtasks[ref.Subtask], nil
}

// PointColumns returns every point column in allocation order.
func (l *Layout) PointColumns() []int {
	var cols []int
	for _, t := range l.Tasks {
		for _, s := range t.Subtasks {
			for p := range s.PointCount {
				cols = append(cols, s.Point(p))
			}
		}
	}
	return cols
}

// SummaryColumns returns every task-summary and subtask-summary column in
// allocation order.
func (l *Layout) SummaryColumns() []int {
	var cols []int
	for _, t := range l.Tasks {
		cols = append(cols, t.Summary)
		cols = append(cols, t.SubtaskSummaries()...)
	}
	return cols
}

// PointLabel returns the header letter of point p: a..z, wrapping after z.
func PointLabel(p int) string {
	return string(rune('a' + p%26))
}

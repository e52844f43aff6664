package formula

import (
	"errors"
	"strings"
	"testing"

	"github.com/pavelanni/gradesheet/internal/layout"
	"github.com/pavelanni/gradesheet/internal/model"
)

func newLayout(t *testing.T, points ...[]int) *layout.Layout {
	t.Helper()
	var c model.Configuration
	for _, task := range points {
		var subs []model.Subtask
		for _, n := range task {
			s, err := model.NewSubtask(n)
			if err != nil {
				t.Fatalf("NewSubtask(%d): %v", n, err)
			}
			subs = append(subs, s)
		}
		c.Tasks = append(c.Tasks, model.Task{Subtasks: subs})
	}
	l, err := layout.Allocate(c)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	return l
}

func TestSubtaskSum(t *testing.T) {
	// Columns: G=SS, H,I=S, J..M and N..Q points.
	l := newLayout(t, []int{4, 4})

	tests := []struct {
		ref  layout.SubtaskRef
		row  int
		want Expression
	}{
		{layout.SubtaskRef{Task: 0, Subtask: 0}, 7, "SUM(J7:M7)"},
		{layout.SubtaskRef{Task: 0, Subtask: 1}, 7, "SUM(N7:Q7)"},
		{layout.SubtaskRef{Task: 0, Subtask: 1}, 5, "SUM(N5:Q5)"},
	}
	for _, tt := range tests {
		got, err := SubtaskSum(l, tt.ref, tt.row)
		if err != nil {
			t.Fatalf("SubtaskSum(%v, %d): %v", tt.ref, tt.row, err)
		}
		if got != tt.want {
			t.Errorf("SubtaskSum(%v, %d) = %q, want %q", tt.ref, tt.row, got, tt.want)
		}
	}

	if _, err := SubtaskSum(l, layout.SubtaskRef{Task: 1}, 7); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for unknown subtask, got %v", err)
	}
}

func TestSingleColumnRun(t *testing.T) {
	l := newLayout(t, []int{1})
	got, err := SubtaskSum(l, layout.SubtaskRef{}, 9)
	if err != nil {
		t.Fatalf("SubtaskSum: %v", err)
	}
	// G=SS, H=S, I=the only point column.
	if got != "SUM(I9:I9)" {
		t.Errorf("expected SUM(I9:I9), got %q", got)
	}
}

func TestTaskSumSpansSubtaskSummaries(t *testing.T) {
	l := newLayout(t, []int{2, 3}, []int{1, 1, 5})

	for ti, tc := range l.Tasks {
		got, err := TaskSum(l, ti, 8)
		if err != nil {
			t.Fatalf("TaskSum(%d): %v", ti, err)
		}
		cols := tc.SubtaskSummaries()
		want, _ := Range(cols[0], 8, cols[len(cols)-1], 8)
		if got != Expression("SUM("+want+")") {
			t.Errorf("task %d: expected SUM(%s), got %q", ti, want, got)
		}
		pointStart, _ := Cell(tc.Subtasks[0].PointStart, 8)
		if strings.Contains(got.String(), pointStart) {
			t.Errorf("task %d: sum %q references point column %s", ti, got, pointStart)
		}
	}

	got, _ := TaskSum(l, 1, 8)
	// Task 2 block is J..M: J=SS, K..M=S.
	if got != "SUM(K8:M8)" {
		t.Errorf("expected SUM(K8:M8), got %q", got)
	}
	if _, err := TaskSum(l, 2, 8); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for unknown task, got %v", err)
	}
}

func TestColumnAverage(t *testing.T) {
	got, err := ColumnAverage(10, 7, 11)
	if err != nil {
		t.Fatalf("ColumnAverage: %v", err)
	}
	if got != `IFERROR(AVERAGE(J7:J11),"")` {
		t.Errorf("unexpected average %q", got)
	}

	got, err = ColumnAverage(10, 7, 7)
	if err != nil {
		t.Fatalf("ColumnAverage: %v", err)
	}
	if got != `IFERROR(AVERAGE(J7:J7),"")` {
		t.Errorf("unexpected single-row average %q", got)
	}
}

func TestColumnAverageEmptyRange(t *testing.T) {
	got, err := ColumnAverage(10, 7, 6)
	if err != nil {
		t.Fatalf("expected no error for empty range, got %v", err)
	}
	if !got.IsBlank() {
		t.Errorf("expected blank expression, got %q", got)
	}
}

func TestRangeErrors(t *testing.T) {
	if _, err := Range(0, 1, 2, 1); err == nil {
		t.Error("expected error for column 0")
	}
	if _, err := ColumnAverage(3, 0, 4); err == nil {
		t.Error("expected error for row 0")
	}
}

package layout

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pavelanni/gradesheet/internal/model"
)

// config builds a configuration from point counts per subtask per task.
func config(t *testing.T, points ...[]int) model.Configuration {
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
	return c
}

func TestAllocateSingleTask(t *testing.T) {
	l, err := Allocate(config(t, []int{4, 4}))
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	want := []TaskColumns{{
		Summary: 7,
		Subtasks: []SubtaskColumns{
			{Summary: 8, PointStart: 10, PointCount: 4},
			{Summary: 9, PointStart: 14, PointCount: 4},
		},
	}}
	if diff := cmp.Diff(want, l.Tasks); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
	if l.LastColumn() != 17 {
		t.Errorf("expected last column 17, got %d", l.LastColumn())
	}
	if got := len(l.PointColumns()); got != 8 {
		t.Errorf("expected 8 point columns, got %d", got)
	}
}

func TestAllocateTwoTasks(t *testing.T) {
	l, err := Allocate(config(t, []int{1, 2}, []int{3, 1, 2}))
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	// Summary phase: task 1 block is 7..9 (width 3), task 2 block is 10..13 (width 4).
	if l.Tasks[0].Summary != 7 || l.Tasks[0].BlockEnd() != 9 {
		t.Errorf("task 1 block: expected 7..9, got %d..%d", l.Tasks[0].Summary, l.Tasks[0].BlockEnd())
	}
	if l.Tasks[1].Summary != 10 || l.Tasks[1].BlockEnd() != 13 {
		t.Errorf("task 2 block: expected 10..13, got %d..%d", l.Tasks[1].Summary, l.Tasks[1].BlockEnd())
	}
	if diff := cmp.Diff([]int{11, 12, 13}, l.Tasks[1].SubtaskSummaries()); diff != "" {
		t.Errorf("task 2 subtask summaries (-want +got):\n%s", diff)
	}

	// Point phase starts after every summary block, task 1 before task 2.
	var starts []int
	for _, tc := range l.Tasks {
		for _, s := range tc.Subtasks {
			starts = append(starts, s.PointStart)
		}
	}
	if diff := cmp.Diff([]int{14, 15, 17, 20, 21}, starts); diff != "" {
		t.Errorf("point run starts (-want +got):\n%s", diff)
	}
	if l.LastColumn() != 22 {
		t.Errorf("expected last column 22, got %d", l.LastColumn())
	}
}

func TestAllocateInvariants(t *testing.T) {
	configs := []model.Configuration{
		config(t, []int{1}),
		config(t, []int{4, 4}),
		config(t, []int{50, 1, 7}, []int{2}),
		config(t, []int{3}, []int{3, 3}, []int{1, 1, 1, 1}, []int{26, 27}),
	}
	for i, cfg := range configs {
		l, err := Allocate(cfg)
		if err != nil {
			t.Fatalf("config %d: Allocate: %v", i, err)
		}

		summary := l.SummaryColumns()
		points := l.PointColumns()
		all := append(slices.Clone(summary), points...)

		// Pairwise distinct and gapless from FirstColumn to LastColumn.
		for j, c := range all {
			if c != FirstColumn+j {
				t.Fatalf("config %d: column %d at position %d, expected %d", i, c, j, FirstColumn+j)
			}
		}
		if all[len(all)-1] != l.LastColumn() {
			t.Errorf("config %d: last column %d, expected %d", i, l.LastColumn(), all[len(all)-1])
		}
		if slices.Max(summary) >= slices.Min(points) {
			t.Errorf("config %d: summary column %d not before point column %d", i, slices.Max(summary), slices.Min(points))
		}
		if l.FirstPointColumn() != slices.Min(points) {
			t.Errorf("config %d: first point column %d, expected %d", i, l.FirstPointColumn(), slices.Min(points))
		}
		if len(points) != cfg.TotalPoints() {
			t.Errorf("config %d: %d point columns for %d points", i, len(points), cfg.TotalPoints())
		}

		again, err := Allocate(cfg)
		if err != nil {
			t.Fatalf("config %d: second Allocate: %v", i, err)
		}
		if diff := cmp.Diff(l, again, cmp.AllowUnexported(Layout{})); diff != "" {
			t.Errorf("config %d: layout not deterministic (-first +second):\n%s", i, diff)
		}
	}
}

func TestAllocateFrom(t *testing.T) {
	l, err := AllocateFrom(config(t, []int{2}), 1)
	if err != nil {
		t.Fatalf("AllocateFrom: %v", err)
	}
	if l.FirstColumn() != 1 || l.Tasks[0].Summary != 1 || l.Tasks[0].Subtasks[0].PointStart != 3 {
		t.Errorf("unexpected layout %+v", l.Tasks)
	}
	if _, err := AllocateFrom(config(t, []int{2}), 0); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for column 0, got %v", err)
	}
}

func TestAllocateErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  model.Configuration
	}{
		{"no tasks", model.Configuration{}},
		{"empty task", model.Configuration{Tasks: []model.Task{{}}}},
		{"zero points", model.Configuration{Tasks: []model.Task{{Subtasks: []model.Subtask{{}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Allocate(tt.cfg); !errors.Is(err, model.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	l, err := Allocate(config(t, []int{2, 3}))
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	s, err := l.Subtask(SubtaskRef{Task: 0, Subtask: 1})
	if err != nil {
		t.Fatalf("Subtask: %v", err)
	}
	if s.PointStart != 12 || s.PointEnd() != 14 || s.Point(1) != 13 {
		t.Errorf("unexpected subtask columns %+v", s)
	}
	if _, err := l.Subtask(SubtaskRef{Task: 0, Subtask: 2}); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for missing subtask, got %v", err)
	}
	if _, err := l.Task(1); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for missing task, got %v", err)
	}
	if got := (SubtaskRef{Task: 1, Subtask: 0}).Label(); got != "T2.1" {
		t.Errorf("expected label T2.1, got %q", got)
	}
}

func TestPointLabel(t *testing.T) {
	tests := []struct {
		p    int
		want string
	}{
		{0, "a"},
		{3, "d"},
		{25, "z"},
		{26, "a"},
		{27, "b"},
		{49, "x"},
	}
	for _, tt := range tests {
		if got := PointLabel(tt.p); got != tt.want {
			t.Errorf("PointLabel(%d) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

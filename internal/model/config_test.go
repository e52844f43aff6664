package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustSubtask(t *testing.T, n int) Subtask {
	t.Helper()
	s, err := NewSubtask(n)
	if err != nil {
		t.Fatalf("NewSubtask(%d): %v", n, err)
	}
	return s
}

func TestResizeKeepsDescriptionsInSync(t *testing.T) {
	tests := []struct {
		name  string
		start int
		to    int
	}{
		{"grow", 2, 5},
		{"shrink", 4, 2},
		{"same", 3, 3},
		{"to max", 1, MaxPoints},
		{"to min", MaxPoints, MinPoints},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSubtask(t, tt.start)
			if err := s.Resize(tt.to); err != nil {
				t.Fatalf("Resize(%d): %v", tt.to, err)
			}
			if s.Points() != tt.to {
				t.Errorf("expected %d points, got %d", tt.to, s.Points())
			}
			if len(s.Descriptions()) != tt.to {
				t.Errorf("expected %d descriptions, got %d", tt.to, len(s.Descriptions()))
			}
		})
	}
}

func TestShrinkPreservesPrefix(t *testing.T) {
	s := mustSubtask(t, 4)
	for p, text := range []string{"definition", "example", "proof", "remark"} {
		if err := s.SetDescription(p, text); err != nil {
			t.Fatalf("SetDescription(%d): %v", p, err)
		}
	}

	if err := s.Resize(2); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if diff := cmp.Diff([]string{"definition", "example"}, s.Descriptions()); diff != "" {
		t.Errorf("descriptions after shrink (-want +got):\n%s", diff)
	}

	// Growing again pads with blanks, the dropped texts do not come back.
	if err := s.Resize(4); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if diff := cmp.Diff([]string{"definition", "example", "", ""}, s.Descriptions()); diff != "" {
		t.Errorf("descriptions after grow (-want +got):\n%s", diff)
	}
}

func TestResizeRejectsOutOfRange(t *testing.T) {
	s := mustSubtask(t, 3)
	for _, n := range []int{0, -1, MaxPoints + 1} {
		if err := s.Resize(n); !errors.Is(err, ErrConfiguration) {
			t.Errorf("Resize(%d): expected ErrConfiguration, got %v", n, err)
		}
	}
	if s.Points() != 3 || len(s.Descriptions()) != 3 {
		t.Errorf("failed resize changed subtask: %d points, %d descriptions", s.Points(), len(s.Descriptions()))
	}
}

func TestSetDescriptionOutOfRange(t *testing.T) {
	s := mustSubtask(t, 2)
	if err := s.SetDescription(2, "x"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
	if got := s.Description(7); got != "" {
		t.Errorf("expected blank description for missing point, got %q", got)
	}
}

func TestConfigurationValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Configuration
		wantErr error
	}{
		{"default", DefaultConfiguration(), nil},
		{"no tasks", Configuration{}, ErrConfiguration},
		{"task without subtasks", Configuration{Tasks: []Task{{}}}, ErrConfiguration},
		{"zero value subtask", Configuration{Tasks: []Task{{Subtasks: []Subtask{{}}}}}, ErrConfiguration},
		{"description mismatch", Configuration{Tasks: []Task{{Subtasks: []Subtask{{points: 3, descriptions: []string{""}}}}}}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEditorOperations(t *testing.T) {
	c := DefaultConfiguration()

	if err := c.RemoveTask(0); !errors.Is(err, ErrConfiguration) {
		t.Errorf("removing the only task: expected ErrConfiguration, got %v", err)
	}

	c.AddTask()
	if len(c.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(c.Tasks))
	}
	if err := c.AddSubtask(1); err != nil {
		t.Fatalf("AddSubtask: %v", err)
	}
	if got := len(c.Tasks[1].Subtasks); got != 3 {
		t.Errorf("expected 3 subtasks in task 2, got %d", got)
	}
	if err := c.ResizeSubtask(1, 2, 7); err != nil {
		t.Fatalf("ResizeSubtask: %v", err)
	}
	if err := c.SetDescription(1, 2, 6, "units"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	if got := c.Tasks[1].Subtasks[2].Description(6); got != "units" {
		t.Errorf("expected description 'units', got %q", got)
	}
	if err := c.RemoveSubtask(1, 0); err != nil {
		t.Fatalf("RemoveSubtask: %v", err)
	}
	if got := c.Tasks[1].Subtasks[1].Points(); got != 7 {
		t.Errorf("expected resized subtask to shift to index 1 with 7 points, got %d", got)
	}
	if err := c.RemoveTask(0); err != nil {
		t.Fatalf("RemoveTask: %v", err)
	}
	if got := c.TotalPoints(); got != 4+7 {
		t.Errorf("expected 11 total points, got %d", got)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("configuration invalid after edits: %v", err)
	}
}

func TestRemoveLastSubtask(t *testing.T) {
	c := Configuration{Tasks: []Task{{Subtasks: []Subtask{mustSubtask(t, 2)}}}}
	if err := c.RemoveSubtask(0, 0); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
	if err := c.RemoveSubtask(0, 3); !errors.Is(err, ErrConfiguration) {
		t.Errorf("out of range: expected ErrConfiguration, got %v", err)
	}
}

func TestApplyEdits(t *testing.T) {
	c := DefaultConfiguration()
	edits := []Edit{
		{Op: EditAddTask},
		{Op: EditResizeSubtask, Task: 0, Subtask: 0, Points: 2},
		{Op: EditSetDescription, Task: 0, Subtask: 0, Point: 1, Text: "sketch"},
		{Op: EditAddSubtask, Task: 1},
		{Op: EditRemoveSubtask, Task: 1, Subtask: 0},
	}
	for _, e := range edits {
		if err := c.Apply(e); err != nil {
			t.Fatalf("Apply(%s): %v", e.Op, err)
		}
	}
	if got := c.Tasks[0].Subtasks[0].Descriptions(); len(got) != 2 || got[1] != "sketch" {
		t.Errorf("unexpected descriptions %q", got)
	}
	if got := len(c.Tasks[1].Subtasks); got != 2 {
		t.Errorf("expected 2 subtasks in task 2, got %d", got)
	}
	if err := c.Apply(Edit{Op: "rename"}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("unknown op: expected ErrConfiguration, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := DefaultConfiguration()
	cp := c.Clone()
	if err := cp.SetDescription(0, 0, 0, "changed"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	if err := cp.ResizeSubtask(0, 1, 9); err != nil {
		t.Fatalf("ResizeSubtask: %v", err)
	}
	if got := c.Tasks[0].Subtasks[0].Description(0); got != "" {
		t.Errorf("clone shares descriptions with original: %q", got)
	}
	if got := c.Tasks[0].Subtasks[1].Points(); got != DefaultPoints {
		t.Errorf("clone shares subtasks with original: %d points", got)
	}
}

func TestParseConfiguration(t *testing.T) {
	data := []byte(`
tasks:
  - subtasks:
      - points: 3
        descriptions: [a, b]
      - points: 1
  - subtasks:
      - points: 2
        descriptions: [x, y, z]
`)
	c, err := ParseConfiguration(data)
	if err != nil {
		t.Fatalf("ParseConfiguration: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", ""}, c.Tasks[0].Subtasks[0].Descriptions()); diff != "" {
		t.Errorf("padded descriptions (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", "y"}, c.Tasks[1].Subtasks[0].Descriptions()); diff != "" {
		t.Errorf("truncated descriptions (-want +got):\n%s", diff)
	}

	// JSON is accepted as well.
	j, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	again, err := ParseConfiguration(j)
	if err != nil {
		t.Fatalf("ParseConfiguration(json): %v", err)
	}
	if again.TotalPoints() != 6 {
		t.Errorf("expected 6 total points, got %d", again.TotalPoints())
	}
}

func TestParseConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no subtasks", "tasks:\n  - subtasks: []\n"},
		{"too many points", "tasks:\n  - subtasks:\n      - points: 51\n"},
		{"zero points", "tasks:\n  - subtasks:\n      - points: 0\n"},
		{"malformed", "tasks: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfiguration([]byte(tt.data)); !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestExamCode(t *testing.T) {
	f := Folder{Number: 3, Students: make([]StudentRecord, 2)}
	if got := f.ExamCode(1); got != "3_1" {
		t.Errorf("expected exam code 3_1, got %q", got)
	}
}

func TestParseExamDate(t *testing.T) {
	d, err := ParseExamDate("2026-02-10")
	if err != nil {
		t.Fatalf("ParseExamDate: %v", err)
	}
	if d.Year() != 2026 || d.Month() != 2 || d.Day() != 10 {
		t.Errorf("expected 2026-02-10, got %v", d)
	}

	d, err = ParseExamDate("")
	if err != nil || !d.IsZero() {
		t.Errorf("expected zero date for empty input, got %v, %v", d, err)
	}

	if _, err := ParseExamDate("10.02.2026"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

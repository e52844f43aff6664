package model

import "fmt"

const (
	// MinPoints is the smallest point count a subtask may have.
	MinPoints = 1
	// MaxPoints is the largest point count a subtask may have.
	MaxPoints = 50
	// DefaultPoints is the point count of a freshly added subtask.
	DefaultPoints = 4
)

// Subtask is a gradable unit with a fixed number of point columns.
// Every point column carries an optional description, so
// len(descriptions) == points holds for every subtask built through
// NewSubtask, Resize or the decoders.
type Subtask struct {
	points       int
	descriptions []string
}

// NewSubtask returns a subtask with n points and blank descriptions.
func NewSubtask(n int) (Subtask, error) {
	var s Subtask
	if err := s.Resize(n); err != nil {
		return Subtask{}, err
	}
	return s, nil
}

// Points returns the number of point columns.
func (s Subtask) Points() int {
	return s.points
}

// Descriptions returns a copy of the per-point descriptions.
func (s Subtask) Descriptions() []string {
	out := make([]string, len(s.descriptions))
	copy(out, s.descriptions)
	return out
}

// Description returns the description of point p, or "" when p is out of range.
func (s Subtask) Description(p int) string {
	if p < 0 || p >= len(s.descriptions) {
		return ""
	}
	return s.descriptions[p]
}

// SetDescription replaces the description of point p.
func (s *Subtask) SetDescription(p int, text string) error {
	if p < 0 || p >= s.points {
		return fmt.Errorf("%w: point %d out of range [0,%d)", ErrConfiguration, p, s.points)
	}
	s.descriptions[p] = text
	return nil
}

// Resize changes the point count. Growing pads the descriptions with
// blanks, shrinking truncates them and keeps the prefix. It is the only
// way the point count changes.
func (s *Subtask) Resize(n int) error {
	if n < MinPoints || n > MaxPoints {
		return fmt.Errorf("%w: point count %d outside [%d,%d]", ErrConfiguration, n, MinPoints, MaxPoints)
	}
	switch {
	case n > len(s.descriptions):
		s.descriptions = append(s.descriptions, make([]string, n-len(s.descriptions))...)
	case n < len(s.descriptions):
		s.descriptions = s.descriptions[:n:n]
	}
	s.points = n
	return nil
}

// Validate checks the subtask invariants.
func (s Subtask) Validate() error {
	if s.points < MinPoints || s.points > MaxPoints {
		return fmt.Errorf("%w: point count %d outside [%d,%d]", ErrConfiguration, s.points, MinPoints, MaxPoints)
	}
	if len(s.descriptions) != s.points {
		return fmt.Errorf("%w: %d descriptions for %d points", ErrValidation, len(s.descriptions), s.points)
	}
	return nil
}

func (s Subtask) clone() Subtask {
	return Subtask{points: s.points, descriptions: s.Descriptions()}
}

// Task is a top-level graded item. Its identity is its position in the
// configuration.
type Task struct {
	Subtasks []Subtask
}

// Points returns the maximum points of the task.
func (t Task) Points() int {
	total := 0
	for _, s := range t.Subtasks {
		total += s.points
	}
	return total
}

// Configuration is the ordered list of tasks an exam consists of.
type Configuration struct {
	Tasks []Task
}

// DefaultConfiguration returns one task with two subtasks of DefaultPoints each.
func DefaultConfiguration() Configuration {
	return Configuration{Tasks: []Task{defaultTask()}}
}

func defaultTask() Task {
	a, _ := NewSubtask(DefaultPoints)
	b, _ := NewSubtask(DefaultPoints)
	return Task{Subtasks: []Subtask{a, b}}
}

// Validate checks every task and subtask. Shape problems are reported as
// ErrConfiguration, description mismatches as ErrValidation.
func (c Configuration) Validate() error {
	if len(c.Tasks) == 0 {
		return fmt.Errorf("%w: no tasks", ErrConfiguration)
	}
	for ti, t := range c.Tasks {
		if len(t.Subtasks) == 0 {
			return fmt.Errorf("%w: task %d has no subtasks", ErrConfiguration, ti+1)
		}
		for si, s := range t.Subtasks {
			if err := s.Validate(); err != nil {
				return fmt.Errorf("task %d.%d: %w", ti+1, si+1, err)
			}
		}
	}
	return nil
}

// TotalPoints returns the sum of all point columns.
func (c Configuration) TotalPoints() int {
	total := 0
	for _, t := range c.Tasks {
		total += t.Points()
	}
	return total
}

// Clone returns a deep copy.
func (c Configuration) Clone() Configuration {
	out := Configuration{Tasks: make([]Task, len(c.Tasks))}
	for i, t := range c.Tasks {
		subs := make([]Subtask, len(t.Subtasks))
		for j, s := range t.Subtasks {
			subs[j] = s.clone()
		}
		out.Tasks[i] = Task{Subtasks: subs}
	}
	return out
}

// Subtask returns a pointer to subtask s of task t.
func (c *Configuration) Subtask(t, s int) (*Subtask, error) {
	if t < 0 || t >= len(c.Tasks) {
		return nil, fmt.Errorf("%w: task %d out of range", ErrConfiguration, t+1)
	}
	subs := c.Tasks[t].Subtasks
	if s < 0 || s >= len(subs) {
		return nil, fmt.Errorf("%w: subtask %d.%d out of range", ErrConfiguration, t+1, s+1)
	}
	return &subs[s], nil
}

package model

import "fmt"

// EditOp names a configuration editor operation.
type EditOp string

const (
	EditAddTask        EditOp = "add_task"
	EditRemoveTask     EditOp = "remove_task"
	EditAddSubtask     EditOp = "add_subtask"
	EditRemoveSubtask  EditOp = "remove_subtask"
	EditResizeSubtask  EditOp = "resize_subtask"
	EditSetDescription EditOp = "set_description"
)

// Edit is a single serialisable editor operation. Indices are 0-based.
type Edit struct {
	Op      EditOp `json:"op"`
	Task    int    `json:"task"`
	Subtask int    `json:"subtask"`
	Point   int    `json:"point"`
	Points  int    `json:"points"`
	Text    string `json:"text"`
}

// Apply runs e against the configuration.
func (c *Configuration) Apply(e Edit) error {
	switch e.Op {
	case EditAddTask:
		c.AddTask()
		return nil
	case EditRemoveTask:
		return c.RemoveTask(e.Task)
	case EditAddSubtask:
		return c.AddSubtask(e.Task)
	case EditRemoveSubtask:
		return c.RemoveSubtask(e.Task, e.Subtask)
	case EditResizeSubtask:
		return c.ResizeSubtask(e.Task, e.Subtask, e.Points)
	case EditSetDescription:
		return c.SetDescription(e.Task, e.Subtask, e.Point, e.Text)
	default:
		return fmt.Errorf("%w: unknown edit operation %q", ErrConfiguration, e.Op)
	}
}

// AddTask appends a task with two default subtasks.
func (c *Configuration) AddTask() {
	c.Tasks = append(c.Tasks, defaultTask())
}

// RemoveTask deletes task t. The last remaining task cannot be removed.
func (c *Configuration) RemoveTask(t int) error {
	if t < 0 || t >= len(c.Tasks) {
		return fmt.Errorf("%w: task %d out of range", ErrConfiguration, t+1)
	}
	if len(c.Tasks) == 1 {
		return fmt.Errorf("%w: cannot remove the only task", ErrConfiguration)
	}
	c.Tasks = append(c.Tasks[:t], c.Tasks[t+1:]...)
	return nil
}

// AddSubtask appends a default subtask to task t.
func (c *Configuration) AddSubtask(t int) error {
	if t < 0 || t >= len(c.Tasks) {
		return fmt.Errorf("%w: task %d out of range", ErrConfiguration, t+1)
	}
	s, _ := NewSubtask(DefaultPoints)
	c.Tasks[t].Subtasks = append(c.Tasks[t].Subtasks, s)
	return nil
}

// RemoveSubtask deletes subtask s of task t. A task keeps at least one subtask.
func (c *Configuration) RemoveSubtask(t, s int) error {
	if _, err := c.Subtask(t, s); err != nil {
		return err
	}
	subs := c.Tasks[t].Subtasks
	if len(subs) == 1 {
		return fmt.Errorf("%w: cannot remove the only subtask of task %d", ErrConfiguration, t+1)
	}
	c.Tasks[t].Subtasks = append(subs[:s], subs[s+1:]...)
	return nil
}

// ResizeSubtask changes the point count of subtask s of task t.
func (c *Configuration) ResizeSubtask(t, s, n int) error {
	sub, err := c.Subtask(t, s)
	if err != nil {
		return err
	}
	return sub.Resize(n)
}

// SetDescription sets the description of point p of subtask s of task t.
func (c *Configuration) SetDescription(t, s, p int, text string) error {
	sub, err := c.Subtask(t, s)
	if err != nil {
		return err
	}
	return sub.SetDescription(p, text)
}

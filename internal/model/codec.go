package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

type subtaskWire struct {
	Points       int      `json:"points" yaml:"points"`
	Descriptions []string `json:"descriptions,omitempty" yaml:"descriptions,omitempty"`
}

type taskWire struct {
	Subtasks []subtaskWire `json:"subtasks" yaml:"subtasks"`
}

type configWire struct {
	Tasks []taskWire `json:"tasks" yaml:"tasks"`
}

func (c Configuration) toWire() configWire {
	w := configWire{Tasks: make([]taskWire, len(c.Tasks))}
	for i, t := range c.Tasks {
		subs := make([]subtaskWire, len(t.Subtasks))
		for j, s := range t.Subtasks {
			subs[j] = subtaskWire{Points: s.points, Descriptions: s.Descriptions()}
		}
		w.Tasks[i] = taskWire{Subtasks: subs}
	}
	return w
}

func (w configWire) toConfiguration() (Configuration, error) {
	c := Configuration{Tasks: make([]Task, len(w.Tasks))}
	for i, tw := range w.Tasks {
		subs := make([]Subtask, len(tw.Subtasks))
		for j, sw := range tw.Subtasks {
			s := Subtask{descriptions: append([]string(nil), sw.Descriptions...)}
			if err := s.Resize(sw.Points); err != nil {
				return Configuration{}, fmt.Errorf("task %d.%d: %w", i+1, j+1, err)
			}
			subs[j] = s
		}
		c.Tasks[i] = Task{Subtasks: subs}
	}
	return c, nil
}

// MarshalJSON implements json.Marshaler.
func (c Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toWire())
}

// UnmarshalJSON implements json.Unmarshaler. Description lists are padded
// or truncated to the point count.
func (c *Configuration) UnmarshalJSON(data []byte) error {
	var w configWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := w.toConfiguration()
	if err != nil {
		return err
	}
	*c = decoded
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Configuration) MarshalYAML() (any, error) {
	return c.toWire(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Configuration) UnmarshalYAML(value *yaml.Node) error {
	var w configWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	decoded, err := w.toConfiguration()
	if err != nil {
		return err
	}
	*c = decoded
	return nil
}

// ParseConfiguration decodes a YAML (or JSON) task configuration and validates it.
func ParseConfiguration(data []byte) (Configuration, error) {
	var c Configuration
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Configuration{}, fmt.Errorf("%w: parse task configuration: %w", ErrConfiguration, err)
	}
	if err := c.Validate(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

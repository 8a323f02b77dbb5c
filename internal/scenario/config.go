// Package scenario loads and runs simulated workloads for the tasktimer CLI:
// a YAML file describes a loop of named tasks with target durations, and the
// runner drives a timing.TaskTimer through it.
package scenario

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario describes one progress-tracked loop.
type Scenario struct {
	Name   string `yaml:"name"`
	Steps  int    `yaml:"steps"`
	Offset int    `yaml:"offset"`
	Tasks  []Task `yaml:"tasks"`
}

// Task is one named unit of work executed every step.
type Task struct {
	Name     string `yaml:"name"`
	Duration string `yaml:"duration"`         // e.g. "25ms", "1.5s"
	Jitter   string `yaml:"jitter,omitempty"` // optional +/- randomization
	Repeat   int    `yaml:"repeat,omitempty"` // times per step, default 1
}

// Load reads a scenario from a YAML file, applies defaults and validates it.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}

	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) applyDefaults() {
	if s.Steps == 0 {
		s.Steps = 10
	}
	for i := range s.Tasks {
		if s.Tasks[i].Repeat == 0 {
			s.Tasks[i].Repeat = 1
		}
	}
}

// Validate checks the scenario for values the runner cannot execute.
func (s *Scenario) Validate() error {
	if s.Steps < 0 {
		return fmt.Errorf("scenario: steps must be >= 0, got %d", s.Steps)
	}
	if len(s.Tasks) == 0 {
		return fmt.Errorf("scenario: at least one task is required")
	}
	for i, task := range s.Tasks {
		if task.Name == "" {
			return fmt.Errorf("scenario: task %d has no name", i)
		}
		if _, err := task.duration(); err != nil {
			return fmt.Errorf("scenario: task %q: %w", task.Name, err)
		}
		if _, err := task.jitter(); err != nil {
			return fmt.Errorf("scenario: task %q: %w", task.Name, err)
		}
		if task.Repeat < 1 {
			return fmt.Errorf("scenario: task %q: repeat must be >= 1, got %d", task.Name, task.Repeat)
		}
	}
	return nil
}

func (t Task) duration() (time.Duration, error) {
	if t.Duration == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(t.Duration)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", t.Duration, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q is negative", t.Duration)
	}
	return d, nil
}

func (t Task) jitter() (time.Duration, error) {
	if t.Jitter == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(t.Jitter)
	if err != nil {
		return 0, fmt.Errorf("invalid jitter %q: %w", t.Jitter, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("jitter %q is negative", t.Jitter)
	}
	return d, nil
}

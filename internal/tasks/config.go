package tasks

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type taskDoc struct {
	Tasks []taskSpec `yaml:"tasks"`
}

type taskSpec struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Reward       int    `yaml:"reward"`
	Icon         string `yaml:"icon"`
	RequiresAuth bool   `yaml:"requires_auth"`
	Link         string `yaml:"link"`
	Verify       string `yaml:"verify"`
	Target       string `yaml:"target"`
	Delay        string `yaml:"delay"`
}

// LoadTasks reads task definitions from a YAML file. An empty path
// yields the compiled-in defaults.
func LoadTasks(path string) ([]Task, error) {
	if path == "" {
		return DefaultTasks(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tasks: read config: %w", err)
	}

	var doc taskDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tasks: parse config: %w", err)
	}
	if len(doc.Tasks) == 0 {
		return nil, fmt.Errorf("tasks: config defines no tasks")
	}

	seen := make(map[string]bool, len(doc.Tasks))
	out := make([]Task, 0, len(doc.Tasks))
	for _, spec := range doc.Tasks {
		t, err := spec.toTask()
		if err != nil {
			return nil, err
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("tasks: duplicate task name %q", t.Name)
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	return out, nil
}

func (s taskSpec) toTask() (Task, error) {
	if s.Name == "" {
		return Task{}, fmt.Errorf("tasks: task missing name")
	}

	kind := VerifyKind(s.Verify)
	if s.Verify == "" {
		kind = VerifyNone
	}
	switch kind {
	case VerifyNone, VerifyFollow, VerifyRetweet, VerifyTweet:
	default:
		return Task{}, fmt.Errorf("tasks: task %q has unknown verify kind %q", s.Name, s.Verify)
	}

	delay, err := parseDelay(s.Delay, kind, s.Link)
	if err != nil {
		return Task{}, fmt.Errorf("tasks: task %q: %w", s.Name, err)
	}

	return Task{
		Name:         s.Name,
		Description:  s.Description,
		Reward:       s.Reward,
		Icon:         s.Icon,
		RequiresAuth: s.RequiresAuth,
		Link:         s.Link,
		Verify:       kind,
		Target:       s.Target,
		Delay:        delay,
	}, nil
}

// parseDelay fills the per-kind heuristic defaults: 1s for local
// completion, 3s for link-open tasks, 5s when the platform must
// register the action before it is queryable.
func parseDelay(raw string, kind VerifyKind, link string) (time.Duration, error) {
	if raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("bad delay %q: %w", raw, err)
		}
		return d, nil
	}

	switch {
	case kind == VerifyFollow || kind == VerifyRetweet:
		return 5 * time.Second, nil
	case link != "":
		return 3 * time.Second, nil
	default:
		return time.Second, nil
	}
}

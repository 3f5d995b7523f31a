package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// BatchFilter selects which workspace components a run processes.
type BatchFilter struct {
	ResumeAt string
	Skip     []string
	Only     []string
}

// Apply filters names, which must be in iteration order. Resume-at is
// applied first, then the skip set, then the explicit subset.
func (f BatchFilter) Apply(names []string) ([]string, error) {
	selected := names
	if resume := strings.TrimSpace(f.ResumeAt); resume != "" {
		idx := indexOf(names, resume)
		if idx == -1 {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("resume component %s is not in the workspace", resume))
		}
		selected = names[idx:]
	}

	skip := toSet(f.Skip)
	var remaining []string
	for _, name := range selected {
		if _, ok := skip[name]; ok {
			continue
		}
		remaining = append(remaining, name)
	}

	if len(f.Only) == 0 {
		return remaining, nil
	}
	for _, name := range f.Only {
		if indexOf(names, strings.TrimSpace(name)) == -1 {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("component %s is not in the workspace", name))
		}
	}
	only := toSet(f.Only)
	var subset []string
	for _, name := range remaining {
		if _, ok := only[name]; ok {
			subset = append(subset, name)
		}
	}
	return subset, nil
}

func indexOf(values []string, target string) int {
	for i, value := range values {
		if value == target {
			return i
		}
	}
	return -1
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

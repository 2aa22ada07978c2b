package constants

import (
	"fmt"

	apperrors "task-manager.com/task-manager/internal/errors"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []TaskPriority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityUrgent,
}

func ParsePriority(s string) (TaskPriority, error) {
	priority := TaskPriority(s)
	if !priority.Valid() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidPriority, s)
	}
	return priority, nil
}

func (p TaskPriority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities, low=1 through urgent=4; 0 for unknown values.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return 0
}

func (p TaskPriority) Display() Display {
	switch p {
	case PriorityLow:
		return Display{Label: "Low", Color: "gray", Description: "Can wait"}
	case PriorityMedium:
		return Display{Label: "Medium", Color: "yellow", Description: "Normal priority"}
	case PriorityHigh:
		return Display{Label: "High", Color: "orange", Description: "Should be handled soon"}
	case PriorityUrgent:
		return Display{Label: "Urgent", Color: "red", Description: "Needs immediate attention"}
	}
	return Display{Label: string(p), Color: "gray"}
}

func (p TaskPriority) String() string {
	return string(p)
}

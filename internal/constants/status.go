package constants

import (
	"fmt"

	apperrors "task-manager.com/task-manager/internal/errors"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// Statuses lists every status in workflow order.
var Statuses = []TaskStatus{
	StatusPending,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// Display holds the presentation attributes of a status or priority.
type Display struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description"`
}

func ParseStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, s)
	}
	return status, nil
}

func (s TaskStatus) Valid() bool {
	return s.Rank() > 0
}

// Rank is the 1-based workflow position, 0 for unknown values.
func (s TaskStatus) Rank() int {
	switch s {
	case StatusPending:
		return 1
	case StatusInProgress:
		return 2
	case StatusCompleted:
		return 3
	case StatusCancelled:
		return 4
	}
	return 0
}

func (s TaskStatus) Display() Display {
	switch s {
	case StatusPending:
		return Display{Label: "Pending", Color: "yellow", Icon: "clock", Description: "Waiting to be picked up"}
	case StatusInProgress:
		return Display{Label: "In progress", Color: "blue", Icon: "play", Description: "Being worked on"}
	case StatusCompleted:
		return Display{Label: "Completed", Color: "green", Icon: "check", Description: "Finished successfully"}
	case StatusCancelled:
		return Display{Label: "Cancelled", Color: "red", Icon: "x", Description: "Abandoned"}
	}
	return Display{Label: string(s), Color: "gray"}
}

func (s TaskStatus) String() string {
	return string(s)
}

package filters

import (
	"time"

	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/constants"
)

// Overdue matches tasks whose due date is strictly before now and that are
// not completed. model.Task.IsOverdue is its in-memory counterpart.
func Overdue(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.due_date IS NOT NULL AND tasks.due_date < ? AND tasks.status <> ?",
			now.UTC(), constants.StatusCompleted)
	}
}

// DueBetween matches due dates in the half-open interval [from, to).
func DueBetween(from, to time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.due_date >= ? AND tasks.due_date < ?", from.UTC(), to.UTC())
	}
}

func HasDueDate() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.due_date IS NOT NULL")
	}
}

// DayBounds returns the start of the day containing t and the start of the next one,
// in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// WeekBounds returns the Monday-start week containing t, in t's location.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	start, _ := DayBounds(t)
	offset := (int(start.Weekday()) + 6) % 7
	start = start.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

package http

import (
	"time"

	"task-manager.com/task-manager/internal/constants"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/services"
)

type taskResponse struct {
	model.Task
	StatusDisplay   constants.Display `json:"status_display"`
	PriorityDisplay constants.Display `json:"priority_display"`
	IsOverdue       bool              `json:"is_overdue"`
	IsDueToday      bool              `json:"is_due_today"`
}

func newTaskResponse(t *model.Task, now time.Time) taskResponse {
	return taskResponse{
		Task:            *t,
		StatusDisplay:   t.Status.Display(),
		PriorityDisplay: t.Priority.Display(),
		IsOverdue:       t.IsOverdue(now),
		IsDueToday:      t.IsDueToday(now),
	}
}

func newTaskResponses(tasks []model.Task, now time.Time) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, newTaskResponse(&tasks[i], now))
	}
	return out
}

type pageResponse struct {
	Data     []taskResponse `json:"data"`
	Total    int64          `json:"total"`
	Page     int            `json:"current_page"`
	PageSize int            `json:"per_page"`
	LastPage int            `json:"last_page"`
}

func newPageResponse(r *services.PagedResult, now time.Time) pageResponse {
	return pageResponse{
		Data:     newTaskResponses(r.Items, now),
		Total:    r.Total,
		Page:     r.Page,
		PageSize: r.PageSize,
		LastPage: r.LastPage,
	}
}

type calendarEvent struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	Color string    `json:"color"`
}

func newCalendarEvents(tasks []model.Task) []calendarEvent {
	events := make([]calendarEvent, 0, len(tasks))
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		events = append(events, calendarEvent{
			ID:    t.ID,
			Title: t.Title,
			Start: *t.DueDate,
			Color: t.Priority.Display().Color,
		})
	}
	return events
}

type categoryResponse struct {
	model.Category
	FullPath string `json:"full_path"`
}

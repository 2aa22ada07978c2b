package http

import (
	"time"

	"github.com/labstack/echo/v4"

	"task-manager.com/task-manager/internal/services"
)

const dateLayout = "2006-01-02"

type taskRequest struct {
	Title          string     `json:"title" validate:"required,max=255"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"due_date"`
	AssignedTo     *string    `json:"assigned_to"`
	CategoryID     *string    `json:"category_id"`
	ParentID       *string    `json:"parent_id"`
	EstimatedHours float64    `json:"estimated_hours" validate:"gte=0"`
	ActualHours    float64    `json:"actual_hours" validate:"gte=0"`
	Progress       *int       `json:"progress"`
	IsPublic       bool       `json:"is_public"`
	Tags           []string   `json:"tags" validate:"dive,max=50"`
}

func (r taskRequest) input() services.TaskInput {
	return services.TaskInput{
		Title:          r.Title,
		Description:    r.Description,
		Status:         r.Status,
		Priority:       r.Priority,
		DueDate:        r.DueDate,
		AssignedTo:     r.AssignedTo,
		CategoryID:     r.CategoryID,
		ParentID:       r.ParentID,
		EstimatedHours: r.EstimatedHours,
		ActualHours:    r.ActualHours,
		Progress:       r.Progress,
		IsPublic:       r.IsPublic,
		Tags:           r.Tags,
	}
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type priorityRequest struct {
	Priority string `json:"priority" validate:"required"`
}

type assignRequest struct {
	UserID string `json:"user_id"`
}

type progressRequest struct {
	Progress *int `json:"progress" validate:"required"`
}

type dependenciesRequest struct {
	DependencyIDs []string `json:"dependency_ids"`
}

type commentRequest struct {
	Content    string `json:"content" validate:"required"`
	IsInternal bool   `json:"is_internal"`
}

type timeEntryRequest struct {
	Hours       float64 `json:"hours" validate:"gte=0"`
	Description string  `json:"description"`
}

type categoryRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description"`
	Color       string  `json:"color" validate:"omitempty,hexcolor"`
	IsActive    *bool   `json:"is_active"`
	ParentID    *string `json:"parent_id"`
	SortOrder   int     `json:"sort_order" validate:"gte=0"`
}

func (r categoryRequest) input() services.CategoryInput {
	return services.CategoryInput{
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		IsActive:    r.IsActive,
		ParentID:    r.ParentID,
		SortOrder:   r.SortOrder,
	}
}

type tagRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// listParams reads pagination, sorting and filters from the query string.
// Date bounds are whole days in loc; due_date_to covers its entire day.
func listParams(c echo.Context, perPage int, loc *time.Location) (services.ListParams, error) {
	p := services.ListParams{Page: 1, PageSize: perPage}
	var (
		from, to time.Time
		isPublic bool
	)

	err := echo.QueryParamsBinder(c).
		Int("page", &p.Page).
		Int("per_page", &p.PageSize).
		String("sort_by", &p.SortField).
		String("sort_direction", &p.SortDirection).
		Bool("include_deleted", &p.IncludeDeleted).
		String("search", &p.Filters.Search).
		String("status", &p.Filters.Status).
		String("priority", &p.Filters.Priority).
		String("assigned_to", &p.Filters.AssignedTo).
		String("category_id", &p.Filters.CategoryID).
		String("created_by", &p.Filters.CreatedBy).
		Time("due_date_from", &from, dateLayout).
		Time("due_date_to", &to, dateLayout).
		Bool("is_public", &isPublic).
		BindError()
	if err != nil {
		return p, err
	}

	if !from.IsZero() {
		start := startOfDay(from, loc)
		p.Filters.DueDateFrom = &start
	}
	if !to.IsZero() {
		end := startOfDay(to, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
		p.Filters.DueDateTo = &end
	}
	if c.QueryParam("is_public") != "" {
		p.Filters.IsPublic = &isPublic
	}
	return p, nil
}

func startOfDay(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
}


package services

import (
	"errors"
	"testing"

	config "task-manager.com/task-manager/internal/configs"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

func TestCategoryCreateDefaults(t *testing.T) {
	h := newHarness(t, config.DefaultTaskManager())

	category, err := h.categories.Create(h.ctx, CategoryInput{Name: " Work "})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if category.Name != "Work" || category.Color != model.DefaultCategoryColor || !category.IsActive {
		t.Errorf("unexpected defaults: %+v", category)
	}

	if _, err := h.categories.Create(h.ctx, CategoryInput{Name: ""}); !errors.Is(err, apperrors.ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
	if _, err := h.categories.Create(h.ctx, CategoryInput{Name: "x", ParentID: ptr("missing")}); !errors.Is(err, apperrors.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryTree(t *testing.T) {
	h := newHarness(t, config.DefaultTaskManager())
	root, _ := h.categories.Create(h.ctx, CategoryInput{Name: "Work"})
	child, _ := h.categories.Create(h.ctx, CategoryInput{Name: "Backend", ParentID: &root.ID})
	leaf, err := h.categories.Create(h.ctx, CategoryInput{Name: "API", ParentID: &child.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	path, err := h.categories.FullPath(h.ctx, leaf.ID)
	if err != nil {
		t.Fatalf("full path failed: %v", err)
	}
	if path != "Work > Backend > API" {
		t.Errorf("expected full path, got %q", path)
	}

	_, err = h.categories.Update(h.ctx, root.ID, CategoryInput{Name: "Work", ParentID: &leaf.ID})
	if !errors.Is(err, apperrors.ErrCategoryParentCycle) {
		t.Errorf("expected ErrCategoryParentCycle, got %v", err)
	}
	_, err = h.categories.Update(h.ctx, root.ID, CategoryInput{Name: "Work", ParentID: &root.ID})
	if !errors.Is(err, apperrors.ErrCategoryParentCycle) {
		t.Errorf("expected ErrCategoryParentCycle for self parent, got %v", err)
	}
}

func TestCategoryDeleteGuard(t *testing.T) {
	h := newHarness(t, config.DefaultTaskManager())
	parent, _ := h.categories.Create(h.ctx, CategoryInput{Name: "Parent"})
	child, _ := h.categories.Create(h.ctx, CategoryInput{Name: "Child", ParentID: &parent.ID})
	task := h.createTask(t, TaskInput{Title: "filed", CategoryID: &child.ID})

	err := h.categories.Delete(h.ctx, parent.ID)
	if !errors.Is(err, apperrors.ErrCategoryNotEmpty) {
		t.Errorf("expected parent with children to be kept, got %v", err)
	}
	if err := h.categories.Delete(h.ctx, child.ID); !errors.Is(err, apperrors.ErrCategoryNotEmpty) {
		t.Errorf("expected category with tasks to be kept, got %v", err)
	}

	if err := h.tasks.Delete(h.ctx, task.ID); err != nil {
		t.Fatalf("delete task failed: %v", err)
	}
	if err := h.categories.Delete(h.ctx, child.ID); err != nil {
		t.Errorf("expected empty child to be deletable, got %v", err)
	}
	if err := h.categories.Delete(h.ctx, parent.ID); err != nil {
		t.Errorf("expected parent to be deletable after its child, got %v", err)
	}
	if err := h.categories.Delete(h.ctx, parent.ID); !errors.Is(err, apperrors.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryActiveOrdering(t *testing.T) {
	h := newHarness(t, config.DefaultTaskManager())
	_, _ = h.categories.Create(h.ctx, CategoryInput{Name: "Zeta", SortOrder: 1})
	_, _ = h.categories.Create(h.ctx, CategoryInput{Name: "Alpha", SortOrder: 1})
	_, _ = h.categories.Create(h.ctx, CategoryInput{Name: "First", SortOrder: 0})
	_, _ = h.categories.Create(h.ctx, CategoryInput{Name: "Hidden", IsActive: ptr(false)})

	active, err := h.categories.Active(h.ctx)
	if err != nil {
		t.Fatalf("active failed: %v", err)
	}
	want := []string{"First", "Alpha", "Zeta"}
	if len(active) != len(want) {
		t.Fatalf("expected %d active categories, got %d", len(want), len(active))
	}
	for i, c := range active {
		if c.Name != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], c.Name)
		}
	}

	all, _ := h.categories.All(h.ctx)
	if len(all) != 4 {
		t.Errorf("expected 4 categories, got %d", len(all))
	}
}

func TestTagDeleteDetachesTasks(t *testing.T) {
	h := newHarness(t, config.DefaultTaskManager())
	task := h.createTask(t, TaskInput{Title: "tagged", Tags: []string{"keep", "drop"}})

	var drop string
	for _, tag := range task.Tags {
		if tag.Name == "drop" {
			drop = tag.ID
		}
	}
	if err := h.tags.Delete(h.ctx, drop); err != nil {
		t.Fatalf("delete tag failed: %v", err)
	}
	if err := h.tags.Delete(h.ctx, drop); !errors.Is(err, apperrors.ErrTagNotFound) {
		t.Errorf("expected ErrTagNotFound, got %v", err)
	}

	stored, err := h.tasks.Get(h.ctx, task.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(stored.Tags) != 1 || stored.Tags[0].Name != "keep" {
		t.Errorf("expected only the kept tag, got %+v", stored.Tags)
	}

	if _, err := h.tags.Create(h.ctx, " ", ""); !errors.Is(err, apperrors.ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}

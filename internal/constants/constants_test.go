package constants

import (
	"errors"
	"testing"

	apperrors "task-manager.com/task-manager/internal/errors"
)

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(string(s))
		if err != nil {
			t.Errorf("ParseStatus(%q) returned error: %v", s, err)
		}
		if got != s {
			t.Errorf("expected %s, got %s", s, got)
		}
	}

	for _, bad := range []string{"", "bogus", "Completed", "done"} {
		_, err := ParseStatus(bad)
		if !errors.Is(err, apperrors.ErrInvalidStatus) {
			t.Errorf("ParseStatus(%q): expected ErrInvalidStatus, got %v", bad, err)
		}
		if apperrors.KindOf(err) != apperrors.KindInvalidValue {
			t.Errorf("ParseStatus(%q): expected kind %s, got %s", bad, apperrors.KindInvalidValue, apperrors.KindOf(err))
		}
	}
}

func TestParsePriority(t *testing.T) {
	for _, p := range Priorities {
		if _, err := ParsePriority(string(p)); err != nil {
			t.Errorf("ParsePriority(%q) returned error: %v", p, err)
		}
	}

	_, err := ParsePriority("critical")
	if !errors.Is(err, apperrors.ErrInvalidPriority) {
		t.Errorf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestDisplayTablesCoverEveryValue(t *testing.T) {
	seen := make(map[int]bool)
	for _, s := range Statuses {
		d := s.Display()
		if d.Label == "" || d.Label == string(s) || d.Color == "gray" {
			t.Errorf("status %s has no display entry", s)
		}
		if seen[s.Rank()] {
			t.Errorf("status %s shares rank %d", s, s.Rank())
		}
		seen[s.Rank()] = true
	}

	prev := 0
	for _, p := range Priorities {
		if p.Display().Label == string(p) {
			t.Errorf("priority %s has no display entry", p)
		}
		if p.Rank() <= prev {
			t.Errorf("priority %s rank %d is not above %d", p, p.Rank(), prev)
		}
		prev = p.Rank()
	}
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", ErrInvalidPagination, http.StatusBadRequest},
		{"invalid value", ErrInvalidStatus, http.StatusUnprocessableEntity},
		{"not found", ErrTaskNotFound, http.StatusNotFound},
		{"precondition", ErrDependenciesIncomplete, http.StatusPreconditionFailed},
		{"wrapped", fmt.Errorf("%w: %q", ErrInvalidPriority, "x"), http.StatusUnprocessableEntity},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("change status: %w", fmt.Errorf("%w: %q", ErrInvalidStatus, "bogus"))

	if !errors.Is(err, ErrInvalidStatus) {
		t.Error("expected wrapped error to match ErrInvalidStatus")
	}
	if KindOf(err) != KindInvalidValue {
		t.Errorf("expected kind %s, got %s", KindInvalidValue, KindOf(err))
	}
	if !IsKind(err, KindInvalidValue) {
		t.Error("expected IsKind to report invalid_value")
	}
	if IsKind(nil, KindInternal) {
		t.Error("nil error must not match any kind")
	}
}

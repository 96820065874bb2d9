package uinputdev

import (
	"errors"
	"testing"

	"github.com/codethink/qad-fixture/internal/backend"
)

func TestRouteMapsLogicalEventNumbers(t *testing.T) {
	b := &Backend{mouseFd: 10, keyboardFd: 11, touchFd: 12}

	cases := []struct {
		event  int
		wantFd int
	}{
		{0, 10},
		{1, 11},
		{2, 12},
	}
	for _, c := range cases {
		fd, err := b.route(c.event)
		if err != nil {
			t.Fatalf("route(%d) error: %v", c.event, err)
		}
		if fd != c.wantFd {
			t.Fatalf("route(%d) = %d, want %d", c.event, fd, c.wantFd)
		}
	}
}

func TestRouteRejectsUnknownEventNumber(t *testing.T) {
	b := &Backend{mouseFd: 10, keyboardFd: 11, touchFd: 12}
	_, err := b.route(3)
	if err == nil {
		t.Fatal("route(3) should fail")
	}
	var be *backend.Error
	if !errors.As(err, &be) {
		t.Fatalf("error type = %T, want *backend.Error", err)
	}
	if be.Kind != backend.BadInput {
		t.Fatalf("kind = %v, want BadInput", be.Kind)
	}
}

package evdevio

import (
	"errors"
	"testing"

	"github.com/codethink/qad-fixture/internal/backend"
)

func TestMoveOnMissingDeviceIsDeviceUnavailable(t *testing.T) {
	b := New()
	// event 9999 has no /dev/input/event9999 on any real or test host.
	err := b.Move(9999, 1, 1)
	if err == nil {
		t.Fatal("expected error opening a nonexistent event device")
	}
	var be *backend.Error
	if !errors.As(err, &be) {
		t.Fatalf("error type = %T, want *backend.Error", err)
	}
	if be.Kind != backend.DeviceUnavailable {
		t.Fatalf("kind = %v, want DeviceUnavailable", be.Kind)
	}
}

func TestDevicePathFormatsEventNumber(t *testing.T) {
	if got, want := devicePath(3), "/dev/input/event3"; got != want {
		t.Fatalf("devicePath(3) = %q, want %q", got, want)
	}
}

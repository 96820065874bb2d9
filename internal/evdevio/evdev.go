// Package evdevio implements the evdev passthrough input backend (component
// D): for each gesture it opens /dev/input/eventN fresh, runs the codec
// sequence, and closes the fd on every exit path, including error paths.
package evdevio

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/codethink/qad-fixture/internal/backend"
	"github.com/codethink/qad-fixture/internal/gesture"
)

// Backend implements backend.InputBackend by opening /dev/input/event{N}
// per call. event is the numeric suffix; the caller (registry/classifier)
// resolves it beforehand. Opening failure is fatal for that single request
// (spec §4.D), never for the backend as a whole.
type Backend struct{}

// New returns an evdev passthrough backend. There is no per-process state to
// construct (each gesture opens its own fd), but a constructor keeps the
// shape symmetric with uinputdev.New for the registry.
func New() *Backend {
	return &Backend{}
}

func devicePath(event int) string {
	return fmt.Sprintf("/dev/input/event%d", event)
}

func open(event int) (int, error) {
	fd, err := unix.Open(devicePath(event), unix.O_RDWR, 0)
	if err != nil {
		return -1, backend.NewError(backend.DeviceUnavailable, "evdevio.open", err)
	}
	return fd, nil
}

func (b *Backend) Move(event int, x, y int32) error {
	fd, err := open(event)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	if !gesture.Move(fd, x, y) {
		return backend.NewError(backend.IoFailure, "evdevio.Move", nil)
	}
	return nil
}

func (b *Backend) Button(event int, value int32) error {
	fd, err := open(event)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	if !gesture.Button(fd, value) {
		return backend.NewError(backend.IoFailure, "evdevio.Button", nil)
	}
	return nil
}

func (b *Backend) Touch(event int, x, y int32, duration time.Duration) error {
	fd, err := open(event)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	if !gesture.Touch(fd, x, y, duration) {
		return backend.NewError(backend.IoFailure, "evdevio.Touch", nil)
	}
	return nil
}

func (b *Backend) Swipe(event int, x1, y1, x2, y2 int32, steps int) error {
	fd, err := open(event)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	ok, gerr := gesture.Swipe(fd, x1, y1, x2, y2, steps)
	if gerr != nil {
		return backend.NewError(backend.BadInput, "evdevio.Swipe", gerr)
	}
	if !ok {
		return backend.NewError(backend.IoFailure, "evdevio.Swipe", nil)
	}
	return nil
}

func (b *Backend) Key(event int, code uint16) error {
	fd, err := open(event)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	if !gesture.Key(fd, code) {
		return backend.NewError(backend.IoFailure, "evdevio.Key", nil)
	}
	return nil
}

func (b *Backend) Text(event int, codes []uint16) error {
	fd, err := open(event)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	if !gesture.Text(fd, codes) {
		return backend.NewError(backend.IoFailure, "evdevio.Text", nil)
	}
	return nil
}

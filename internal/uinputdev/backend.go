package uinputdev

import (
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/codethink/qad-fixture/internal/backend"
	"github.com/codethink/qad-fixture/internal/gesture"
)

// Backend implements backend.InputBackend over a VirtualDeviceSet: it routes
// a logical event number to one of three long-lived fds and drives the
// gesture sequencer against it. Grounded on the routing contract in spec
// §4.C: 0→mouse, 1→keyboard, 2→touch; anything else is BadInput.
type Backend struct {
	mouseFd, keyboardFd, touchFd int
}

// New creates the mouse/keyboard/touch virtual device triple and returns a
// Backend wrapping it. The caller owns the returned Backend's lifetime;
// Close tears down all three uinput devices.
func New() (*Backend, error) {
	mouseFd, keyboardFd, touchFd, err := Create()
	if err != nil {
		return nil, backend.NewError(backend.DeviceUnavailable, "uinputdev.New", err)
	}
	return &Backend{mouseFd: mouseFd, keyboardFd: keyboardFd, touchFd: touchFd}, nil
}

// Close destroys all three virtual devices. Only ever called at process
// shutdown; per spec §3 the registry never tears down backends mid-run.
func (b *Backend) Close() error {
	var result *multierror.Error
	for _, fd := range []int{b.mouseFd, b.keyboardFd, b.touchFd} {
		if err := Destroy(fd); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// route resolves a logical event number to one of the three device fds.
func (b *Backend) route(event int) (int, error) {
	switch event {
	case 0:
		return b.mouseFd, nil
	case 1:
		return b.keyboardFd, nil
	case 2:
		return b.touchFd, nil
	default:
		return -1, backend.NewError(backend.BadInput, "uinputdev.route", nil)
	}
}

func (b *Backend) Move(event int, x, y int32) error {
	fd, err := b.route(event)
	if err != nil {
		return err
	}
	if !gesture.Move(fd, x, y) {
		return backend.NewError(backend.IoFailure, "uinputdev.Move", nil)
	}
	return nil
}

func (b *Backend) Button(event int, value int32) error {
	fd, err := b.route(event)
	if err != nil {
		return err
	}
	if !gesture.Button(fd, value) {
		return backend.NewError(backend.IoFailure, "uinputdev.Button", nil)
	}
	return nil
}

func (b *Backend) Touch(event int, x, y int32, duration time.Duration) error {
	fd, err := b.route(event)
	if err != nil {
		return err
	}
	if !gesture.Touch(fd, x, y, duration) {
		return backend.NewError(backend.IoFailure, "uinputdev.Touch", nil)
	}
	return nil
}

func (b *Backend) Swipe(event int, x1, y1, x2, y2 int32, steps int) error {
	fd, err := b.route(event)
	if err != nil {
		return err
	}
	ok, gerr := gesture.Swipe(fd, x1, y1, x2, y2, steps)
	if gerr != nil {
		return backend.NewError(backend.BadInput, "uinputdev.Swipe", gerr)
	}
	if !ok {
		return backend.NewError(backend.IoFailure, "uinputdev.Swipe", nil)
	}
	return nil
}

func (b *Backend) Key(event int, code uint16) error {
	fd, err := b.route(event)
	if err != nil {
		return err
	}
	if !gesture.Key(fd, code) {
		return backend.NewError(backend.IoFailure, "uinputdev.Key", nil)
	}
	return nil
}

func (b *Backend) Text(event int, codes []uint16) error {
	fd, err := b.route(event)
	if err != nil {
		return err
	}
	if !gesture.Text(fd, codes) {
		return backend.NewError(backend.IoFailure, "uinputdev.Text", nil)
	}
	return nil
}

// Package gesture composes the event codec (internal/inputevent) into the
// higher-level operations both input backends expose: move, button, touch,
// swipe, key, text. Each operation either succeeds atomically or fails,
// leaving no partial state visible except kernel-observed interim events.
// See spec §4.B and the propagation policy in spec §7.
package gesture

import (
	"errors"
	"time"

	"github.com/codethink/qad-fixture/internal/inputcodes"
	"github.com/codethink/qad-fixture/internal/inputevent"
)

// ErrZeroVelocity is returned by Swipe when v == 0 (division by zero in the
// step computation); spec §9 calls this out as an open question resolved in
// favour of rejecting it as BadInput at the caller's layer.
var ErrZeroVelocity = errors.New("gesture: swipe velocity must be non-zero")

// Move emits MT_POSITION_X/Y then SYN. Scenario 1 in spec §8: exactly 3
// records on success.
func Move(fd int, x, y int32) bool {
	return inputevent.PositionMT(fd, x, y) && inputevent.Syn(fd)
}

// Button emits MT_TRACKING_ID (100 on press, -1 on release), BTN_TOUCH,
// SYN. Scenario 2 in spec §8.
func Button(fd int, value int32) bool {
	tracking := int32(inputcodes.TrackingIDUp)
	if value != 0 {
		tracking = inputcodes.TrackingIDDown
	}
	return inputevent.Tracking(fd, tracking) &&
		inputevent.Button(fd, value) &&
		inputevent.Syn(fd)
}

// Touch emits a full contact-down sequence, optionally blocks for duration
// seconds (the gesture sequencer is synchronous, spec §5), then emits the
// contact-up sequence. Satisfies P2: one BTN_TOUCH=1 and one BTN_TOUCH=0.
func Touch(fd int, x, y int32, duration time.Duration) bool {
	ok := inputevent.Tracking(fd, inputcodes.TrackingIDDown) &&
		inputevent.PositionMT(fd, x, y) &&
		inputevent.Button(fd, inputcodes.ButtonDown) &&
		inputevent.PositionAbs(fd, x, y) &&
		inputevent.Syn(fd)
	if !ok {
		return false
	}

	if duration > 0 {
		time.Sleep(duration)
	}

	return inputevent.Tracking(fd, inputcodes.TrackingIDUp) &&
		inputevent.Button(fd, inputcodes.ButtonUp) &&
		inputevent.Syn(fd)
}

// Swipe interpolates v discrete steps between (x1,y1) and (x2,y2), sleeping
// 500ms between each. v is a step count, not a physical velocity. The
// externally-visible name stays "velocity" for interface compatibility but
// the semantics are steps (spec §9). Satisfies P3: exactly one
// MT_TRACKING_ID=100 strictly before exactly one MT_TRACKING_ID=-1.
func Swipe(fd int, x1, y1, x2, y2 int32, v int) (bool, error) {
	if v == 0 {
		return false, ErrZeroVelocity
	}

	stepsX := -(x1 - x2) / int32(v)
	stepsY := -(y1 - y2) / int32(v)
	const pressure = 50
	major := int32(2)

	ok := inputevent.Major(fd, major) &&
		inputevent.Pressure(fd, pressure) &&
		inputevent.PositionMT(fd, x1, y1) &&
		inputevent.Tracking(fd, inputcodes.TrackingIDDown) &&
		inputevent.Button(fd, inputcodes.ButtonDown) &&
		inputevent.Syn(fd)
	if !ok {
		return false, nil
	}

	x, y := x1, y1
	lastMajor := major
	for i := 0; i < v; i++ {
		ok = inputevent.Major(fd, major) &&
			inputevent.Pressure(fd, pressure) &&
			inputevent.PositionMT(fd, x, y) &&
			inputevent.Syn(fd)
		if !ok {
			return false, nil
		}
		lastMajor = major
		major++
		time.Sleep(500 * time.Millisecond)
		x += stepsX
		y += stepsY
	}

	ok = inputevent.Major(fd, lastMajor) &&
		inputevent.Pressure(fd, pressure) &&
		inputevent.PositionMT(fd, x2, y2) &&
		inputevent.Syn(fd)
	if !ok {
		return false, nil
	}

	// Footer: zero out major/width/pressure, release tracking and touch.
	return inputevent.Major(fd, 0) &&
		inputevent.Pressure(fd, 0) &&
		inputevent.Tracking(fd, inputcodes.TrackingIDUp) &&
		inputevent.Button(fd, inputcodes.ButtonUp) &&
		inputevent.Syn(fd), nil
}

// Key presses then releases code, followed by SYN.
func Key(fd int, code uint16) bool {
	return inputevent.Key(fd, code) && inputevent.Syn(fd)
}

// Text presses-releases-syns each code in order, sleeping 1s between
// keystrokes. Partial failure halts the remainder and reports false.
func Text(fd int, codes []uint16) bool {
	for _, code := range codes {
		if !(inputevent.Key(fd, code) && inputevent.Syn(fd)) {
			return false
		}
		time.Sleep(1000 * time.Millisecond)
	}
	return true
}

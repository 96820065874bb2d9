// Package inputcodes holds the numeric Linux input-event constants the rest
// of the backend needs. Values come straight from linux/input-event-codes.h;
// we keep only the subset the gesture sequencer and device factories touch.
package inputcodes

// Event types (input_event.type).
const (
	EV_SYN = 0x00
	EV_KEY = 0x01
	EV_REL = 0x02
	EV_ABS = 0x03
)

// SYN codes.
const (
	SYN_REPORT = 0x00
)

// Key/button codes.
const (
	BTN_LEFT  = 0x110
	BTN_RIGHT = 0x111
	BTN_TOUCH = 0x14a

	KEY_ESC   = 0x01
	KEY_RIGHT = 0x6a
)

// Relative axes.
const (
	REL_X = 0x00
	REL_Y = 0x01
)

// Absolute axes.
const (
	ABS_X             = 0x00
	ABS_Y             = 0x01
	ABS_MT_SLOT       = 0x2f
	ABS_MT_TOUCH_MAJOR = 0x30
	ABS_MT_WIDTH_MAJOR = 0x32
	ABS_MT_PRESSURE    = 0x3a
	ABS_MT_TRACKING_ID = 0x39
	ABS_MT_POSITION_X  = 0x35
	ABS_MT_POSITION_Y  = 0x36
)

// Bus types, used by the uinput device-setup records.
const (
	BUS_USB = 0x03
)

// Touch contact convention shared by the gesture sequencer: 100 starts a
// contact's tracking id, -1 ends it. Not a kernel constant, just how this
// backend always drives MT_TRACKING_ID.
const (
	TrackingIDDown = 100
	TrackingIDUp   = -1
)

// ButtonDown/ButtonUp are the BTN_TOUCH / generic button values used by the
// gesture sequencer's button and touch operations.
const (
	ButtonUp   = 0
	ButtonDown = 1
)

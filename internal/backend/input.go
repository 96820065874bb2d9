package backend

import "time"

// InputBackend is the interface both uinput and evdev backends satisfy: the
// gesture sequencer operations from spec §4.B, each keyed by a logical
// event number the caller resolves via internal/devclass beforehand.
type InputBackend interface {
	Move(event int, x, y int32) error
	Button(event int, value int32) error
	Touch(event int, x, y int32, duration time.Duration) error
	Swipe(event int, x1, y1, x2, y2 int32, steps int) error
	Key(event int, code uint16) error
	Text(event int, codes []uint16) error
}

// ScreenBackend is the interface both KMS and ILM screen backends satisfy.
type ScreenBackend interface {
	// Screenshot returns a complete encoded image for screenID, or an
	// *Error with Kind Unavailable/DeviceUnavailable/EncodeFailure.
	Screenshot(screenID int) (ImageData, error)

	// ListScreens renders one line per CRTC-shaped entry, in the form
	// "CRTC: ID=<id>, mode_valid=<0|1>", per spec §6.
	ListScreens() (string, error)
}

// ImageKind selects the response MIME the network layer should use.
type ImageKind int

const (
	ImageNone ImageKind = iota
	ImagePNG
	ImageBMP
)

// ImageData is a complete in-memory image file plus its kind, per spec §3.
type ImageData struct {
	Bytes []byte
	Kind  ImageKind
}

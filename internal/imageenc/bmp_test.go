package imageenc

import (
	"bytes"
	"image/color"
	"testing"

	ximagebmp "golang.org/x/image/bmp"
)

// P8 (spec §8): a BMP produced by EncodeBMP round-trips through a real BMP
// decoder. BMP is bottom-up for a positive height, so raw row 0 is the
// bottom-most displayed row; we build the fixture with that convention.
func TestEncodeBMPRoundTrip(t *testing.T) {
	const width, height, pitch = 2, 2, 2 * 4

	// Bottom row (raw row 0): blue, green. Top row (raw row 1): red, white.
	raw := []byte{
		0xff, 0x00, 0x00, 0x00, // B=ff,G=0,R=0 -> blue
		0x00, 0xff, 0x00, 0x00, // green
		0x00, 0x00, 0xff, 0x00, // red
		0xff, 0xff, 0xff, 0x00, // white
	}

	encoded := EncodeBMP(raw, width, height, pitch)
	if len(encoded) != bmpHeaderSize+pitch*height {
		t.Fatalf("encoded length = %d, want %d", len(encoded), bmpHeaderSize+pitch*height)
	}
	if encoded[0] != 'B' || encoded[1] != 'M' {
		t.Fatalf("missing BM magic: %x %x", encoded[0], encoded[1])
	}

	img, err := ximagebmp.Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if img.Bounds().Dx() != width || img.Bounds().Dy() != height {
		t.Fatalf("decoded bounds = %v, want %dx%d", img.Bounds(), width, height)
	}

	// Bottom-up convention: raw row 0 (blue, green) is the bottom display
	// row, i.e. y = height-1 in the decoded image.
	wantBottomLeft := color.NRGBA{R: 0, G: 0, B: 0xff, A: 0xff}
	r, g, b, a := img.At(0, height-1).RGBA()
	got := color.NRGBA{R: byte(r >> 8), G: byte(g >> 8), B: byte(b >> 8), A: byte(a >> 8)}
	if got != wantBottomLeft {
		t.Fatalf("bottom-left pixel = %+v, want %+v", got, wantBottomLeft)
	}
}

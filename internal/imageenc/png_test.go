package imageenc

import (
	"bytes"
	"image/png"
	"testing"
)

func TestEncodePNGRGBRoundTrip(t *testing.T) {
	const w, h, pitch = 2, 1, 2 * 4
	raw := []byte{
		0x10, 0x20, 0x30, 0x00, // R=10,G=20,B=30
		0x40, 0x50, 0x60, 0x00,
	}

	out, err := EncodePNG(raw, EncodePNGOptions{Width: w, Height: h, Pitch: pitch, BPP: 32, RGB: true})
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if byte(r>>8) != 0x10 || byte(g>>8) != 0x20 || byte(b>>8) != 0x30 {
		t.Fatalf("pixel(0,0) = (%x,%x,%x), want (10,20,30)", r>>8, g>>8, b>>8)
	}
}

func TestEncodePNGBGRSwap(t *testing.T) {
	const w, h, pitch = 1, 1, 4
	raw := []byte{0x30, 0x20, 0x10, 0x00} // stored as BGR: B=30 G=20 R=10

	out, err := EncodePNG(raw, EncodePNGOptions{Width: w, Height: h, Pitch: pitch, BPP: 32, RGB: false})
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if byte(r>>8) != 0x10 || byte(g>>8) != 0x20 || byte(b>>8) != 0x30 {
		t.Fatalf("pixel(0,0) = (%x,%x,%x), want (10,20,30) after bgr undo", r>>8, g>>8, b>>8)
	}
}

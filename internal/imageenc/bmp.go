package imageenc

import "encoding/binary"

// bmpHeaderSize is the fixed 54-byte BITMAPFILEHEADER+BITMAPINFOHEADER size
// the original always emits (sizeof(BMPHeader) in bmp.cpp).
const bmpHeaderSize = 54

// EncodeBMP writes the fixed 54-byte header followed by pitch*height raw
// bytes verbatim, mirroring bmp.cpp's encode_bmp exactly: 32 bits per pixel,
// no compression, image_size = pitch*height. The caller is responsible for
// the incoming byte layout already matching BMP's bottom-up BGR[A]
// convention; this encoder does not reorder anything.
func EncodeBMP(raw []byte, width, height, pitch int) []byte {
	imageSize := pitch * height
	out := make([]byte, bmpHeaderSize+imageSize)

	// BITMAPFILEHEADER
	binary.LittleEndian.PutUint16(out[0:2], 0x4D42) // "BM"
	binary.LittleEndian.PutUint32(out[2:6], uint32(bmpHeaderSize+imageSize))
	binary.LittleEndian.PutUint16(out[6:8], 0)  // reserved1
	binary.LittleEndian.PutUint16(out[8:10], 0) // reserved2
	binary.LittleEndian.PutUint32(out[10:14], bmpHeaderSize)

	// BITMAPINFOHEADER
	binary.LittleEndian.PutUint32(out[14:18], bmpHeaderSize-14)
	binary.LittleEndian.PutUint32(out[18:22], uint32(int32(width)))
	binary.LittleEndian.PutUint32(out[22:26], uint32(int32(height)))
	binary.LittleEndian.PutUint16(out[26:28], 1)  // planes
	binary.LittleEndian.PutUint16(out[28:30], 32) // bpp
	binary.LittleEndian.PutUint32(out[30:34], 0)  // compression
	binary.LittleEndian.PutUint32(out[34:38], uint32(imageSize))
	binary.LittleEndian.PutUint32(out[38:42], 0) // x_resolution
	binary.LittleEndian.PutUint32(out[42:46], 0) // y_resolution
	binary.LittleEndian.PutUint32(out[46:50], 0) // colors
	binary.LittleEndian.PutUint32(out[50:54], 0) // important_colors

	copy(out[bmpHeaderSize:], raw[:imageSize])
	return out
}

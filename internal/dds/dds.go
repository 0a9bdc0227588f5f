// Package dds reads and writes DirectDraw Surface textures as pixel buffers.
//
// Encoding supports uncompressed RGBA8 and the DXT1/DXT5 block formats.
// Decoding supports DXT1, DXT3, DXT5 and uncompressed 24/32-bit RGB(A).
package dds

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Codec selects how pixel data is stored.
type Codec int

const (
	// Lossless stores 32-bit RGBA scanlines.
	Lossless Codec = iota
	// DXT1 stores opaque or 1-bit alpha blocks.
	DXT1
	// DXT5 stores blocks with interpolated alpha.
	DXT5
)

var ErrUnknownCodec = errors.New("unknown dds codec")

func (c Codec) String() string {
	switch c {
	case Lossless:
		return "lossless"
	case DXT1:
		return "dxt1"
	case DXT5:
		return "dxt5"
	}
	return fmt.Sprintf("Codec(%d)", int(c))
}

// ParseCodec accepts "lossless", "dxt1" or "dxt5" in any case.
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lossless", "rgba":
		return Lossless, nil
	case "dxt1":
		return DXT1, nil
	case "dxt5":
		return DXT5, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownCodec)
}

const (
	magic      = "DDS "
	headerSize = 124
	fileHeader = 4 + headerSize

	// offsets inside the 124-byte header
	offFlags       = 4
	offHeight      = 8
	offWidth       = 12
	offPitchLinear = 16
	offPixelFormat = 72
	offCaps        = 104

	pixelFormatSize = 32

	flagCaps        = 0x1
	flagHeight      = 0x2
	flagWidth       = 0x4
	flagPitch       = 0x8
	flagPixelFormat = 0x1000
	flagLinearSize  = 0x80000

	pfAlphaPixels = 0x1
	pfFourCC      = 0x4
	pfRGB         = 0x40

	capsTexture = 0x1000
)

func blockCount(width, height int) int {
	return ((width + 3) / 4) * ((height + 3) / 4)
}

// writeHeader writes the magic and the 124-byte header for a single-surface
// texture.
func writeHeader(w io.Writer, width, height int, c Codec) error {
	var hdr [fileHeader]byte
	copy(hdr[:4], magic)
	h := hdr[4:]
	le := binary.LittleEndian

	le.PutUint32(h[0:], headerSize)
	le.PutUint32(h[offHeight:], uint32(height))
	le.PutUint32(h[offWidth:], uint32(width))

	pf := h[offPixelFormat : offPixelFormat+pixelFormatSize]
	le.PutUint32(pf[0:], pixelFormatSize)

	flags := uint32(flagCaps | flagHeight | flagWidth | flagPixelFormat)
	switch c {
	case Lossless:
		flags |= flagPitch
		le.PutUint32(h[offPitchLinear:], uint32(width*4))
		le.PutUint32(pf[4:], pfRGB|pfAlphaPixels)
		le.PutUint32(pf[12:], 32)
		le.PutUint32(pf[16:], 0x000000FF)
		le.PutUint32(pf[20:], 0x0000FF00)
		le.PutUint32(pf[24:], 0x00FF0000)
		le.PutUint32(pf[28:], 0xFF000000)
	case DXT1, DXT5:
		blockBytes := 8
		fourCC := "DXT1"
		if c == DXT5 {
			blockBytes = 16
			fourCC = "DXT5"
		}
		flags |= flagLinearSize
		le.PutUint32(h[offPitchLinear:], uint32(blockCount(width, height)*blockBytes))
		le.PutUint32(pf[4:], pfFourCC)
		copy(pf[8:12], fourCC)
	default:
		return fmt.Errorf("%v: %w", c, ErrUnknownCodec)
	}
	le.PutUint32(h[offFlags:], flags)
	le.PutUint32(h[offCaps:], capsTexture)

	_, err := w.Write(hdr[:])
	return err
}

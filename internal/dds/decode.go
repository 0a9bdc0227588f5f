package dds

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"

	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/mauserzjeh/dxt"
)

var (
	ErrNotDDS      = errors.New("not a dds file")
	ErrUnsupported = errors.New("unsupported dds pixel format")
)

// Decode parses a DDS file. Only the top-level surface is read; mipmaps and
// DX10 extension headers are not supported.
func Decode(data []byte) (*pixel.Buffer, error) {
	if len(data) < fileHeader {
		return nil, fmt.Errorf("%d bytes is shorter than the header: %w", len(data), ErrNotDDS)
	}
	if string(data[:4]) != magic {
		return nil, fmt.Errorf("bad magic %q: %w", data[:4], ErrNotDDS)
	}
	le := binary.LittleEndian
	h := data[4:fileHeader]
	height := int(le.Uint32(h[offHeight:]))
	width := int(le.Uint32(h[offWidth:]))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("dimensions %dx%d: %w", width, height, ErrNotDDS)
	}

	pf := h[offPixelFormat : offPixelFormat+pixelFormatSize]
	pfFlags := le.Uint32(pf[4:])
	fourCC := string(pf[8:12])
	body := data[fileHeader:]

	var (
		rgba []byte
		err  error
	)
	switch {
	case pfFlags&pfFourCC != 0:
		switch fourCC {
		case "DXT1":
			rgba, err = dxt.DecodeDXT1(body, uint(width), uint(height))
		case "DXT3":
			rgba, err = dxt.DecodeDXT3(body, uint(width), uint(height))
		case "DXT5":
			rgba, err = dxt.DecodeDXT5(body, uint(width), uint(height))
		default:
			return nil, fmt.Errorf("fourCC %q: %w", fourCC, ErrUnsupported)
		}
	case pfFlags&pfRGB != 0:
		rgba, err = decodeMasked(body, width, height, pf, pfFlags&pfAlphaPixels != 0)
	default:
		return nil, fmt.Errorf("pixel format flags %#x: %w", pfFlags, ErrUnsupported)
	}
	if err != nil {
		return nil, fmt.Errorf("dds %s: %w", fourCCOrRGB(pfFlags, fourCC), err)
	}

	if want := width * height * 4; len(rgba) > want {
		rgba = rgba[:want]
	}
	return pixel.Wrap(width, height, rgba)
}

func fourCCOrRGB(flags uint32, fourCC string) string {
	if flags&pfFourCC != 0 {
		return fourCC
	}
	return "rgb"
}

type channelMask struct {
	mask  uint32
	shift int
	max   uint32
}

func newChannelMask(m uint32) channelMask {
	if m == 0 {
		return channelMask{}
	}
	shift := bits.TrailingZeros32(m)
	return channelMask{mask: m, shift: shift, max: m >> shift}
}

func (c channelMask) extract(v uint32) byte {
	if c.mask == 0 {
		return 0
	}
	raw := (v & c.mask) >> c.shift
	if c.max == 0xFF {
		return byte(raw)
	}
	return byte((raw*255 + c.max/2) / c.max)
}

// decodeMasked reads 24- or 32-bit scanlines, locating each channel by the
// bit masks in the pixel format.
func decodeMasked(body []byte, width, height int, pf []byte, hasAlpha bool) ([]byte, error) {
	le := binary.LittleEndian
	bitCount := le.Uint32(pf[12:])
	if bitCount != 24 && bitCount != 32 {
		return nil, fmt.Errorf("%d bits per pixel: %w", bitCount, ErrUnsupported)
	}
	bpp := int(bitCount / 8)
	if need := width * height * bpp; len(body) < need {
		return nil, fmt.Errorf("pixel data is %d bytes, need %d: %w", len(body), need, ErrNotDDS)
	}

	rm, gm, bm := le.Uint32(pf[16:]), le.Uint32(pf[20:]), le.Uint32(pf[24:])
	am := uint32(0)
	if hasAlpha {
		am = le.Uint32(pf[28:])
	}
	if rm == 0 && gm == 0 && bm == 0 {
		// Masks missing: assume the common BGR(A) layout.
		rm, gm, bm = 0x00FF0000, 0x0000FF00, 0x000000FF
		if hasAlpha && bpp == 4 {
			am = 0xFF000000
		}
	}
	r, g, b, a := newChannelMask(rm), newChannelMask(gm), newChannelMask(bm), newChannelMask(am)

	out := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		px := body[i*bpp : i*bpp+bpp]
		v := uint32(px[0]) | uint32(px[1])<<8 | uint32(px[2])<<16
		if bpp == 4 {
			v |= uint32(px[3]) << 24
		}
		o := i * 4
		out[o] = r.extract(v)
		out[o+1] = g.extract(v)
		out[o+2] = b.extract(v)
		if a.mask != 0 {
			out[o+3] = a.extract(v)
		} else {
			out[o+3] = 0xFF
		}
	}
	return out, nil
}

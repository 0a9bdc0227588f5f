// Package codec moves pixel buffers in and out of image files.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dblezek/tga"
	"github.com/disintegration/imaging"
	"github.com/erinpentecost/canvasfx/internal/dds"
	"github.com/erinpentecost/canvasfx/internal/pixel"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

type Format int

const (
	Unknown Format = iota
	PNG
	JPEG
	BMP
	TGA
	DDS
	WebP
)

var formatNames = map[Format]string{
	PNG:  "png",
	JPEG: "jpeg",
	BMP:  "bmp",
	TGA:  "tga",
	DDS:  "dds",
	WebP: "webp",
}

var extensions = map[string]Format{
	"png":  PNG,
	"jpg":  JPEG,
	"jpeg": JPEG,
	"bmp":  BMP,
	"tga":  TGA,
	"dds":  DDS,
	"webp": WebP,
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return "unknown"
}

// ParseFormat accepts a format name or file extension, with or without the
// leading dot.
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if f, ok := extensions[key]; ok {
		return f, nil
	}
	return Unknown, fmt.Errorf("%q: %w", s, ErrUnsupportedFormat)
}

// FormatFromPath picks a format by file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return Unknown, fmt.Errorf("%s has no extension: %w", path, ErrUnsupportedFormat)
	}
	return ParseFormat(ext)
}

// Decode reads an image of format f into a new buffer.
func Decode(r io.Reader, f Format) (*pixel.Buffer, error) {
	switch f {
	case PNG, JPEG:
		img, err := imaging.Decode(r, imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", f, err)
		}
		return pixel.FromImage(img), nil
	case BMP:
		img, err := bmp.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("decode bmp: %w", err)
		}
		return pixel.FromImage(img), nil
	case TGA:
		img, err := tga.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("decode tga: %w", err)
		}
		return pixel.FromImage(img), nil
	case WebP:
		img, err := webp.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("decode webp: %w", err)
		}
		return pixel.FromImage(img), nil
	case DDS:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read dds: %w", err)
		}
		buf, err := dds.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode dds: %w", err)
		}
		return buf, nil
	}
	return nil, fmt.Errorf("decode %s: %w", f, ErrUnsupportedFormat)
}

// Encode writes b in format f. quality in [0,1] only affects JPEG; values
// outside the range are clamped and 0 selects the imaging default.
func Encode(w io.Writer, b *pixel.Buffer, f Format, quality float64) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	img := b.NRGBA()
	var err error
	switch f {
	case PNG:
		err = imaging.Encode(w, img, imaging.PNG)
	case JPEG:
		var opts []imaging.EncodeOption
		if quality > 0 {
			opts = append(opts, imaging.JPEGQuality(jpegQuality(quality)))
		}
		err = imaging.Encode(w, img, imaging.JPEG, opts...)
	case BMP:
		err = bmp.Encode(w, img)
	case TGA:
		err = tga.Encode(w, img)
	case DDS:
		err = dds.Encode(w, b, dds.Lossless)
	default:
		return fmt.Errorf("encode %s: %w", f, ErrUnsupportedFormat)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

func jpegQuality(q float64) int {
	return max(1, min(100, int(math.Round(pixel.Clamp01(q)*100))))
}

// DecodeFile reads path, choosing the decoder by extension.
func DecodeFile(path string) (*pixel.Buffer, Format, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, Unknown, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, f, fmt.Errorf("read %s: %w", path, err)
	}
	buf, err := Decode(bytes.NewReader(data), f)
	if err != nil {
		return nil, f, fmt.Errorf("%s: %w", path, err)
	}
	return buf, f, nil
}

// EncodeFile writes b to path, choosing the encoder by extension. The file is
// only created once the image has encoded successfully.
func EncodeFile(path string, b *pixel.Buffer, quality float64) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := Encode(&out, b, f, quality); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

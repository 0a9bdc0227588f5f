package dds

import (
	"bufio"
	"fmt"
	"io"

	"github.com/erinpentecost/canvasfx/internal/pixel"
)

// Encode writes b as a DDS texture using codec c.
func Encode(w io.Writer, b *pixel.Buffer, c Codec) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("dds encode: %w", err)
	}
	if b.Width == 0 || b.Height == 0 {
		return fmt.Errorf("dds encode: empty %dx%d image: %w", b.Width, b.Height, pixel.ErrInvalidBufferShape)
	}

	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, b.Width, b.Height, c); err != nil {
		return fmt.Errorf("dds header: %w", err)
	}

	switch c {
	case Lossless:
		// Pix is already R,G,B,A which is what the header masks describe.
		if _, err := bw.Write(b.Pix); err != nil {
			return fmt.Errorf("dds pixels: %w", err)
		}
	case DXT1, DXT5:
		if err := writeBlocks(bw, b, c); err != nil {
			return fmt.Errorf("dds blocks: %w", err)
		}
	}
	return bw.Flush()
}

func writeBlocks(w io.Writer, b *pixel.Buffer, c Codec) error {
	for by := 0; by < b.Height; by += 4 {
		for bx := 0; bx < b.Width; bx += 4 {
			blk := loadBlock(b, bx, by)
			var out []byte
			if c == DXT5 {
				out = append(compressAlpha(&blk), compressColor(&blk, false)...)
			} else {
				out = compressColor(&blk, true)
			}
			if _, err := w.Write(out); err != nil {
				return err
			}
		}
	}
	return nil
}

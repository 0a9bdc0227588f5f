package dds

import (
	"encoding/binary"
	"image/color"
	"math"

	"github.com/erinpentecost/canvasfx/internal/pixel"
)

type block [16]color.NRGBA

// loadBlock reads the 4x4 tile at (bx, by), repeating edge pixels where the
// tile hangs off the image.
func loadBlock(b *pixel.Buffer, bx, by int) block {
	var blk block
	for y := range 4 {
		sy := min(by+y, b.Height-1)
		for x := range 4 {
			sx := min(bx+x, b.Width-1)
			blk[y*4+x] = b.At(sx, sy)
		}
	}
	return blk
}

// compressAlpha encodes the 8-byte interpolated alpha half of a DXT5 block.
func compressAlpha(blk *block) []byte {
	a0, a1 := uint8(0), uint8(255)
	for _, p := range blk {
		a0 = max(a0, p.A)
		a1 = min(a1, p.A)
	}

	var palette [8]int
	palette[0], palette[1] = int(a0), int(a1)
	if a0 > a1 {
		for i := 1; i <= 6; i++ {
			palette[1+i] = ((7-i)*int(a0) + i*int(a1) + 3) / 7
		}
	} else {
		for i := 1; i <= 4; i++ {
			palette[1+i] = ((5-i)*int(a0) + i*int(a1) + 2) / 5
		}
		palette[6], palette[7] = 0, 255
	}

	var bits uint64
	for i, p := range blk {
		best, bestDist := 0, math.MaxInt
		for j, v := range palette {
			d := int(p.A) - v
			if d*d < bestDist {
				best, bestDist = j, d*d
			}
		}
		bits |= uint64(best) << (3 * uint(i))
	}

	out := make([]byte, 8)
	out[0], out[1] = a0, a1
	for i := range 6 {
		out[2+i] = byte(bits >> (8 * uint(i)))
	}
	return out
}

type vec3 [3]float64

func (a vec3) dot(b vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
func (a vec3) add(b vec3) vec3 { return vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func (a vec3) mul(s float64) vec3 { return vec3{a[0] * s, a[1] * s, a[2] * s} }
func (a vec3) normalized() vec3 {
	l := math.Sqrt(a.dot(a))
	if l == 0 {
		return vec3{}
	}
	return a.mul(1 / l)
}

// principalAxis approximates the dominant eigenvector of the block's color
// covariance by power iteration.
func principalAxis(cov [3][3]float64) vec3 {
	v := vec3{1, 1, 1}.normalized()
	for range 6 {
		v = vec3{
			cov[0][0]*v[0] + cov[0][1]*v[1] + cov[0][2]*v[2],
			cov[1][0]*v[0] + cov[1][1]*v[1] + cov[1][2]*v[2],
			cov[2][0]*v[0] + cov[2][1]*v[1] + cov[2][2]*v[2],
		}.normalized()
	}
	return v
}

// compressColor encodes the 8-byte color half of a block. With punchThrough
// set, pixels whose alpha is below 128 use DXT1's transparent index.
func compressColor(blk *block, punchThrough bool) []byte {
	transparent := func(p color.NRGBA) bool { return punchThrough && p.A < 128 }

	var mean vec3
	n := 0
	for _, p := range blk {
		if transparent(p) {
			continue
		}
		mean = mean.add(vec3{float64(p.R), float64(p.G), float64(p.B)})
		n++
	}
	hasTransparent := n < 16
	if n == 0 {
		out := make([]byte, 8)
		// c0 == c1 == 0 selects three-color mode; every index 3 is transparent.
		binary.LittleEndian.PutUint32(out[4:], 0xFFFFFFFF)
		return out
	}
	mean = mean.mul(1 / float64(n))

	var cov [3][3]float64
	for _, p := range blk {
		if transparent(p) {
			continue
		}
		d := vec3{float64(p.R) - mean[0], float64(p.G) - mean[1], float64(p.B) - mean[2]}
		for i := range 3 {
			for j := range 3 {
				cov[i][j] += d[i] * d[j]
			}
		}
	}
	axis := principalAxis(cov)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range blk {
		if transparent(p) {
			continue
		}
		t := vec3{float64(p.R) - mean[0], float64(p.G) - mean[1], float64(p.B) - mean[2]}.dot(axis)
		lo = min(lo, t)
		hi = max(hi, t)
	}
	c0 := to565(mean.add(axis.mul(hi)))
	c1 := to565(mean.add(axis.mul(lo)))

	// Four-color mode needs c0 > c1, three-color mode needs c0 <= c1.
	if hasTransparent == (c0 > c1) {
		c0, c1 = c1, c0
	}

	e0, e1 := from565(c0), from565(c1)
	var palette [4][3]int
	palette[0], palette[1] = e0, e1
	choices := 4
	for i := range 3 {
		if c0 > c1 {
			palette[2][i] = (2*e0[i] + e1[i] + 1) / 3
			palette[3][i] = (e0[i] + 2*e1[i] + 1) / 3
		} else {
			palette[2][i] = (e0[i] + e1[i]) / 2
			choices = 3
		}
	}

	var indices uint32
	for i, p := range blk {
		idx := 3
		if !transparent(p) {
			best, bestDist := 0, math.MaxInt
			for j := range choices {
				dr := int(p.R) - palette[j][0]
				dg := int(p.G) - palette[j][1]
				db := int(p.B) - palette[j][2]
				if d := dr*dr + dg*dg + db*db; d < bestDist {
					best, bestDist = j, d
				}
			}
			idx = best
		}
		indices |= uint32(idx) << (2 * uint(i))
	}

	out := make([]byte, 8)
	binary.LittleEndian.PutUint16(out[0:], c0)
	binary.LittleEndian.PutUint16(out[2:], c1)
	binary.LittleEndian.PutUint32(out[4:], indices)
	return out
}

func to565(c vec3) uint16 {
	r := uint16(pixel.Clamp(c[0]))
	g := uint16(pixel.Clamp(c[1]))
	b := uint16(pixel.Clamp(c[2]))
	return (r>>3)<<11 | (g>>2)<<5 | b>>3
}

// from565 expands to 8 bits per channel, replicating high bits into the low
// ones so that full intensity stays 255.
func from565(v uint16) [3]int {
	r := int(v>>11) & 0x1F
	g := int(v>>5) & 0x3F
	b := int(v) & 0x1F
	return [3]int{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2}
}

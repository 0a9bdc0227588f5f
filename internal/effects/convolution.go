package effects

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/erinpentecost/canvasfx/internal/parallel"
	"github.com/erinpentecost/canvasfx/internal/pixel"
)

// Kernel is a named 3x3 convolution matrix. Weights are row-major.
type Kernel struct {
	Name    string
	Weights [9]float64
	Divisor float64
	Offset  float64
}

// Built-in kernels.
var (
	KernelBlur = Kernel{
		Name:    "blur",
		Weights: [9]float64{1, 1, 1, 1, 1, 1, 1, 1, 1},
		Divisor: 9,
	}
	KernelSharpen = Kernel{
		Name:    "sharpen",
		Weights: [9]float64{0, -1, 0, -1, 5, -1, 0, -1, 0},
		Divisor: 1,
	}
	KernelEdge = Kernel{
		Name:    "edge",
		Weights: [9]float64{0, 1, 0, 1, -4, 1, 0, 1, 0},
		Divisor: 1,
	}
	KernelEmboss = Kernel{
		Name:    "emboss",
		Weights: [9]float64{-2, -1, 0, -1, 1, 1, 0, 1, 2},
		Divisor: 1,
		Offset:  128,
	}
	KernelOutline = Kernel{
		Name:    "outline",
		Weights: [9]float64{-1, -1, -1, -1, 8, -1, -1, -1, -1},
		Divisor: 1,
	}
)

// KernelSet is a registry of kernels by name.
type KernelSet struct {
	mu      sync.RWMutex
	kernels map[string]Kernel
}

// NewKernelSet returns a registry holding the built-in kernels.
func NewKernelSet() *KernelSet {
	ks := &KernelSet{kernels: map[string]Kernel{}}
	for _, k := range []Kernel{KernelBlur, KernelSharpen, KernelEdge, KernelEmboss, KernelOutline} {
		ks.kernels[k.Name] = k
	}
	return ks
}

// Register adds or replaces k. A zero divisor is rejected here so Convolve
// never divides by zero.
func (ks *KernelSet) Register(k Kernel) error {
	if k.Name == "" {
		return fmt.Errorf("register kernel: empty name")
	}
	if k.Divisor == 0 {
		return fmt.Errorf("register kernel %q: %w", k.Name, ErrZeroDivisor)
	}
	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.kernels[k.Name] = k
	return nil
}

// Get looks up a kernel.
func (ks *KernelSet) Get(name string) (Kernel, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	k, ok := ks.kernels[name]
	if !ok {
		return Kernel{}, fmt.Errorf("kernel %q: %w", name, ErrUnknownKernel)
	}
	return k, nil
}

// Names lists registered kernels in sorted order.
func (ks *KernelSet) Names() []string {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	out := make([]string, 0, len(ks.kernels))
	for name := range ks.kernels {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Convolve applies the named kernel to the RGB channels of every interior
// pixel. The one-pixel frame and the alpha channel are copied unchanged.
func (p *Processor) Convolve(ctx context.Context, src *pixel.Buffer, name string) (*pixel.Buffer, error) {
	k, err := p.kernels.Get(name)
	if err != nil {
		return nil, err
	}
	return p.ConvolveKernel(ctx, src, k)
}

// ConvolveKernel is Convolve with an explicit, unregistered kernel.
func (p *Processor) ConvolveKernel(ctx context.Context, src *pixel.Buffer, k Kernel) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if k.Divisor == 0 {
		return nil, fmt.Errorf("convolve %q: %w", k.Name, ErrZeroDivisor)
	}
	out := src.Clone()
	w, h := src.Width, src.Height
	if w < 3 || h < 3 {
		return out, nil
	}

	err := parallel.Rows(ctx, h, p.workers, func(y0, y1 int) error {
		for y := max(y0, 1); y < min(y1, h-1); y++ {
			for x := 1; x < w-1; x++ {
				var sr, sg, sb float64
				for ky := -1; ky <= 1; ky++ {
					for kx := -1; kx <= 1; kx++ {
						wt := k.Weights[(ky+1)*3+(kx+1)]
						if wt == 0 {
							continue
						}
						i := src.Offset(x+kx, y+ky)
						sr += float64(src.Pix[i]) * wt
						sg += float64(src.Pix[i+1]) * wt
						sb += float64(src.Pix[i+2]) * wt
					}
				}
				o := out.Offset(x, y)
				out.Pix[o] = pixel.Clamp(sr/k.Divisor + k.Offset)
				out.Pix[o+1] = pixel.Clamp(sg/k.Divisor + k.Offset)
				out.Pix[o+2] = pixel.Clamp(sb/k.Divisor + k.Offset)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

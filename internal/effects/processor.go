// Package effects implements the stateless pixel transforms: tone and color
// adjustments, 3x3 convolution, separable Gaussian blur, median despeckle and
// the composite effects built from them.
//
// Every operation validates its input, leaves it untouched and returns a new
// buffer. Passes are split into scanline batches (see package parallel) so a
// large image can be cancelled between batches through the context.
package effects

import (
	"context"
	"errors"
	"time"

	"github.com/erinpentecost/canvasfx/internal/parallel"
	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownKernel is returned for a kernel name that was never registered.
	ErrUnknownKernel = errors.New("unknown kernel")
	// ErrZeroDivisor is returned when registering a kernel whose divisor is 0.
	ErrZeroDivisor = errors.New("kernel divisor is zero")
	// ErrUnknownEffect is returned when a declarative effect spec names no effect.
	ErrUnknownEffect = errors.New("unknown effect")
)

// Processor runs pixel transforms. It is constructed once by the host and
// shared; it holds no per-image state and is safe for concurrent use once
// constructed.
type Processor struct {
	workers int
	seed    int64
	log     *logrus.Entry
	kernels *KernelSet
}

// Option configures a Processor.
type Option func(*Processor)

// WithWorkers bounds how many scanline batches run at once. Zero or less uses
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(p *Processor) { p.workers = n }
}

// WithSeed fixes the grain source used by Vintage. Zero picks a time-based seed.
func WithSeed(seed int64) Option {
	return func(p *Processor) { p.seed = seed }
}

// WithLogger sets the log entry.
func WithLogger(l *logrus.Entry) Option {
	return func(p *Processor) { p.log = l }
}

// New returns a Processor with the built-in kernels registered.
func New(opts ...Option) *Processor {
	p := &Processor{
		log:     logrus.NewEntry(logrus.StandardLogger()),
		kernels: NewKernelSet(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.workers = parallel.Workers(p.workers)
	if p.seed == 0 {
		p.seed = time.Now().UnixNano()
	}
	return p
}

// Workers reports the batch concurrency limit.
func (p *Processor) Workers() int { return p.workers }

// Kernels exposes the kernel registry.
func (p *Processor) Kernels() *KernelSet { return p.kernels }

// RegisterKernel adds or replaces a named kernel.
func (p *Processor) RegisterKernel(k Kernel) error {
	return p.kernels.Register(k)
}

// perPixel clones src and runs fn over every 4-byte RGBA group of the clone.
func (p *Processor) perPixel(ctx context.Context, src *pixel.Buffer, fn func(px []byte)) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	out := src.Clone()
	row := out.Width * 4
	err := parallel.Rows(ctx, out.Height, p.workers, func(y0, y1 int) error {
		for i := y0 * row; i < y1*row; i += 4 {
			fn(out.Pix[i : i+4 : i+4])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

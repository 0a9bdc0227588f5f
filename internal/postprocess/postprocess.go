// Package postprocess holds the whole-frame passes run after layers are
// composited: color grading, depth of field, vignette, SMAA and resampling.
package postprocess

import (
	"context"
	"fmt"

	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/sirupsen/logrus"
)

// Processor is one whole-frame pass. Implementations never modify src.
type Processor interface {
	Process(ctx context.Context, src *pixel.Buffer) (*pixel.Buffer, error)
}

// Chain runs processors in order, feeding each the previous output.
type Chain struct {
	steps []Processor
	log   *logrus.Entry
}

// NewChain returns a chain over steps. nil steps are skipped so callers can
// build the list conditionally.
func NewChain(log *logrus.Entry, steps ...Processor) *Chain {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	c := &Chain{log: log}
	for _, s := range steps {
		if s != nil {
			c.steps = append(c.steps, s)
		}
	}
	return c
}

// Append adds a step to the end of the chain.
func (c *Chain) Append(p Processor) {
	if p != nil {
		c.steps = append(c.steps, p)
	}
}

func (c *Chain) Len() int { return len(c.steps) }

func (c *Chain) Process(ctx context.Context, src *pixel.Buffer) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	current := src
	for i, p := range c.steps {
		name := fmt.Sprintf("%T", p)
		c.log.WithFields(logrus.Fields{
			"function": "Chain.Process",
			"step":     i,
			"pass":     name,
		}).Debug("Running post-process pass")
		next, err := p.Process(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("post-process %s: %w", name, err)
		}
		current = next
	}
	if current == src {
		return src.Clone(), nil
	}
	return current, nil
}

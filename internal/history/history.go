// Package history keeps a bounded undo/redo stack of image snapshots. Each
// snapshot is a full zstd-compressed copy of the pixels.
package history

import (
	"errors"
	"fmt"
	"sync"

	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/klauspost/compress/zstd"
)

// DefaultCapacity is the number of snapshots kept when New is given 0.
const DefaultCapacity = 50

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

type snapshot struct {
	width, height int
	data          []byte
}

// Stack is safe for concurrent use.
type Stack struct {
	mu       sync.Mutex
	capacity int
	snaps    []snapshot
	// cursor indexes the current snapshot; -1 when empty.
	cursor int

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// New returns an empty stack holding at most capacity snapshots.
func New(capacity int) (*Stack, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &Stack{capacity: capacity, cursor: -1, enc: enc, dec: dec}, nil
}

// Push records b as the newest state. Anything that had been undone is
// discarded, and the oldest snapshot is evicted once the stack is full.
func (s *Stack) Push(b *pixel.Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	snap := snapshot{
		width:  b.Width,
		height: b.Height,
		data:   s.enc.EncodeAll(b.Pix, nil),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = append(s.snaps[:s.cursor+1], snap)
	if over := len(s.snaps) - s.capacity; over > 0 {
		s.snaps = s.snaps[over:]
	}
	s.cursor = len(s.snaps) - 1
	return nil
}

// Undo steps back one snapshot and returns it.
func (s *Stack) Undo() (*pixel.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor <= 0 {
		return nil, ErrNothingToUndo
	}
	s.cursor--
	return s.decode(s.snaps[s.cursor])
}

// Redo steps forward one snapshot and returns it.
func (s *Stack) Redo() (*pixel.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor >= len(s.snaps)-1 {
		return nil, ErrNothingToRedo
	}
	s.cursor++
	return s.decode(s.snaps[s.cursor])
}

// Current returns the snapshot at the cursor, or nil when empty.
func (s *Stack) Current() (*pixel.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor < 0 {
		return nil, nil
	}
	return s.decode(s.snaps[s.cursor])
}

// Len reports how many snapshots are stored.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snaps)
}

func (s *Stack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor > 0
}

func (s *Stack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor < len(s.snaps)-1
}

// CompressedSize is the total size of the stored snapshots in bytes.
func (s *Stack) CompressedSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, snap := range s.snaps {
		n += len(snap.data)
	}
	return n
}

func (s *Stack) decode(snap snapshot) (*pixel.Buffer, error) {
	pix, err := s.dec.DecodeAll(snap.data, make([]byte, 0, snap.width*snap.height*4))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return pixel.Wrap(snap.width, snap.height, pix)
}

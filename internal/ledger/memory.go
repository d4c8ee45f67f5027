package ledger

import (
	"context"
	"sync"

	"github.com/zkiot/revocation-registry/internal/curve"
)

// MemoryLog keeps the event log in memory (development/testing use).
type MemoryLog struct {
	mu     sync.Mutex
	events []Event
	seq    uint64
	closed bool
}

// NewMemoryLog creates a new in-memory event log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (l *MemoryLog) Append(_ context.Context, events ...Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	for _, ev := range events {
		l.seq++
		ev.Seq = l.seq
		l.events = append(l.events, ev)
	}
	return nil
}

func (l *MemoryLog) DeviceEvents(_ context.Context, deviceID string) ([]Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}
	var out []Event
	for _, ev := range l.events {
		if ev.DeviceID == deviceID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (l *MemoryLog) Accumulator(_ context.Context) (curve.Point, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return curve.Point{}, ErrClosed
	}
	for i := len(l.events) - 1; i >= 0; i-- {
		if ev := l.events[i]; ev.AccumulatorX != "" {
			return pointFromStrings(ev.AccumulatorX, ev.AccumulatorY)
		}
	}
	return curve.Point{}, ErrNoAccumulator
}

func (l *MemoryLog) VerifyMembership(ctx context.Context, deviceID string, witness curve.Point) (bool, error) {
	acc, err := l.Accumulator(ctx)
	if err != nil {
		return false, err
	}
	return verifyMembership(acc, deviceID, witness)
}

func (l *MemoryLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// Events returns a copy of all stored events (for testing/inspection).
func (l *MemoryLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

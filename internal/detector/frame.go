package detector

import (
	"sync"
	"sync/atomic"
	"time"
)

// Frame is one detector output: zero or more validated hands.
type Frame struct {
	Hands     []HandLandmarks
	Timestamp time.Time
	Seq       uint64
}

// NewFrame builds a Frame from raw detector output, dropping malformed hands.
// It returns the number of hands that were rejected.
func NewFrame(raw []HandLandmarks, ts time.Time) (Frame, int) {
	f := Frame{Timestamp: ts}
	if len(raw) == 0 {
		return f, 0
	}

	f.Hands = make([]HandLandmarks, 0, len(raw))
	rejected := 0
	for i := range raw {
		if err := raw[i].Validate(); err != nil {
			rejected++
			continue
		}
		f.Hands = append(f.Hands, raw[i])
	}
	return f, rejected
}

// Latest is a single-slot mailbox holding the newest detector frame.
// Store overwrites whatever is there; Load never blocks and may return the
// same frame repeatedly when the detector is slower than the consumer.
type Latest struct {
	mu   sync.Mutex // orders producers so Seq is monotonic
	seq  uint64
	slot atomic.Pointer[Frame]
}

// Store publishes f as the newest frame and stamps its sequence number.
func (l *Latest) Store(f Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	f.Seq = l.seq
	l.slot.Store(&f)
}

// Load returns the newest frame, or false if nothing was stored yet.
func (l *Latest) Load() (Frame, bool) {
	p := l.slot.Load()
	if p == nil {
		return Frame{}, false
	}
	return *p, true
}

// Clear empties the slot so the next Load reports no frame.
func (l *Latest) Clear() {
	l.slot.Store(nil)
}

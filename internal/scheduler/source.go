package scheduler

import (
	"errors"
	"slices"
	"sync"
	"time"
)

// ErrSourceClosed is returned by a frame source that no longer supplies frames.
var ErrSourceClosed = errors.New("scheduler: frame source closed")

// FrameCallback is invoked once when the requested frame arrives.
type FrameCallback func()

// FrameSource is the host's "give me the next frame" primitive. Requests are
// one-shot: the callback fires at most once, and cancel withdraws it.
type FrameSource interface {
	RequestFrame(cb FrameCallback) (cancel func(), err error)
}

// ManualSource delivers frames when the host calls Pump. It models
// platforms that hand out vsync callbacks from their own render loop.
type ManualSource struct {
	mu      sync.Mutex
	nextID  int
	pending map[int]FrameCallback
	closed  bool
}

func NewManualSource() *ManualSource {
	return &ManualSource{pending: make(map[int]FrameCallback)}
}

func (m *ManualSource) RequestFrame(cb FrameCallback) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrSourceClosed
	}
	id := m.nextID
	m.nextID++
	m.pending[id] = cb
	return func() {
		m.mu.Lock()
		delete(m.pending, id)
		m.mu.Unlock()
	}, nil
}

// Pump fires every callback requested before the call and returns how many
// ran. Requests made by those callbacks wait for the next Pump.
func (m *ManualSource) Pump() int {
	m.mu.Lock()
	ids := make([]int, 0, len(m.pending))
	for id := range m.pending {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	fired := 0
	slices.Sort(ids)
	for _, id := range ids {
		m.mu.Lock()
		cb, ok := m.pending[id]
		delete(m.pending, id)
		m.mu.Unlock()
		if ok {
			cb()
			fired++
		}
	}
	return fired
}

// Pending returns the number of outstanding frame requests.
func (m *ManualSource) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Close drops outstanding requests and rejects new ones.
func (m *ManualSource) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	clear(m.pending)
}

// TimerSource delivers frames from a clock timer at a fixed cadence, like a
// platform whose frame loop is a plain timer. The cadence may be faster than
// the scheduler's target rate.
type TimerSource struct {
	clock    Clock
	interval time.Duration

	mu     sync.Mutex
	closed bool
}

func NewTimerSource(clock Clock, interval time.Duration) *TimerSource {
	if clock == nil {
		clock = RealClock()
	}
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &TimerSource{clock: clock, interval: interval}
}

func (t *TimerSource) RequestFrame(cb FrameCallback) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrSourceClosed
	}
	timer := t.clock.AfterFunc(t.interval, func() { cb() })
	return func() { timer.Stop() }, nil
}

func (t *TimerSource) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

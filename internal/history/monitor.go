/*
MIT License

Copyright (c) 2025 Yuval Adar <adary@adary.org>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package history

import (
	"context"
	"sync"
	"time"

	"github.com/adaryorg/clipvault/internal/appinfo"
	"github.com/adaryorg/clipvault/internal/clip"
	"github.com/adaryorg/clipvault/internal/logging"
	"github.com/adaryorg/clipvault/internal/security"
)

const (
	defaultMinInterval = 500 * time.Millisecond
	defaultMaxInterval = time.Second

	// intervalDamping relaxes the poll interval toward the maximum after
	// each quiet poll; any detected change snaps it back to the minimum.
	intervalDamping = 1.25
)

// MonitorOptions configures a Monitor. Zero values pick defaults.
type MonitorOptions struct {
	Resolver    appinfo.Resolver
	Detector    *security.Detector
	MinInterval time.Duration
	MaxInterval time.Duration

	// OnCapture runs after an externally sourced capture has been recorded.
	OnCapture func(Item)
}

// Monitor polls the external clipboard and feeds new text content into the
// store. Self-inflicted clipboard writes are suppressed through flags the
// caller sets before writing.
type Monitor struct {
	cb          clip.Clipboard
	store       *Store
	index       *Index
	resolver    appinfo.Resolver
	detector    *security.Detector
	minInterval time.Duration
	maxInterval time.Duration
	onCapture   func(Item)

	mu           sync.Mutex
	running      bool
	cancel       context.CancelFunc
	lastChange   int64
	internalCopy bool
	fromEditor   bool
}

func NewMonitor(cb clip.Clipboard, store *Store, index *Index, opts MonitorOptions) *Monitor {
	if opts.Resolver == nil {
		opts.Resolver = appinfo.Noop{}
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = defaultMinInterval
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = defaultMaxInterval
	}
	if opts.MaxInterval < opts.MinInterval {
		opts.MaxInterval = opts.MinInterval
	}
	return &Monitor{
		cb:          cb,
		store:       store,
		index:       index,
		resolver:    opts.Resolver,
		detector:    opts.Detector,
		minInterval: opts.MinInterval,
		maxInterval: opts.MaxInterval,
		onCapture:   opts.OnCapture,
		lastChange:  -1,
	}
}

// Start begins the polling loop. Idempotent: a running monitor stays as is.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.running = true
	m.cancel = cancel

	go m.loop(ctx)
}

// Stop cancels the polling loop. Idempotent. An in-flight poll completes but
// schedules no further polls.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false
	m.cancel()
	m.cancel = nil
}

// Running reports whether the polling loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// NoteInternalCopy marks the next clipboard change as engine-initiated so it
// is not treated as a new external capture. Consumed by the next poll.
func (m *Monitor) NoteInternalCopy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.internalCopy = true
}

// NoteEditorCopy marks the next capture as originating from the built-in
// editor. Consumed by the next poll.
func (m *Monitor) NoteEditorCopy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fromEditor = true
}

// SetIntervals updates the poll-interval bounds at runtime, with the same
// fallbacks as construction: non-positive values pick the defaults and an
// inverted range collapses to the minimum. Takes effect on the next poll.
func (m *Monitor) SetIntervals(min, max time.Duration) {
	if min <= 0 {
		min = defaultMinInterval
	}
	if max <= 0 {
		max = defaultMaxInterval
	}
	if max < min {
		max = min
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.minInterval = min
	m.maxInterval = max
}

func (m *Monitor) currentMin() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.minInterval
}

func (m *Monitor) loop(ctx context.Context) {
	interval := m.currentMin()
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}

		if m.poll() {
			interval = m.currentMin()
		} else {
			interval = m.relax(interval)
		}
	}
}

// relax nudges the interval toward the maximum after a quiet poll.
func (m *Monitor) relax(interval time.Duration) time.Duration {
	m.mu.Lock()
	max := m.maxInterval
	m.mu.Unlock()

	relaxed := time.Duration(float64(interval) * intervalDamping)
	if relaxed > max {
		relaxed = max
	}
	return relaxed
}

// poll runs one observation cycle and reports whether a change was detected.
// Suppression flags are consumed exactly once per cycle, change or not.
func (m *Monitor) poll() bool {
	m.mu.Lock()
	internal := m.internalCopy
	editor := m.fromEditor
	m.internalCopy = false
	m.fromEditor = false
	last := m.lastChange
	m.mu.Unlock()

	count := m.cb.ChangeCount()
	if count == last {
		return false
	}

	content, err := m.cb.ReadText()
	if err != nil {
		// Treated as "no change": the change counter is not committed, so
		// the read is retried on the next cycle.
		logging.Debug("clipboard read failed, retrying next poll: %v", err)
		return false
	}

	m.mu.Lock()
	m.lastChange = count
	m.mu.Unlock()

	if content == "" {
		// Non-text or empty payload: no history mutation, not an error.
		return true
	}

	dup := m.index.CheckAndRecord(Fingerprint(content))

	if internal {
		logging.Debug("suppressed internal copy (len=%d)", len(content))
		return true
	}

	// A recent duplicate that already sits at the front was surfaced by a
	// recopy or re-paste; there is nothing to reorder or refresh.
	if dup {
		if front, ok := m.store.Front(); ok && front.Content == content {
			return true
		}
	}

	info := m.resolver.Resolve()
	it := NewItem(content, info, editor)
	if m.detector != nil {
		it.Sensitive = m.detector.Sensitive(content)
	}

	stored := m.store.Record(it)
	logging.Debug("captured clipboard content (len=%d, sensitive=%t)", len(content), stored.Sensitive)

	if m.onCapture != nil {
		m.onCapture(stored)
	}
	return true
}

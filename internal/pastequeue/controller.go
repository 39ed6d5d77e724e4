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

// Package pastequeue layers an ordered-selection state machine on top of the
// history store: a caller queues items and consumes them one at a time on
// each external paste signal, instead of always pasting the single current
// clipboard value.
package pastequeue

import (
	"sync"

	"github.com/adaryorg/clipvault/internal/history"
	"github.com/adaryorg/clipvault/internal/logging"
)

// Mode is the paste behavior.
type Mode int

const (
	// ModeClipboard is the default: a recopy just sets the clipboard.
	ModeClipboard Mode = iota
	// ModeQueueOnce consumes the queue head on every paste signal.
	ModeQueueOnce
	// ModeQueueRepeat rotates the queue head to the tail on every paste
	// signal, cycling forever.
	ModeQueueRepeat
)

func (m Mode) String() string {
	switch m {
	case ModeQueueOnce:
		return "queue-once"
	case ModeQueueRepeat:
		return "queue-repeat"
	default:
		return "clipboard"
	}
}

// Capability is the permission check consulted before entering a queue mode:
// whether this process can observe paste commands at all.
type Capability interface {
	CanObservePaste() bool
}

// StaticCapability is a fixed Capability answer.
type StaticCapability bool

func (s StaticCapability) CanObservePaste() bool { return bool(s) }

// Controller owns the queue state. The recopy callback writes an item back
// to the external clipboard with monitor suppression; clearClipboard empties
// the external clipboard. Both run outside the controller lock.
type Controller struct {
	store          *history.Store
	caps           Capability
	recopy         func(history.Item)
	clearClipboard func()

	mu          sync.Mutex
	mode        Mode
	queue       []string // item IDs, head first
	anchorID    string
	preview     []string // pending shift-range, anchor-first
	previewHeld bool
}

func New(store *history.Store, caps Capability, recopy func(history.Item), clearClipboard func()) *Controller {
	if caps == nil {
		caps = StaticCapability(false)
	}
	return &Controller{
		store:          store,
		caps:           caps,
		recopy:         recopy,
		clearClipboard: clearClipboard,
	}
}

// Mode returns the current paste mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetRepeat switches an active queue between one-shot and cycling behavior.
// Entering a queue mode from clipboard mode still happens through selection.
func (c *Controller) SetRepeat(repeat bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeClipboard {
		return
	}
	if repeat {
		c.mode = ModeQueueRepeat
	} else {
		c.mode = ModeQueueOnce
	}
}

// QueueSelection appends the given items, in order, skipping ones already
// queued. A no-op when paste commands cannot be observed. When the queue
// transitions from empty to non-empty the new head is copied to the
// clipboard.
func (c *Controller) QueueSelection(ids []string, anchorID string) {
	c.mu.Lock()

	if c.mode == ModeClipboard {
		if !c.caps.CanObservePaste() {
			c.mu.Unlock()
			return
		}
		c.mode = ModeQueueOnce
	}

	wasEmpty := len(c.queue) == 0
	for _, id := range ids {
		if _, ok := c.store.Get(id); !ok {
			continue
		}
		if c.queuedLocked(id) {
			continue
		}
		c.queue = append(c.queue, id)
	}
	c.anchorID = anchorID

	action := c.headActionLocked(wasEmpty)
	c.mu.Unlock()
	action()
}

// HandleSelection processes one click. A plain selection toggles the item in
// the queue and moves the anchor. A shift selection holds a contiguous range
// between the anchor and the clicked item as a preview until the modifier is
// released.
func (c *Controller) HandleSelection(id string, shiftHeld bool) {
	c.mu.Lock()

	if c.mode == ModeClipboard && !c.caps.CanObservePaste() {
		c.mu.Unlock()
		return
	}

	if shiftHeld {
		anchor := c.anchorID
		if anchor == "" {
			anchor = id
		}
		c.preview = c.rangeBetweenLocked(anchor, id)
		c.previewHeld = true
		c.mu.Unlock()
		return
	}

	// Plain selection discards any uncommitted preview.
	c.preview = nil
	c.previewHeld = false

	action := func() {}
	if i := c.queueIndexLocked(id); i >= 0 {
		c.queue = append(c.queue[:i], c.queue[i+1:]...)
		if len(c.queue) == 0 {
			c.mode = ModeClipboard
		}
	} else if _, ok := c.store.Get(id); ok {
		if c.mode == ModeClipboard {
			c.mode = ModeQueueOnce
		}
		wasEmpty := len(c.queue) == 0
		c.queue = append(c.queue, id)
		action = c.headActionLocked(wasEmpty)
	}
	c.anchorID = id

	c.mu.Unlock()
	action()
}

// HandleModifierRelease commits the pending range preview: previewed items
// not yet queued are appended in range order, previewed items already queued
// are removed. An emptied queue reverts to clipboard mode.
func (c *Controller) HandleModifierRelease() {
	c.mu.Lock()

	if !c.previewHeld {
		c.mu.Unlock()
		return
	}
	preview := c.preview
	c.preview = nil
	c.previewHeld = false

	wasEmpty := len(c.queue) == 0
	for _, id := range preview {
		if i := c.queueIndexLocked(id); i >= 0 {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			continue
		}
		if _, ok := c.store.Get(id); ok {
			c.queue = append(c.queue, id)
		}
	}

	action := func() {}
	if len(c.queue) == 0 {
		c.mode = ModeClipboard
	} else {
		if c.mode == ModeClipboard {
			c.mode = ModeQueueOnce
		}
		action = c.headActionLocked(wasEmpty)
	}

	c.mu.Unlock()
	action()
}

// QueueBadge returns the 1-based position of the item in the committed queue,
// or false when absent. Display only.
func (c *Controller) QueueBadge(id string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.queueIndexLocked(id); i >= 0 {
		return i + 1, true
	}
	return 0, false
}

// AdvanceOnPasteSignal reacts to one external "paste occurred" signal. In
// queue-once mode the consumed head is removed and the next item is copied
// to the clipboard; an emptied queue reverts to clipboard mode and clears
// the clipboard. In queue-repeat mode the head rotates to the tail.
func (c *Controller) AdvanceOnPasteSignal() {
	c.mu.Lock()

	action := func() {}
	switch c.mode {
	case ModeQueueOnce:
		if len(c.queue) == 0 {
			c.mode = ModeClipboard
			break
		}
		c.queue = c.queue[1:]
		if len(c.queue) == 0 {
			c.mode = ModeClipboard
			action = c.clearClipboard
			logging.Debug("paste queue drained, reverting to clipboard mode")
		} else {
			action = c.headActionLocked(true)
		}
	case ModeQueueRepeat:
		if len(c.queue) == 0 {
			break
		}
		c.queue = append(c.queue[1:], c.queue[0])
		action = c.headActionLocked(true)
	}

	c.mu.Unlock()
	action()
}

// Reset abandons the queue and reverts to clipboard mode. Called whenever an
// unrelated clipboard write happens: queue state does not survive one.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeClipboard || len(c.queue) > 0 {
		logging.Debug("paste queue reset by unrelated clipboard activity")
	}
	c.mode = ModeClipboard
	c.queue = nil
	c.anchorID = ""
	c.preview = nil
	c.previewHeld = false
}

// QueueIDs returns a copy of the committed queue, head first.
func (c *Controller) QueueIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.queue))
	copy(out, c.queue)
	return out
}

// PreviewIDs returns a copy of the uncommitted range preview, anchor first.
func (c *Controller) PreviewIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.preview))
	copy(out, c.preview)
	return out
}

// headActionLocked returns the recopy side effect for the current head when
// the queue just became non-empty (or the head changed). Dead queue entries
// whose items were deleted from history are skipped.
func (c *Controller) headActionLocked(headChanged bool) func() {
	if !headChanged {
		return func() {}
	}
	for len(c.queue) > 0 {
		if it, ok := c.store.Get(c.queue[0]); ok {
			return func() { c.recopy(it) }
		}
		c.queue = c.queue[1:]
	}
	c.mode = ModeClipboard
	return func() {}
}

// rangeBetweenLocked returns the contiguous id range between anchor and the
// clicked item in current display order, anchor end first.
func (c *Controller) rangeBetweenLocked(anchorID, id string) []string {
	items := c.store.Items()
	ai, bi := -1, -1
	for i, it := range items {
		if it.ID == anchorID {
			ai = i
		}
		if it.ID == id {
			bi = i
		}
	}
	if ai < 0 || bi < 0 {
		return []string{id}
	}

	var out []string
	if ai <= bi {
		for i := ai; i <= bi; i++ {
			out = append(out, items[i].ID)
		}
	} else {
		for i := ai; i >= bi; i-- {
			out = append(out, items[i].ID)
		}
	}
	return out
}

func (c *Controller) queueIndexLocked(id string) int {
	for i, q := range c.queue {
		if q == id {
			return i
		}
	}
	return -1
}

func (c *Controller) queuedLocked(id string) bool {
	return c.queueIndexLocked(id) >= 0
}

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

// Package engine wires the clipboard-history components into one unit:
// monitor, store, dedup index, persistence gateway, paste queue and
// auto-clear, all constructed through explicit dependency injection.
package engine

import (
	"time"

	"github.com/adaryorg/clipvault/internal/appinfo"
	"github.com/adaryorg/clipvault/internal/autoclear"
	"github.com/adaryorg/clipvault/internal/clip"
	"github.com/adaryorg/clipvault/internal/history"
	"github.com/adaryorg/clipvault/internal/logging"
	"github.com/adaryorg/clipvault/internal/pastequeue"
	"github.com/adaryorg/clipvault/internal/persist"
	"github.com/adaryorg/clipvault/internal/security"
)

// Options configures an Engine. Zero values pick defaults; AutoClearInterval
// of zero disables auto-clear.
type Options struct {
	MaxHistoryItems   int
	MaxPinnedItems    int
	DedupIndexSize    int
	MinPollInterval   time.Duration
	MaxPollInterval   time.Duration
	SaveDebounce      time.Duration
	AutoClearInterval time.Duration
	Resolver          appinfo.Resolver
	Capability        pastequeue.Capability
	Detector          *security.Detector
}

// Engine owns one clipboard-history instance.
type Engine struct {
	cb        clip.Clipboard
	store     *history.Store
	index     *history.Index
	monitor   *history.Monitor
	gateway   *persist.Gateway
	queue     *pastequeue.Controller
	autoClear *autoclear.Controller
}

// New builds the engine, loads persisted history and applies the current
// eviction policy to it before exposing it to readers. A failing repository
// is logged and tolerated: the in-memory store stays authoritative.
func New(cb clip.Clipboard, repo persist.Repository, opts Options) *Engine {
	if opts.MaxHistoryItems <= 0 {
		opts.MaxHistoryItems = 500
	}
	if opts.MaxPinnedItems <= 0 {
		opts.MaxPinnedItems = 50
	}

	e := &Engine{cb: cb}
	e.store = history.NewStore(opts.MaxHistoryItems, opts.MaxPinnedItems)
	e.index = history.NewIndex(opts.DedupIndexSize)
	e.gateway = persist.NewGateway(repo, opts.SaveDebounce)

	loaded, err := e.gateway.Load()
	if err != nil {
		logging.Error("failed to load persisted history, starting empty: %v", err)
	} else if len(loaded) > 0 {
		e.store.ReplaceAll(loaded)
	}
	trimmed := len(loaded) != e.store.Len()

	e.queue = pastequeue.New(e.store, opts.Capability, e.queueRecopy, e.clearClipboard)

	e.monitor = history.NewMonitor(cb, e.store, e.index, history.MonitorOptions{
		Resolver:    opts.Resolver,
		Detector:    opts.Detector,
		MinInterval: opts.MinPollInterval,
		MaxInterval: opts.MaxPollInterval,
		OnCapture: func(history.Item) {
			// Any externally sourced clipboard write invalidates the queue.
			e.queue.Reset()
		},
	})

	if opts.AutoClearInterval > 0 {
		e.autoClear = autoclear.New(cb, opts.AutoClearInterval, opts.Detector)
	}

	// Every settled store mutation schedules a debounced snapshot write.
	e.store.Subscribe(func() {
		e.gateway.ScheduleSave(e.store.Items())
	})
	if trimmed {
		e.gateway.ScheduleSave(e.store.Items())
	}

	return e
}

// Start begins monitoring (and auto-clear, when enabled). Idempotent.
func (e *Engine) Start() {
	e.monitor.Start()
	if e.autoClear != nil {
		e.autoClear.Start()
	}
}

// Stop halts monitoring and auto-clear. Pending persistence flushes are
// untouched: the two lifecycles are independent.
func (e *Engine) Stop() {
	e.monitor.Stop()
	if e.autoClear != nil {
		e.autoClear.Stop()
	}
}

// Close stops the engine, flushes pending writes and releases the repository
// handle.
func (e *Engine) Close() error {
	e.Stop()
	return e.gateway.Close()
}

// Recopy writes an existing item's content back to the external clipboard,
// refreshing its position while preserving identity and pin state. As a
// manual single-item selection it abandons any active paste queue.
func (e *Engine) Recopy(id string) bool {
	it, ok := e.store.Touch(id)
	if !ok {
		return false
	}
	e.queue.Reset()
	e.writeInternal(it)
	return true
}

// CopyFromEditor puts built-in-editor content on the clipboard. The next
// capture records it with editor provenance; any active queue is abandoned.
func (e *Engine) CopyFromEditor(content string) error {
	e.queue.Reset()
	e.monitor.NoteEditorCopy()
	return e.cb.WriteText(content)
}

// queueRecopy is the paste queue's clipboard writer: identical to Recopy but
// without resetting the queue that triggered it.
func (e *Engine) queueRecopy(it history.Item) {
	if touched, ok := e.store.Touch(it.ID); ok {
		it = touched
	}
	e.writeInternal(it)
}

// writeInternal performs a self-initiated clipboard write: the fingerprint
// is recorded and the monitor is told to suppress the resulting change.
func (e *Engine) writeInternal(it history.Item) {
	e.index.CheckAndRecord(history.Fingerprint(it.Content))
	e.monitor.NoteInternalCopy()
	if err := e.cb.WriteText(it.Content); err != nil {
		logging.Error("failed to write clipboard: %v", err)
	}
}

func (e *Engine) clearClipboard() {
	if err := e.cb.Clear(); err != nil {
		logging.Error("failed to clear clipboard: %v", err)
	}
}

// TogglePin flips an item's pin state; see history.Store.TogglePin.
func (e *Engine) TogglePin(id string) (bool, bool) {
	return e.store.TogglePin(id)
}

// Delete removes an item from history and durable storage.
func (e *Engine) Delete(id string) {
	e.store.Delete(id)
	e.gateway.Delete(id)
}

// ClearHistory removes all items, or all unpinned items when keepPinned is
// set, from history and durable storage.
func (e *Engine) ClearHistory(keepPinned bool) {
	e.store.Clear(keepPinned)
	e.gateway.Clear(keepPinned)
}

// Search returns case-insensitive substring matches in display order.
func (e *Engine) Search(query string) []history.Item {
	return e.store.Search(query)
}

// SearchRanked returns fuzzy matches ordered by score.
func (e *Engine) SearchRanked(query string) []history.Item {
	return e.store.SearchRanked(query)
}

// Items returns the history in display order.
func (e *Engine) Items() []history.Item {
	return e.store.Items()
}

// Get returns an item by id.
func (e *Engine) Get(id string) (history.Item, bool) {
	return e.store.Get(id)
}

// SetMaxHistoryItems updates the history cap, trimming immediately.
func (e *Engine) SetMaxHistoryItems(n int) {
	e.store.SetMaxItems(n)
}

// SetMaxPinnedItems updates the pin cap for future pin requests.
func (e *Engine) SetMaxPinnedItems(n int) {
	e.store.SetMaxPinned(n)
}

// SetDedupIndexSize updates the recent-fingerprint bound, trimming the
// oldest entries immediately when shrinking.
func (e *Engine) SetDedupIndexSize(n int) {
	e.index.SetCapacity(n)
}

// SetPollIntervals updates the monitor's poll-interval bounds.
func (e *Engine) SetPollIntervals(min, max time.Duration) {
	e.monitor.SetIntervals(min, max)
}

// DeleteOlderThan removes unpinned items older than the given age.
func (e *Engine) DeleteOlderThan(age time.Duration) int {
	return e.store.DeleteOlderThan(age)
}

// Subscribe registers a change-notification callback.
func (e *Engine) Subscribe(fn func()) {
	e.store.Subscribe(fn)
}

// FlushPendingSaves blocks until every previously scheduled write has
// committed or failed.
func (e *Engine) FlushPendingSaves() error {
	return e.gateway.FlushPendingSaves()
}

// Queue exposes the paste-queue controller.
func (e *Engine) Queue() *pastequeue.Controller {
	return e.queue
}

// Store exposes the history store for read-mostly collaborators.
func (e *Engine) Store() *history.Store {
	return e.store
}

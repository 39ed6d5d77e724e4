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

package persist

import (
	"sync"
	"time"

	"github.com/adaryorg/clipvault/internal/history"
	"github.com/adaryorg/clipvault/internal/logging"
)

// DefaultDebounce coalesces bursts of rapid history mutations into one write.
const DefaultDebounce = 500 * time.Millisecond

// Gateway is the write-behind adapter between the in-memory store and a
// Repository. Every scheduled save replaces any still-pending one, so a burst
// of mutations commits at most a bounded number of writes. Repository
// failures are logged and kept for the next FlushPendingSaves caller; they
// never corrupt in-memory state.
type Gateway struct {
	repo     Repository
	debounce time.Duration

	mu         sync.Mutex // guards pending, timer, lastErr
	pending    []history.Item
	hasPending bool
	timer      *time.Timer
	lastErr    error

	flushMu sync.Mutex // held for the duration of a repository write
}

func NewGateway(repo Repository, debounce time.Duration) *Gateway {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Gateway{repo: repo, debounce: debounce}
}

// ScheduleSave queues a snapshot for a debounced write. Each call resets the
// pending-flush deadline.
func (g *Gateway) ScheduleSave(items []history.Item) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pending = items
	g.hasPending = true
	if g.timer == nil {
		g.timer = time.AfterFunc(g.debounce, g.flushDeadline)
	} else {
		g.timer.Reset(g.debounce)
	}
}

// flushDeadline runs when the debounce deadline elapses.
func (g *Gateway) flushDeadline() {
	if err := g.flushOnce(); err != nil {
		logging.Error("persistence flush failed, will retry on next schedule: %v", err)
	}
}

// flushOnce writes the pending snapshot, if any, and records the outcome.
func (g *Gateway) flushOnce() error {
	g.mu.Lock()
	items := g.pending
	has := g.hasPending
	g.pending = nil
	g.hasPending = false
	g.mu.Unlock()

	if !has {
		return nil
	}

	// The outcome is recorded before flushMu is released, so a concurrent
	// FlushPendingSaves that waits out this write observes its failure.
	g.flushMu.Lock()
	err := g.repo.Save(items)
	g.mu.Lock()
	g.lastErr = err
	g.mu.Unlock()
	g.flushMu.Unlock()
	return err
}

// FlushPendingSaves commits every write scheduled before the call. It returns
// only after the pending snapshot (and any in-flight write) has committed or
// failed, reporting the first unreported failure.
func (g *Gateway) FlushPendingSaves() error {
	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
	}
	g.mu.Unlock()

	if err := g.flushOnce(); err != nil {
		return err
	}

	// Wait out any write the deadline goroutine already started.
	g.flushMu.Lock()
	g.flushMu.Unlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	err := g.lastErr
	g.lastErr = nil
	return err
}

// Load reads the persisted history snapshot.
func (g *Gateway) Load() ([]history.Item, error) {
	return g.repo.LoadAll()
}

// Delete removes one item from durable storage immediately.
func (g *Gateway) Delete(id string) error {
	if err := g.repo.Delete(id); err != nil {
		logging.Error("failed to delete persisted item %s: %v", id, err)
		return err
	}
	return nil
}

// Clear erases durable storage immediately.
func (g *Gateway) Clear(keepPinned bool) error {
	if err := g.repo.Clear(keepPinned); err != nil {
		logging.Error("failed to clear persisted items: %v", err)
		return err
	}
	return nil
}

// Close flushes pending writes and releases the repository handle. The flush
// happens first so no scheduled write is lost at teardown.
func (g *Gateway) Close() error {
	flushErr := g.FlushPendingSaves()
	if err := g.repo.Close(); err != nil {
		return err
	}
	return flushErr
}

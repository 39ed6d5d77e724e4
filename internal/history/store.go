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
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
)

// Store is the authoritative ordered collection of clipboard items. Items are
// kept most-recently-touched first. All read-modify-write sequences (dedup
// lookup, insert, eviction) run under one mutex so the invariants hold
// against concurrent callers.
//
// Invariants after every mutating operation:
//   - at most one item per distinct content (byte-exact comparison)
//   - len(items) <= maxItems
//   - pinned count <= maxPinned
type Store struct {
	mu        sync.Mutex
	items     []Item // index 0 = most recently touched
	maxItems  int
	maxPinned int
	subs      []func()
}

func NewStore(maxItems, maxPinned int) *Store {
	if maxItems <= 0 {
		panic(fmt.Sprintf("history: invalid max items %d", maxItems))
	}
	if maxPinned <= 0 {
		panic(fmt.Sprintf("history: invalid max pinned %d", maxPinned))
	}
	return &Store{maxItems: maxItems, maxPinned: maxPinned}
}

// Subscribe registers a change-notification callback, invoked after every
// mutation settles, outside the store lock.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// notifyLocked snapshots the subscriber list; the caller invokes the returned
// function after releasing the lock.
func (s *Store) notifyLocked() func() {
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	return func() {
		for _, fn := range subs {
			fn()
		}
	}
}

// Record inserts a capture or, when an item with identical content already
// exists, refreshes that item's metadata and moves it to the front. Identity
// and pin state survive a refresh. The eviction policy runs afterwards in
// the same critical section. Returns the stored item.
func (s *Store) Record(it Item) Item {
	s.mu.Lock()

	stored := it
	if i := s.indexOfContentLocked(it.Content); i >= 0 {
		existing := s.items[i]
		existing.Timestamp = time.Now()
		existing.SourceApp = it.SourceApp
		existing.WindowTitle = it.WindowTitle
		existing.BundleID = it.BundleID
		existing.PID = it.PID
		existing.FromEditor = it.FromEditor
		existing.Sensitive = it.Sensitive
		s.items = append(s.items[:i], s.items[i+1:]...)
		s.items = append([]Item{existing}, s.items...)
		stored = existing
	} else {
		s.items = append([]Item{it}, s.items...)
	}

	s.evictLocked()

	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return stored
}

// Touch refreshes an item's timestamp and moves it to the front, preserving
// identity, pin state and provenance. Used by the recopy path.
func (s *Store) Touch(id string) (Item, bool) {
	s.mu.Lock()

	i := s.indexOfIDLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Item{}, false
	}
	it := s.items[i]
	it.Timestamp = time.Now()
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.items = append([]Item{it}, s.items...)

	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return it, true
}

// TogglePin flips an item's pin state. Pinning is rejected without any state
// change when the pinned count is already at the limit. Returns the item's
// new pin state and whether the toggle was applied.
func (s *Store) TogglePin(id string) (pinned bool, ok bool) {
	s.mu.Lock()

	i := s.indexOfIDLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false, false
	}

	if !s.items[i].Pinned && s.pinnedCountLocked() >= s.maxPinned {
		s.mu.Unlock()
		return false, false
	}

	s.items[i].Pinned = !s.items[i].Pinned
	pinned = s.items[i].Pinned

	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return pinned, true
}

// Delete removes an item by identity. Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()

	i := s.indexOfIDLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)

	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

// Clear removes all items, or all unpinned items when keepPinned is set.
func (s *Store) Clear(keepPinned bool) {
	s.mu.Lock()

	if keepPinned {
		kept := s.items[:0]
		for _, it := range s.items {
			if it.Pinned {
				kept = append(kept, it)
			}
		}
		s.items = kept
	} else {
		s.items = nil
	}

	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

// Search returns items whose content contains the query, case-insensitive,
// preserving store order. An empty query returns everything.
func (s *Store) Search(query string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	var out []Item
	for _, it := range s.items {
		if q == "" || strings.Contains(strings.ToLower(it.Content), q) {
			out = append(out, it)
		}
	}
	return out
}

// contentSource adapts the item list to fuzzy matching.
type contentSource []Item

func (c contentSource) String(i int) string { return c[i].Content }
func (c contentSource) Len() int            { return len(c) }

// SearchRanked returns fuzzy matches ordered by match score.
func (s *Store) SearchRanked(query string) []Item {
	s.mu.Lock()
	snapshot := make([]Item, len(s.items))
	copy(snapshot, s.items)
	s.mu.Unlock()

	if query == "" {
		return snapshot
	}

	matches := fuzzy.FindFrom(query, contentSource(snapshot))
	out := make([]Item, 0, len(matches))
	for _, m := range matches {
		out = append(out, snapshot[m.Index])
	}
	return out
}

// Get returns an item by id.
func (s *Store) Get(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOfIDLocked(id); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

// Front returns the most recently touched item.
func (s *Store) Front() (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return Item{}, false
	}
	return s.items[0], true
}

// Items returns a copy of the history in display order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// PinnedCount returns the number of pinned items.
func (s *Store) PinnedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinnedCountLocked()
}

// SetMaxItems updates the history cap and trims immediately.
func (s *Store) SetMaxItems(n int) {
	if n <= 0 {
		panic(fmt.Sprintf("history: invalid max items %d", n))
	}
	s.mu.Lock()

	s.maxItems = n
	s.evictLocked()

	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

// SetMaxPinned updates the pin cap. Existing pins are left alone; the cap
// only gates future pin requests.
func (s *Store) SetMaxPinned(n int) {
	if n <= 0 {
		panic(fmt.Sprintf("history: invalid max pinned %d", n))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxPinned = n
}

// DeleteOlderThan removes unpinned items whose timestamp is older than the
// cutoff. Returns how many were removed.
func (s *Store) DeleteOlderThan(age time.Duration) int {
	s.mu.Lock()

	cutoff := time.Now().Add(-age)
	kept := s.items[:0]
	removed := 0
	for _, it := range s.items {
		if !it.Pinned && it.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept

	if removed == 0 {
		s.mu.Unlock()
		return 0
	}
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return removed
}

// ReplaceAll swaps in persisted history at startup and applies the current
// eviction policy, since the cap may have changed since the last run.
func (s *Store) ReplaceAll(items []Item) {
	s.mu.Lock()

	s.items = make([]Item, len(items))
	copy(s.items, items)
	s.evictLocked()

	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

// evictLocked enforces the size cap: unpinned items go first, least recently
// touched first; when only pinned items remain, the least recently touched
// pinned items go too. Pinning guarantees survival only up to the global cap.
func (s *Store) evictLocked() {
	for len(s.items) > s.maxItems {
		victim := -1
		for i := len(s.items) - 1; i >= 0; i-- {
			if !s.items[i].Pinned {
				victim = i
				break
			}
		}
		if victim < 0 {
			victim = len(s.items) - 1
		}
		s.items = append(s.items[:victim], s.items[victim+1:]...)
	}
}

func (s *Store) indexOfContentLocked(content string) int {
	for i, it := range s.items {
		if it.Content == content {
			return i
		}
	}
	return -1
}

func (s *Store) indexOfIDLocked(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) pinnedCountLocked() int {
	n := 0
	for _, it := range s.items {
		if it.Pinned {
			n++
		}
	}
	return n
}

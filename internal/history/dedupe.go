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
	"container/list"
	"fmt"
	"sync"
)

// DefaultIndexSize bounds the recent-fingerprint set independently of the
// history size limit, keeping the hot duplicate-check path O(1) even when
// history holds hundreds of items.
const DefaultIndexSize = 50

// Index is a bounded insertion-ordered set of content fingerprints. It answers
// "have I very recently seen this content?" without scanning full history.
// It is an approximation only: a fingerprint can fall out of the index while
// the item it belongs to is still in history, so callers must still defer to
// the store's authoritative content lookup.
type Index struct {
	mu       sync.Mutex
	capacity int
	order    *list.List               // front = most recently inserted
	seen     map[string]*list.Element // fingerprint -> list element
}

func NewIndex(capacity int) *Index {
	if capacity <= 0 {
		capacity = DefaultIndexSize
	}
	return &Index{
		capacity: capacity,
		order:    list.New(),
		seen:     make(map[string]*list.Element),
	}
}

// CheckAndRecord reports whether the fingerprint was already present and
// records it on a miss, evicting the oldest entry when over capacity. Entries
// age out strictly first-in-first-out: a hit does not refresh recency, so
// even a hot fingerprint eventually falls out and gets re-recorded.
func (ix *Index) CheckAndRecord(fingerprint string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.seen[fingerprint]; ok {
		return true
	}

	elem := ix.order.PushFront(fingerprint)
	ix.seen[fingerprint] = elem

	ix.trimLocked()
	return false
}

// SetCapacity updates the index bound at runtime, evicting the oldest entries
// when shrinking below the current size.
func (ix *Index) SetCapacity(n int) {
	if n <= 0 {
		panic(fmt.Sprintf("history: invalid index capacity %d", n))
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.capacity = n
	ix.trimLocked()
}

func (ix *Index) trimLocked() {
	for ix.order.Len() > ix.capacity {
		oldest := ix.order.Back()
		ix.order.Remove(oldest)
		delete(ix.seen, oldest.Value.(string))
	}
}

// Contains reports presence without recording.
func (ix *Index) Contains(fingerprint string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	_, ok := ix.seen[fingerprint]
	return ok
}

// Len returns the number of recorded fingerprints.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.order.Len()
}

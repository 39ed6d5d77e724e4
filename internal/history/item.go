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

// Package history holds the clipboard-history core: the item model, the
// recent-duplicate index, the authoritative ordered store with pin-aware
// eviction, and the polling clipboard monitor.
package history

import (
	"crypto/sha256"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/adaryorg/clipvault/internal/appinfo"
)

// Kind classifies an item's content for display and filtering only; it never
// participates in deduplication.
type Kind string

const (
	KindText     Kind = "text"
	KindInternal Kind = "internal"
)

// Item is one captured clipboard snapshot. Provenance fields are nil when the
// app-info resolver could not supply them.
type Item struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Pinned      bool      `json:"pinned"`
	SourceApp   *string   `json:"source_app,omitempty"`
	WindowTitle *string   `json:"window_title,omitempty"`
	BundleID    *string   `json:"bundle_id,omitempty"`
	PID         *int      `json:"pid,omitempty"`
	FromEditor  bool      `json:"from_editor"`
	Sensitive   bool      `json:"sensitive"`
	Kind        Kind      `json:"kind"`
}

var idSeq atomic.Int64

func newID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), idSeq.Add(1))
}

// NewItem builds a freshly captured item.
func NewItem(content string, info appinfo.Info, fromEditor bool) Item {
	return Item{
		ID:          newID(),
		Content:     content,
		Timestamp:   time.Now(),
		SourceApp:   info.App,
		WindowTitle: info.WindowTitle,
		BundleID:    info.BundleID,
		PID:         info.PID,
		FromEditor:  fromEditor,
		Kind:        KindText,
	}
}

// Fingerprint is the fast content hash used for approximate recent-duplicate
// detection. The store's byte-exact content comparison stays authoritative.
func Fingerprint(content string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
}

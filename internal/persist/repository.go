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

// Package persist decouples in-memory history mutation from durable storage:
// a Repository abstraction, a SQLite implementation, and a write-behind
// Gateway that debounces snapshot saves.
package persist

import "github.com/adaryorg/clipvault/internal/history"

// Repository is the durable storage the gateway writes behind. The in-memory
// store stays authoritative for reads even when a repository is failing.
type Repository interface {
	// Save persists the full history snapshot in display order. An empty
	// slice means "nothing to persist" and must be a no-op; erasing is
	// explicit via Clear.
	Save(items []history.Item) error

	// LoadAll returns persisted items in display order.
	LoadAll() ([]history.Item, error)

	// Delete removes one item by id.
	Delete(id string) error

	// Clear removes all items, or all unpinned items when keepPinned is set.
	Clear(keepPinned bool) error

	Close() error
}

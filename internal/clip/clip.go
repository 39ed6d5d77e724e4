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

// Package clip defines the narrow surface of the OS clipboard the engine
// consumes, plus a system-backed adapter and an in-memory fake for tests.
package clip

// Clipboard is the external clipboard resource. Implementations must be safe
// for concurrent use; all engine components share a single instance so that
// writes from one component are serialized against reads from another.
type Clipboard interface {
	// ReadText returns the current text payload. A nil error with an empty
	// string means the clipboard holds no text (non-text payloads are
	// indistinguishable from empty at this boundary). A non-nil error means
	// the payload could not be read at all and the caller should retry.
	ReadText() (string, error)

	// WriteText replaces the clipboard content with the given text.
	WriteText(content string) error

	// ChangeCount returns a monotonically increasing counter that advances
	// whenever the clipboard content changes, from any source.
	ChangeCount() int64

	// Clear empties the clipboard.
	Clear() error
}

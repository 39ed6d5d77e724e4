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

package clip

import (
	"errors"
	"sync"
)

// ErrReadFailed is returned by Memory when reads are forced to fail.
var ErrReadFailed = errors.New("clipboard read failed")

// Memory is an in-memory Clipboard for tests. External events are simulated
// through SetText and SetNonText.
type Memory struct {
	mu         sync.Mutex
	text       string
	changes    int64
	failReads  bool
	writeCount int
	clearCount int
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return "", ErrReadFailed
	}
	return m.text, nil
}

func (m *Memory) WriteText(content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = content
	m.changes++
	m.writeCount++
	return nil
}

func (m *Memory) ChangeCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.changes
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = ""
	m.changes++
	m.clearCount++
	return nil
}

// SetText simulates an external application writing text to the clipboard.
func (m *Memory) SetText(content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = content
	m.changes++
}

// SetNonText simulates an external application placing a non-text payload on
// the clipboard: the change counter advances but no text is readable.
func (m *Memory) SetNonText() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = ""
	m.changes++
}

// FailReads toggles forced read errors.
func (m *Memory) FailReads(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failReads = fail
}

// Text returns the current clipboard text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// WriteCount returns how many times WriteText was called.
func (m *Memory) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeCount
}

// ClearCount returns how many times Clear was called.
func (m *Memory) ClearCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearCount
}

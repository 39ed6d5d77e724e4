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

// Package autoclear periodically clears the external clipboard as a privacy
// measure. History is never touched by this component.
package autoclear

import (
	"context"
	"sync"
	"time"

	"github.com/adaryorg/clipvault/internal/clip"
	"github.com/adaryorg/clipvault/internal/logging"
	"github.com/adaryorg/clipvault/internal/security"
)

// Controller clears the external clipboard on a fixed interval. Only text
// payloads are cleared; anything else is left untouched.
type Controller struct {
	cb       clip.Clipboard
	detector *security.Detector
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New builds a controller. The detector is optional and only affects log
// verbosity when sensitive content gets cleared.
func New(cb clip.Clipboard, interval time.Duration, detector *security.Detector) *Controller {
	return &Controller{cb: cb, detector: detector, interval: interval}
}

// Start begins the clear timer. Idempotent.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.running = true
	c.cancel = cancel

	go c.loop(ctx)
}

// Stop cancels the clear timer. Idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}
	c.running = false
	c.cancel()
	c.cancel = nil
}

func (c *Controller) loop(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.clearOnce()
		}
	}
}

// clearOnce clears the clipboard if it currently holds text.
func (c *Controller) clearOnce() {
	content, err := c.cb.ReadText()
	if err != nil {
		logging.Debug("auto-clear skipped, clipboard unreadable: %v", err)
		return
	}
	if content == "" {
		// Non-text or already empty: leave it alone.
		return
	}

	if err := c.cb.Clear(); err != nil {
		logging.Warn("auto-clear failed: %v", err)
		return
	}

	if c.detector != nil && c.detector.Sensitive(content) {
		logging.Info("auto-cleared sensitive clipboard content (len=%d)", len(content))
	} else {
		logging.Debug("auto-cleared clipboard content (len=%d)", len(content))
	}
}

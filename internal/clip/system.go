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
	"crypto/sha256"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	atotto "github.com/atotto/clipboard"
	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

// System is the real OS clipboard. X11 reads go through golang.design's
// clipboard bindings (which discriminate text from other formats), writes
// through atotto plus xclip for the PRIMARY selection. Wayland sessions use
// wl-paste/wl-copy directly.
//
// Neither backend exposes a native change counter, so System derives one:
// the counter advances whenever the observed text payload hash differs from
// the previous observation, and on every local write.
type System struct {
	mu         sync.Mutex
	useWayland bool
	lastHash   [32]byte
	changes    int64
}

func NewSystem() *System {
	return &System{useWayland: isWaylandSession()}
}

func (s *System) ReadText() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.readLocked()
	if err != nil {
		return "", err
	}
	s.observeLocked(content)
	return content, nil
}

func (s *System) WriteText(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeLocked(content); err != nil {
		return err
	}
	s.observeLocked(content)
	return nil
}

func (s *System) ChangeCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if content, err := s.readLocked(); err == nil {
		s.observeLocked(content)
	}
	return s.changes
}

func (s *System) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeLocked(""); err != nil {
		return err
	}
	s.observeLocked("")
	return nil
}

// observeLocked advances the change counter when the payload differs from
// the last observed one. Caller holds s.mu.
func (s *System) observeLocked(content string) {
	h := sha256.Sum256([]byte(content))
	if h != s.lastHash {
		s.lastHash = h
		s.changes++
	}
}

func (s *System) readLocked() (string, error) {
	if s.useWayland {
		cmd := exec.Command("wl-paste", "--no-newline")
		output, err := cmd.Output()
		if err != nil {
			return "", fmt.Errorf("wl-paste failed: %w", err)
		}
		return string(output), nil
	}

	if err := ensureInit(); err != nil {
		return "", err
	}
	// Read returns nil for non-text payloads, which maps to "no text".
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (s *System) writeLocked(content string) error {
	if s.useWayland {
		cmd := exec.Command("wl-copy")
		cmd.Stdin = strings.NewReader(content)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("wl-copy failed: %w", err)
		}
		return nil
	}

	// CLIPBOARD via atotto (reliable for GUI apps); PRIMARY via xclip so
	// terminal paste keeps working. PRIMARY is best effort.
	if err := atotto.WriteAll(content); err != nil {
		return err
	}
	cmd := exec.Command("xclip", "-selection", "primary")
	cmd.Stdin = strings.NewReader(content)
	cmd.Run()

	return nil
}

func ensureInit() error {
	initOnce.Do(func() {
		initErr = clipboard.Init()
	})
	return initErr
}

func isWaylandSession() bool {
	return os.Getenv("WAYLAND_DISPLAY") != "" || os.Getenv("XDG_SESSION_TYPE") == "wayland"
}

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

// Package appinfo resolves best-effort provenance metadata for a clipboard
// capture: which application owned the focused window at capture time.
package appinfo

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Info describes the foreground application at a capture moment. Every field
// is optional; nil means the resolver could not determine the value.
type Info struct {
	App         *string
	WindowTitle *string
	BundleID    *string
	PID         *int
}

// Resolver supplies capture provenance. Implementations are best effort and
// never fail: unknown attributes stay nil.
type Resolver interface {
	Resolve() Info
}

// Noop resolves nothing. Used when no desktop session is available.
type Noop struct{}

func (Noop) Resolve() Info { return Info{} }

// X11 resolves the active window through xdotool and the owning process
// through /proc. Any command failure degrades to absent fields.
type X11 struct{}

// Available reports whether an X11 display is reachable.
func (X11) Available() bool {
	return os.Getenv("DISPLAY") != ""
}

func (x X11) Resolve() Info {
	var info Info

	title, err := exec.Command("xdotool", "getactivewindow", "getwindowname").Output()
	if err == nil {
		if t := strings.TrimSpace(string(title)); t != "" {
			info.WindowTitle = &t
		}
	}

	pidOut, err := exec.Command("xdotool", "getactivewindow", "getwindowpid").Output()
	if err != nil {
		return info
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(pidOut)))
	if err != nil {
		return info
	}
	info.PID = &pid

	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err == nil {
		if name := strings.TrimSpace(string(comm)); name != "" {
			info.App = &name
		}
	}

	return info
}

// Detect picks the best resolver for the current session.
func Detect() Resolver {
	if (X11{}).Available() {
		return X11{}
	}
	return Noop{}
}

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

// Package security flags clipboard text that looks like credential material.
// The flag is display metadata only: it never blocks a capture and never
// participates in dedup or eviction decisions.
package security

import (
	"regexp"
	"strings"
)

type Detector struct {
	patterns []*regexp.Regexp
}

var defaultPatterns = []string{
	// key=value credential assignments
	`(?i)(password|passwd|secret|api[_-]?key|access[_-]?token|auth[_-]?token)\s*[:=]\s*\S{6,}`,
	// PEM private key blocks
	`-----BEGIN (RSA |EC |OPENSSH |DSA )?PRIVATE KEY-----`,
	// AWS access key IDs
	`\bAKIA[0-9A-Z]{16}\b`,
	// Bearer tokens in headers
	`(?i)\bbearer\s+[A-Za-z0-9\-_.~+/]{20,}=*`,
	// GitHub personal access tokens
	`\bgh[pousr]_[A-Za-z0-9]{36,}\b`,
	// JWTs
	`\beyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\b`,
}

func NewDetector() *Detector {
	patterns := make([]*regexp.Regexp, 0, len(defaultPatterns))
	for _, p := range defaultPatterns {
		patterns = append(patterns, regexp.MustCompile(p))
	}
	return &Detector{patterns: patterns}
}

// Sensitive reports whether the content looks like credential material.
func (d *Detector) Sensitive(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}
	for _, p := range d.patterns {
		if p.MatchString(trimmed) {
			return true
		}
	}
	return false
}

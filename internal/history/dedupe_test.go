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
	"testing"
)

func TestIndexCheckAndRecord(t *testing.T) {
	ix := NewIndex(10)

	if ix.CheckAndRecord("a") {
		t.Error("Expected first sighting of 'a' to not be a duplicate")
	}
	if !ix.CheckAndRecord("a") {
		t.Error("Expected second sighting of 'a' to be a duplicate")
	}
	if ix.CheckAndRecord("b") {
		t.Error("Expected first sighting of 'b' to not be a duplicate")
	}
	if ix.Len() != 2 {
		t.Errorf("Expected 2 recorded fingerprints, got %d", ix.Len())
	}
}

func TestIndexBound(t *testing.T) {
	ix := NewIndex(3)

	for i := 0; i < 5; i++ {
		ix.CheckAndRecord(fmt.Sprintf("fp-%d", i))
	}

	if ix.Len() != 3 {
		t.Fatalf("Expected index bounded at 3, got %d", ix.Len())
	}

	// Oldest entries were evicted first.
	if ix.Contains("fp-0") || ix.Contains("fp-1") {
		t.Error("Expected oldest fingerprints to be evicted")
	}
	if !ix.Contains("fp-2") || !ix.Contains("fp-3") || !ix.Contains("fp-4") {
		t.Error("Expected newest fingerprints to be retained")
	}
}

func TestIndexHitDoesNotRefreshRecency(t *testing.T) {
	ix := NewIndex(3)

	ix.CheckAndRecord("a")
	ix.CheckAndRecord("b")
	ix.CheckAndRecord("c")

	// A hit on "a" leaves it in insertion order, so it still ages out first.
	if !ix.CheckAndRecord("a") {
		t.Fatal("Expected 'a' to be reported as a duplicate")
	}

	ix.CheckAndRecord("d")

	if ix.Contains("a") {
		t.Error("Expected 'a' to age out first-in-first-out despite the hit")
	}
	if !ix.Contains("b") || !ix.Contains("c") || !ix.Contains("d") {
		t.Error("Expected newer fingerprints to be retained")
	}

	// An aged-out fingerprint is recordable again.
	if ix.CheckAndRecord("a") {
		t.Error("Expected aged-out 'a' to be treated as new")
	}
}

func TestIndexSetCapacity(t *testing.T) {
	ix := NewIndex(5)

	for i := 0; i < 5; i++ {
		ix.CheckAndRecord(fmt.Sprintf("fp-%d", i))
	}

	// Shrinking evicts the oldest entries immediately.
	ix.SetCapacity(2)
	if ix.Len() != 2 {
		t.Fatalf("Expected index trimmed to 2, got %d", ix.Len())
	}
	if ix.Contains("fp-0") || ix.Contains("fp-2") {
		t.Error("Expected oldest fingerprints to be evicted on shrink")
	}
	if !ix.Contains("fp-3") || !ix.Contains("fp-4") {
		t.Error("Expected newest fingerprints to survive shrink")
	}

	// Growing raises the bound for future inserts.
	ix.SetCapacity(4)
	ix.CheckAndRecord("fp-5")
	ix.CheckAndRecord("fp-6")
	if ix.Len() != 4 {
		t.Errorf("Expected 4 fingerprints after growing, got %d", ix.Len())
	}
}

func TestIndexSetCapacityRejectsInvalid(t *testing.T) {
	ix := NewIndex(3)

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for non-positive capacity")
		}
	}()
	ix.SetCapacity(0)
}

func TestIndexDefaultCapacity(t *testing.T) {
	ix := NewIndex(0)

	for i := 0; i < DefaultIndexSize+10; i++ {
		ix.CheckAndRecord(fmt.Sprintf("fp-%d", i))
	}

	if ix.Len() != DefaultIndexSize {
		t.Errorf("Expected default capacity %d, got %d", DefaultIndexSize, ix.Len())
	}
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	if Fingerprint("hello") == Fingerprint("Hello") {
		t.Error("Expected fingerprints to be case-sensitive")
	}
	if Fingerprint("same") != Fingerprint("same") {
		t.Error("Expected identical content to produce identical fingerprints")
	}
}

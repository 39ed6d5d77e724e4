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
	"sync"
	"testing"
	"time"

	"github.com/adaryorg/clipvault/internal/appinfo"
)

func capture(s *Store, content string) Item {
	return s.Record(NewItem(content, appinfo.Info{}, false))
}

func contents(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Content
	}
	return out
}

func assertContents(t *testing.T, items []Item, want ...string) {
	t.Helper()
	got := contents(items)
	if len(got) != len(want) {
		t.Fatalf("Expected history %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected history %v, got %v", want, got)
		}
	}
}

func TestRecordDeduplicates(t *testing.T) {
	s := NewStore(10, 5)

	capture(s, "Hello")
	capture(s, "World")
	capture(s, "Hello")

	assertContents(t, s.Items(), "Hello", "World")
}

func TestRecordRefreshesMetadata(t *testing.T) {
	s := NewStore(10, 5)

	first := capture(s, "content")

	app := "editor"
	refreshed := s.Record(NewItem("content", appinfo.Info{App: &app}, true))

	if refreshed.ID != first.ID {
		t.Error("Expected identity to survive a duplicate capture")
	}
	if refreshed.SourceApp == nil || *refreshed.SourceApp != "editor" {
		t.Error("Expected provenance to be refreshed on duplicate capture")
	}
	if !refreshed.FromEditor {
		t.Error("Expected editor provenance to be refreshed on duplicate capture")
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 item after duplicate capture, got %d", s.Len())
	}
}

func TestRecordPreservesPinState(t *testing.T) {
	s := NewStore(10, 5)

	it := capture(s, "pinned content")
	if _, ok := s.TogglePin(it.ID); !ok {
		t.Fatal("Expected pin to succeed")
	}
	capture(s, "other")

	refreshed := capture(s, "pinned content")
	if !refreshed.Pinned {
		t.Error("Expected recapture to preserve pin state")
	}

	plain := capture(s, "never pinned")
	if plain.Pinned {
		t.Error("Expected recapture of unpinned content to stay unpinned")
	}
}

func TestEvictionBound(t *testing.T) {
	s := NewStore(3, 5)

	capture(s, "A")
	capture(s, "B")
	capture(s, "C")
	capture(s, "D")
	capture(s, "E")

	assertContents(t, s.Items(), "E", "D", "C")

	capture(s, "A")
	assertContents(t, s.Items(), "A", "E", "D")
}

func TestEvictionSkipsPinned(t *testing.T) {
	s := NewStore(3, 5)

	pinned := capture(s, "keep me")
	s.TogglePin(pinned.ID)
	capture(s, "B")
	capture(s, "C")
	capture(s, "D")

	items := s.Items()
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	found := false
	for _, it := range items {
		if it.Content == "keep me" {
			found = true
		}
	}
	if !found {
		t.Error("Expected pinned item to survive eviction")
	}
	// The evicted item was the least recently touched unpinned one.
	assertContents(t, items, "D", "C", "keep me")
}

func TestEvictionEvictsPinnedOnlyWhenOverCap(t *testing.T) {
	s := NewStore(5, 5)

	a := capture(s, "A")
	s.TogglePin(a.ID)
	b := capture(s, "B")
	s.TogglePin(b.ID)
	c := capture(s, "C")
	s.TogglePin(c.ID)

	// Pinned items alone exceed the new cap: the least recently touched
	// pinned items go too.
	s.SetMaxItems(2)

	assertContents(t, s.Items(), "C", "B")
}

func TestTrimThenReadd(t *testing.T) {
	s := NewStore(2, 5)

	capture(s, "A")
	capture(s, "B")
	capture(s, "C") // evicts A

	readded := capture(s, "A")
	if readded.Content != "A" {
		t.Fatal("Expected evicted content to be re-addable")
	}
	assertContents(t, s.Items(), "A", "C")
}

func TestTogglePinLimit(t *testing.T) {
	s := NewStore(10, 2)

	a := capture(s, "A")
	b := capture(s, "B")
	c := capture(s, "C")

	if pinned, ok := s.TogglePin(a.ID); !ok || !pinned {
		t.Fatal("Expected first pin to succeed")
	}
	if pinned, ok := s.TogglePin(b.ID); !ok || !pinned {
		t.Fatal("Expected second pin to succeed")
	}

	before := s.PinnedCount()
	if _, ok := s.TogglePin(c.ID); ok {
		t.Error("Expected pin beyond the limit to be rejected")
	}
	if s.PinnedCount() != before {
		t.Error("Expected rejected pin to leave pinned count unchanged")
	}

	// Unpinning always succeeds, then the freed slot is usable again.
	if pinned, ok := s.TogglePin(a.ID); !ok || pinned {
		t.Fatal("Expected unpin to succeed")
	}
	if _, ok := s.TogglePin(c.ID); !ok {
		t.Error("Expected pin to succeed after a slot was freed")
	}
}

func TestTogglePinUnknownID(t *testing.T) {
	s := NewStore(10, 5)

	if _, ok := s.TogglePin("missing"); ok {
		t.Error("Expected pin of unknown item to be rejected")
	}
}

func TestPinDoesNotReorder(t *testing.T) {
	s := NewStore(10, 5)

	a := capture(s, "A")
	capture(s, "B")

	s.TogglePin(a.ID)
	assertContents(t, s.Items(), "B", "A")
}

func TestDelete(t *testing.T) {
	s := NewStore(10, 5)

	a := capture(s, "A")
	capture(s, "B")

	s.Delete(a.ID)
	assertContents(t, s.Items(), "B")

	// Deleting a non-existent item is a no-op.
	s.Delete(a.ID)
	assertContents(t, s.Items(), "B")
}

func TestClearKeepPinned(t *testing.T) {
	s := NewStore(10, 5)

	x := capture(s, "X")
	s.TogglePin(x.ID)
	capture(s, "B")
	capture(s, "C")

	s.Clear(true)

	items := s.Items()
	if len(items) != 1 || items[0].Content != "X" || !items[0].Pinned {
		t.Errorf("Expected only pinned X to survive, got %v", contents(items))
	}

	s.Clear(false)
	if s.Len() != 0 {
		t.Error("Expected full clear to remove pinned items too")
	}
}

func TestSearch(t *testing.T) {
	s := NewStore(10, 5)

	capture(s, "Hello World")
	capture(s, "goodbye world")
	capture(s, "unrelated")

	matches := s.Search("WORLD")
	assertContents(t, matches, "goodbye world", "Hello World")

	if len(s.Search("")) != 3 {
		t.Error("Expected empty query to return everything")
	}
	if len(s.Search("absent")) != 0 {
		t.Error("Expected no matches for absent query")
	}
}

func TestSearchRanked(t *testing.T) {
	s := NewStore(10, 5)

	capture(s, "configure logging")
	capture(s, "config.toml")
	capture(s, "nothing relevant")

	matches := s.SearchRanked("config")
	if len(matches) != 2 {
		t.Fatalf("Expected 2 ranked matches, got %d", len(matches))
	}
	for _, m := range matches {
		if m.Content == "nothing relevant" {
			t.Error("Expected non-matching item to be excluded")
		}
	}
}

func TestSetMaxItemsTrimsImmediately(t *testing.T) {
	s := NewStore(10, 5)

	for i := 0; i < 5; i++ {
		capture(s, fmt.Sprintf("item-%d", i))
	}

	s.SetMaxItems(2)
	assertContents(t, s.Items(), "item-4", "item-3")
}

func TestSetMaxItemsRejectsInvalid(t *testing.T) {
	s := NewStore(10, 5)

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for non-positive max items")
		}
	}()
	s.SetMaxItems(0)
}

func TestDeleteOlderThan(t *testing.T) {
	s := NewStore(10, 5)

	old := NewItem("old", appinfo.Info{}, false)
	old.Timestamp = time.Now().Add(-2 * time.Hour)
	oldPinned := NewItem("old pinned", appinfo.Info{}, false)
	oldPinned.Timestamp = time.Now().Add(-2 * time.Hour)
	oldPinned.Pinned = true
	fresh := NewItem("fresh", appinfo.Info{}, false)

	s.ReplaceAll([]Item{fresh, old, oldPinned})

	removed := s.DeleteOlderThan(time.Hour)
	if removed != 1 {
		t.Fatalf("Expected 1 removed item, got %d", removed)
	}
	assertContents(t, s.Items(), "fresh", "old pinned")
}

func TestReplaceAllAppliesEviction(t *testing.T) {
	s := NewStore(2, 5)

	items := []Item{
		NewItem("A", appinfo.Info{}, false),
		NewItem("B", appinfo.Info{}, false),
		NewItem("C", appinfo.Info{}, false),
	}
	s.ReplaceAll(items)

	assertContents(t, s.Items(), "A", "B")
}

func TestSubscribeNotifiesAfterMutation(t *testing.T) {
	s := NewStore(10, 5)

	var mu sync.Mutex
	notified := 0
	s.Subscribe(func() {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	capture(s, "A")
	it := capture(s, "B")
	s.Delete(it.ID)

	mu.Lock()
	defer mu.Unlock()
	if notified != 3 {
		t.Errorf("Expected 3 notifications, got %d", notified)
	}
}

func TestDedupInvariantUnderConcurrency(t *testing.T) {
	s := NewStore(50, 10)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				it := capture(s, fmt.Sprintf("content-%d", i%20))
				switch i % 5 {
				case 0:
					s.TogglePin(it.ID)
				case 1:
					s.Delete(it.ID)
				case 2:
					s.Search("content")
				case 3:
					s.Touch(it.ID)
				}
			}
		}(g)
	}
	wg.Wait()

	items := s.Items()
	if len(items) > 50 {
		t.Errorf("Expected history bounded at 50, got %d", len(items))
	}
	seen := make(map[string]bool)
	for _, it := range items {
		if seen[it.Content] {
			t.Errorf("Duplicate content in history: %q", it.Content)
		}
		seen[it.Content] = true
	}
}

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

package persist

import (
	"path/filepath"
	"testing"

	"github.com/adaryorg/clipvault/internal/appinfo"
	"github.com/adaryorg/clipvault/internal/history"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSaveAndLoadRoundtrip(t *testing.T) {
	s := openTestDB(t)

	app := "terminal"
	title := "zsh - ~/src"
	pid := 4242
	withMeta := history.NewItem("first", appinfo.Info{App: &app, WindowTitle: &title, PID: &pid}, true)
	withMeta.Pinned = true
	withMeta.Sensitive = true
	bare := history.NewItem("second", appinfo.Info{}, false)

	if err := s.Save([]history.Item{withMeta, bare}); err != nil {
		t.Fatalf("Failed to save items: %v", err)
	}

	loaded, err := s.LoadAll()
	if err != nil {
		t.Fatalf("Failed to load items: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(loaded))
	}

	got := loaded[0]
	if got.ID != withMeta.ID || got.Content != "first" {
		t.Errorf("Expected first item to roundtrip, got %+v", got)
	}
	if !got.Pinned || !got.Sensitive || !got.FromEditor {
		t.Error("Expected boolean flags to roundtrip")
	}
	if got.SourceApp == nil || *got.SourceApp != "terminal" {
		t.Error("Expected source app to roundtrip")
	}
	if got.WindowTitle == nil || *got.WindowTitle != "zsh - ~/src" {
		t.Error("Expected window title to roundtrip")
	}
	if got.PID == nil || *got.PID != 4242 {
		t.Error("Expected pid to roundtrip")
	}
	if got.Kind != history.KindText {
		t.Errorf("Expected kind %q, got %q", history.KindText, got.Kind)
	}

	plain := loaded[1]
	if plain.SourceApp != nil || plain.WindowTitle != nil || plain.BundleID != nil || plain.PID != nil {
		t.Error("Expected absent provenance to load as nil")
	}
}

func TestSQLiteSaveReplacesSnapshot(t *testing.T) {
	s := openTestDB(t)

	first := []history.Item{
		history.NewItem("A", appinfo.Info{}, false),
		history.NewItem("B", appinfo.Info{}, false),
	}
	if err := s.Save(first); err != nil {
		t.Fatalf("Failed to save first snapshot: %v", err)
	}

	second := []history.Item{history.NewItem("C", appinfo.Info{}, false)}
	if err := s.Save(second); err != nil {
		t.Fatalf("Failed to save second snapshot: %v", err)
	}

	loaded, err := s.LoadAll()
	if err != nil {
		t.Fatalf("Failed to load items: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Content != "C" {
		t.Errorf("Expected snapshot to be replaced, got %d items", len(loaded))
	}
}

func TestSQLiteSaveEmptyIsNoOp(t *testing.T) {
	s := openTestDB(t)

	if err := s.Save([]history.Item{history.NewItem("survivor", appinfo.Info{}, false)}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if err := s.Save(nil); err != nil {
		t.Fatalf("Expected empty save to succeed, got %v", err)
	}

	loaded, err := s.LoadAll()
	if err != nil {
		t.Fatalf("Failed to load items: %v", err)
	}
	if len(loaded) != 1 {
		t.Error("Expected empty save to leave the previous snapshot intact")
	}
}

func TestSQLitePreservesOrder(t *testing.T) {
	s := openTestDB(t)

	items := []history.Item{
		history.NewItem("newest", appinfo.Info{}, false),
		history.NewItem("middle", appinfo.Info{}, false),
		history.NewItem("oldest", appinfo.Info{}, false),
	}
	if err := s.Save(items); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	loaded, err := s.LoadAll()
	if err != nil {
		t.Fatalf("Failed to load items: %v", err)
	}
	want := []string{"newest", "middle", "oldest"}
	for i, w := range want {
		if loaded[i].Content != w {
			t.Errorf("Expected %q at position %d, got %q", w, i, loaded[i].Content)
		}
	}
}

func TestSQLiteDelete(t *testing.T) {
	s := openTestDB(t)

	a := history.NewItem("A", appinfo.Info{}, false)
	b := history.NewItem("B", appinfo.Info{}, false)
	if err := s.Save([]history.Item{a, b}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	if err := s.Delete(a.ID); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}

	loaded, _ := s.LoadAll()
	if len(loaded) != 1 || loaded[0].ID != b.ID {
		t.Error("Expected only B to remain after delete")
	}

	// Deleting a missing id is a no-op.
	if err := s.Delete("missing"); err != nil {
		t.Errorf("Expected delete of missing id to succeed, got %v", err)
	}
}

func TestSQLiteClearKeepPinned(t *testing.T) {
	s := openTestDB(t)

	pinned := history.NewItem("keep", appinfo.Info{}, false)
	pinned.Pinned = true
	plain := history.NewItem("drop", appinfo.Info{}, false)
	if err := s.Save([]history.Item{pinned, plain}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	if err := s.Clear(true); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	loaded, _ := s.LoadAll()
	if len(loaded) != 1 || loaded[0].Content != "keep" {
		t.Error("Expected only the pinned item to survive")
	}

	if err := s.Clear(false); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	loaded, _ = s.LoadAll()
	if len(loaded) != 0 {
		t.Error("Expected full clear to remove pinned items too")
	}
}

package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/audiotrim-cli/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "windows.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testCommand() *cobra.Command {
	c := &cobra.Command{}
	c.SetContext(context.Background())
	return c
}

func TestApplyWindowWithoutDurationSavesRawValues(t *testing.T) {
	captureOutput(t)
	st := openTestStore(t)
	key := filepath.Join(t.TempDir(), "missing.mp3")
	end := 4.0

	snap, err := applyWindow(testCommand(), st, key, 1, &end, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Known || snap.Start != 1 || snap.End != 4 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	saved, err := st.Get(key)
	if err != nil {
		t.Fatalf("expected saved window: %v", err)
	}
	if saved.Start != 1 || saved.End == nil || *saved.End != 4 {
		t.Fatalf("unexpected saved window: %+v", saved)
	}

	if _, err := applyWindow(testCommand(), st, key, 0, nil, true); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if _, err := st.Get(key); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("reset without duration should drop the entry, got %v", err)
	}
}

func TestResolveInitialWindowPrefersFlags(t *testing.T) {
	st := openTestStore(t)
	end := 6.0
	if err := st.Save(store.SavedWindow{Source: "a.mp3", Start: 2, End: &end}); err != nil {
		t.Fatalf("save: %v", err)
	}

	start, gotEnd, err := resolveInitialWindow(st, "a.mp3", "", "")
	if err != nil || start != 2 || gotEnd == nil || *gotEnd != 6 {
		t.Fatalf("expected saved window, got %v / %v / %v", start, gotEnd, err)
	}
	start, gotEnd, err = resolveInitialWindow(st, "a.mp3", "0:01", "")
	if err != nil || start != 1 || gotEnd == nil || *gotEnd != 6 {
		t.Fatalf("start flag should override only start, got %v / %v / %v", start, gotEnd, err)
	}
	if _, _, err := resolveInitialWindow(st, "a.mp3", "abc", ""); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestWindowRows(t *testing.T) {
	end := 3.5
	rows := windowRows([]store.SavedWindow{
		{Source: "a.mp3", Start: 1, End: &end, UpdatedAt: time.Now()},
		{Source: "b.mp3"},
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1][2] != "dosya sonu" || rows[1][3] != "-" {
		t.Fatalf("unexpected open-ended row: %#v", rows[1])
	}
	if rows[0][0] != "a.mp3" || rows[0][2] == "dosya sonu" {
		t.Fatalf("unexpected row: %#v", rows[0])
	}
}

func TestSavedSnapshot(t *testing.T) {
	s := savedSnapshot(store.SavedWindow{Start: 2})
	if s.HasEnd || s.Start != 2 || s.Known {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}

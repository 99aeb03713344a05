package storage

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/tutien/tutien-server/internal/game"
)

func newPlayerStore(t *testing.T) (*PlayerStore, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFileStore[*game.Player](dir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	return NewPlayerStore(fs), dir
}

func TestPlayerStore_LoadMissing(t *testing.T) {
	ps, _ := newPlayerStore(t)

	p, found, err := ps.Load("nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found || p != nil {
		t.Errorf("expected no record, got found=%v player=%v", found, p)
	}
}

func TestPlayerStore_RoundTrip(t *testing.T) {
	ps, dir := newPlayerStore(t)

	p := game.NewPlayer("abc-123", "Đạo Hữu")
	p.Resources.Gold = 777
	p.Inventory.Add("hp_potion_small", 3, 10)
	p.CurrentRoom = "main_room"

	if err := ps.Upsert(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, found, err := ps.Load("abc-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected record to exist")
	}
	testutil.AssertEqual(t, "name", loaded.Name, "Đạo Hữu")
	testutil.AssertEqual(t, "gold", loaded.Resources.Gold, 777)

	// A fresh store over the same directory sees the record, proving it
	// reached disk and survives a restart.
	fs, err := NewFileStore[*game.Player](dir)
	if err != nil {
		t.Fatalf("unexpected error reopening store: %v", err)
	}
	reloaded, found, err := NewPlayerStore(fs).Load("abc-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected record after reload")
	}
	testutil.AssertEqual(t, "reloaded gold", reloaded.Resources.Gold, 777)
	testutil.AssertEqual(t, "reloaded potions", reloaded.Inventory.Quantity("hp_potion_small"), 3)
	testutil.AssertEqual(t, "reloaded room", reloaded.CurrentRoom, "main_room")
}

func TestPlayerStore_LoadReturnsCopy(t *testing.T) {
	ps, _ := newPlayerStore(t)

	p := game.NewPlayer("p1", "Tester")
	p.Resources.Gold = 100
	if err := ps.Upsert(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mutating a loaded record must not reach the store: the caller
	// owns the copy outright.
	loaded, _, _ := ps.Load("p1")
	loaded.Online = true
	loaded.Resources.Gold = 9999
	loaded.Inventory.Add("hp_potion_small", 5, 10)

	fresh, _, _ := ps.Load("p1")
	testutil.AssertEqual(t, "gold unchanged", fresh.Resources.Gold, 100)
	testutil.AssertEqual(t, "offline", fresh.Online, false)
	testutil.AssertEqual(t, "inventory unchanged", fresh.Inventory.Quantity("hp_potion_small"), 0)

	_, online := ps.Count()
	testutil.AssertEqual(t, "online count unchanged", online, 0)

	// SetOnline replaces the record rather than touching the one the
	// earlier load copied from.
	before, _, _ := ps.Load("p1")
	if err := ps.SetOnline("p1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "earlier copy untouched", before.Online, false)
	after, _, _ := ps.Load("p1")
	testutil.AssertEqual(t, "flag stored", after.Online, true)
}

func TestPlayerStore_UpsertRequiresId(t *testing.T) {
	ps, _ := newPlayerStore(t)

	err := ps.Upsert(&game.Player{Name: "No Id"})
	if err == nil {
		t.Error("expected error for missing id")
	}
}

func TestPlayerStore_SetOnline(t *testing.T) {
	ps, _ := newPlayerStore(t)

	// Missing record is a no-op.
	if err := ps.SetOnline("ghost", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := game.NewPlayer("p1", "Tester")
	if err := ps.Upsert(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ps.SetOnline("p1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded, _, _ := ps.Load("p1")
	testutil.AssertEqual(t, "online", loaded.Online, true)

	total, online := ps.Count()
	testutil.AssertEqual(t, "total", total, 1)
	testutil.AssertEqual(t, "online count", online, 1)

	if err := ps.SetOnline("p1", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, online = ps.Count()
	testutil.AssertEqual(t, "online after logout", online, 0)
}

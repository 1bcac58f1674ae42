package game

import (
	"testing"

	"triviabattle/internal/model"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	s, created := r.CreateOrGet("m1", model.ModeOneVOne, 2)
	if !created {
		t.Fatal("first CreateOrGet should create")
	}
	again, created := r.CreateOrGet("m1", model.ModeFour, 4)
	if created || again != s || again.Mode != model.ModeOneVOne {
		t.Fatal("existing session must be returned unchanged")
	}

	r.Index("p1", "m1")
	if id, ok := r.ResolveByPlayer("p1"); !ok || id != "m1" {
		t.Errorf("ResolveByPlayer = %q, %t", id, ok)
	}

	r.Remove("m1")
	if _, ok := r.Get("m1"); ok {
		t.Error("removed session still present")
	}
	if _, ok := r.ResolveByPlayer("p1"); ok {
		t.Error("index entry survived removal")
	}
	r.Remove("m1")
	if r.Len() != 0 {
		t.Errorf("Len = %d", r.Len())
	}
}

func TestOpenRandomPicksOldestWaiting(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.OpenRandom(); ok {
		t.Fatal("empty registry has an open random session")
	}

	first, _ := r.CreateOrGet("r1", model.ModeRandom, 2)
	r.CreateOrGet("r2", model.ModeRandom, 2)
	r.CreateOrGet("s1", model.ModeSolo, 1)

	if s, ok := r.OpenRandom(); !ok || s != first {
		t.Fatalf("OpenRandom = %v, want r1", s)
	}

	first.Join(player("p1", 100))
	first.Join(player("p2", 100))
	if s, ok := r.OpenRandom(); !ok || s.ID != "r2" {
		t.Fatalf("OpenRandom after r1 filled = %v, want r2", s)
	}
}

func TestByRoomCode(t *testing.T) {
	r := NewRegistry()
	s, _ := r.CreateOrGet("f1", model.ModeFriends, 4)
	s.RoomCode = "ABC234"

	if got, ok := r.ByRoomCode("ABC234"); !ok || got != s {
		t.Fatal("room code lookup failed")
	}
	s.Finish(false)
	if _, ok := r.ByRoomCode("ABC234"); ok {
		t.Error("finished room still resolvable")
	}
}

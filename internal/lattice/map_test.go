package lattice

import "testing"

func TestNewMapPanicsOnZeroN(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for N == 0")
		}
	}()
	NewMap[struct{}](Config{N: 0}, nil, nil)
}

func TestNewMapAccessors(t *testing.T) {
	m := NewMap[struct{}](Config{N: 8, GibbsIterations: 5, Seed: 1}, "cache", nil)
	if m.N() != 8 {
		t.Errorf("N() = %d, want 8", m.N())
	}
	if m.GibbsIterations() != 5 {
		t.Errorf("GibbsIterations() = %d, want 5", m.GibbsIterations())
	}
	if m.Cache() != "cache" {
		t.Errorf("Cache() = %v, want %q", m.Cache(), "cache")
	}
	if m.PatchCount() != 0 {
		t.Errorf("PatchCount() = %d, want 0 for a fresh map", m.PatchCount())
	}
}

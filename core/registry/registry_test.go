package registry

import "testing"

func TestRegistry_SetGetLock(t *testing.T) {
	r := New()
	if _, ok := r.GetGlobal("k"); ok {
		t.Fatal("GetGlobal on empty registry: want false")
	}
	r.SetGlobal("k", 42)
	v, ok := r.GetGlobal("k")
	if !ok || v != 42 {
		t.Errorf("GetGlobal = %v, %v; want 42, true", v, ok)
	}
	if r.IsLocked("k") {
		t.Error("IsLocked before Lock: want false")
	}
	r.Lock("k")
	if !r.IsLocked("k") {
		t.Error("IsLocked after Lock: want true")
	}
	r.UnlockForTesting("k")
	if r.IsLocked("k") {
		t.Error("IsLocked after UnlockForTesting: want false")
	}
}

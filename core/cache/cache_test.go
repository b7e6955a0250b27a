package cache

import (
	"testing"
	"time"
)

func TestSet_Get(t *testing.T) {
	c := NewCache()
	c.Set("k", "val", 0, nil)
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("Get: want true")
	}
	if got != "val" {
		t.Errorf("Get = %v, want val", got)
	}
}

func TestGet_Missing(t *testing.T) {
	c := NewCache()
	if _, ok := c.Get("nonexistent-key-xyz"); ok {
		t.Error("Get missing key: want false")
	}
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := NewCache(), NewCache()
	a.Set("k", 1, 0, nil)
	if _, ok := b.Get("k"); ok {
		t.Error("value leaked between cache instances")
	}
}

func TestGet_Expired(t *testing.T) {
	c := NewCache()
	base := time.Unix(1700000000, 0)
	c.now = func() time.Time { return base }
	c.Set("ttl", "v", 10, nil)
	c.now = func() time.Time { return base.Add(11 * time.Second) }
	if _, ok := c.Get("ttl"); ok {
		t.Error("Get after ttl: want false")
	}
	if c.Len() != 0 {
		t.Errorf("Len after expiry = %d, want 0", c.Len())
	}
}

func TestGetOrDefault(t *testing.T) {
	c := NewCache()
	if got := c.GetOrDefault("k", "default"); got != "default" {
		t.Errorf("GetOrDefault missing = %v, want default", got)
	}
	c.Set("k", "stored", 0, nil)
	if got := c.GetOrDefault("k", "default"); got != "stored" {
		t.Errorf("GetOrDefault found = %v, want stored", got)
	}
}

func TestSetN_GetN(t *testing.T) {
	c := NewCache()
	c.SetN([]interface{}{"catalog_product", "image"}, uint16(87), 0, nil)
	got, ok := c.GetN("catalog_product", "image")
	if !ok || got != uint16(87) {
		t.Errorf("GetN = %v, %v; want 87, true", got, ok)
	}
}

func TestDeleteByTag(t *testing.T) {
	c := NewCache()
	c.Set("k1", "v1", 0, []string{"t1"})
	c.Set("k2", "v2", 0, []string{"t1", "t2"})
	c.Set("k3", "v3", 0, nil)

	if keys := c.GetKeysByTag("t1"); len(keys) != 2 {
		t.Errorf("GetKeysByTag = %d keys, want 2", len(keys))
	}
	c.DeleteByTag("t1")
	if _, ok := c.Get("k1"); ok {
		t.Error("DeleteByTag: k1 should be gone")
	}
	if _, ok := c.Get("k2"); ok {
		t.Error("DeleteByTag: k2 should be gone")
	}
	if _, ok := c.Get("k3"); !ok {
		t.Error("DeleteByTag: untagged k3 should remain")
	}
	if keys := c.GetKeysByTag("t2"); len(keys) != 0 {
		t.Errorf("t2 keys after delete = %d, want 0", len(keys))
	}
}

func TestDelete_RemovesFromTagIndex(t *testing.T) {
	c := NewCache()
	c.Set("k", "v", 0, []string{"t"})
	c.Delete("k")
	if keys := c.GetKeysByTag("t"); len(keys) != 0 {
		t.Errorf("GetKeysByTag after Delete = %d keys, want 0", len(keys))
	}
}

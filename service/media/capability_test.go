package media

import (
	"errors"
	"testing"
)

func TestCapabilitiesFor(t *testing.T) {
	cases := []struct {
		version     string
		storeScoped bool
		legacy      bool
	}{
		{"2.4.6", true, false},
		{"2.4.6-p3", true, false},
		{"2.2.4", true, false},
		{"2.2.3", false, false},
		{"2.1.11", false, false},
		{"2.1.10", false, true},
		{"2.0", false, true},
		{"", true, false},
	}
	for _, c := range cases {
		caps, err := CapabilitiesFor(c.version)
		if err != nil {
			t.Fatalf("CapabilitiesFor(%q): %v", c.version, err)
		}
		if caps.StoreScopedGallery != c.storeScoped {
			t.Errorf("%q StoreScopedGallery = %v, want %v", c.version, caps.StoreScopedGallery, c.storeScoped)
		}
		if caps.LegacyAdditionalImages != c.legacy {
			t.Errorf("%q LegacyAdditionalImages = %v, want %v", c.version, caps.LegacyAdditionalImages, c.legacy)
		}
	}
}

func TestCapabilitiesFor_Invalid(t *testing.T) {
	if _, err := CapabilitiesFor("latest"); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("err = %v, want ErrUnsupportedVersion", err)
	}
}

func TestLayouts(t *testing.T) {
	entry := GalleryEntry{SKU: "S", Value: "/a/b/x.jpg", StoreID: 9}

	scoped := Capabilities{StoreScopedGallery: true}.Layout([]uint16{1, 2, 0})
	got := scoped.Expand(entry)
	if len(got) != 3 || got[0].StoreID != 1 || got[2].StoreID != 0 {
		t.Errorf("store scoped Expand = %+v, want stores 1,2,0", got)
	}

	flat := Capabilities{}.Layout(nil)
	got = flat.Expand(entry)
	if len(got) != 1 || got[0].StoreID != 0 {
		t.Errorf("flat Expand = %+v, want one entry in store 0", got)
	}
}

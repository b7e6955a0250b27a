package media

// GalleryEntry is one image assignment for a product in one store scope.
type GalleryEntry struct {
	SKU         string
	StoreID     uint16
	AttributeID uint16
	Label       string
	Position    int
	Disabled    bool
	Value       string
}

// GalleryLayout turns one resolved image into the entries the platform expects.
type GalleryLayout interface {
	Expand(entry GalleryEntry) []GalleryEntry
	StoreScoped() bool
}

// storeScopedLayout writes one entry per store view and the admin scope.
type storeScopedLayout struct {
	storeIDs []uint16
}

func (l storeScopedLayout) Expand(entry GalleryEntry) []GalleryEntry {
	out := make([]GalleryEntry, 0, len(l.storeIDs))
	for _, id := range l.storeIDs {
		e := entry
		e.StoreID = id
		out = append(out, e)
	}
	return out
}

func (storeScopedLayout) StoreScoped() bool { return true }

// flatLayout writes a single admin scope entry per product.
type flatLayout struct{}

func (flatLayout) Expand(entry GalleryEntry) []GalleryEntry {
	entry.StoreID = 0
	return []GalleryEntry{entry}
}

func (flatLayout) StoreScoped() bool { return false }

// Gallery accumulates entries for one batch in insertion order.
type Gallery struct {
	layout  GalleryLayout
	entries []GalleryEntry
}

func NewGallery(layout GalleryLayout) *Gallery {
	return &Gallery{layout: layout}
}

// Add expands entry through the layout and appends the result.
func (g *Gallery) Add(entry GalleryEntry) {
	g.entries = append(g.entries, g.layout.Expand(entry)...)
}

func (g *Gallery) Entries() []GalleryEntry {
	return g.entries
}

func (g *Gallery) Len() int {
	return len(g.entries)
}

// SKUs returns the distinct SKUs in first-seen order.
func (g *Gallery) SKUs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range g.entries {
		if !seen[e.SKU] {
			seen[e.SKU] = true
			out = append(out, e.SKU)
		}
	}
	return out
}

package media

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/nalgeon/be"
)

func TestStorageSKU_Truncates(t *testing.T) {
	long := strings.Repeat("x", SKUMaxLength+10)
	be.Equal(t, len(storageSKU(long)), SKUMaxLength)
	be.Equal(t, storageSKU("short"), "short")

	// 63 bytes plus a two-byte rune crossing the limit.
	prefix := strings.Repeat("x", SKUMaxLength-1)
	be.Equal(t, storageSKU(prefix+"éy"), prefix)
	umlauts := strings.Repeat("ü", SKUMaxLength)
	be.Equal(t, len(storageSKU(umlauts)), SKUMaxLength)
	be.True(t, utf8.ValidString(storageSKU(umlauts)))
}

func TestParseMultiValues(t *testing.T) {
	be.Equal(t, parseMultiValues("a,b,,c", ",", false), []string{"a", "b", "", "c"})
	be.Equal(t, parseMultiValues(`"Front, left","Say ""cheese"""`, ",", true), []string{"Front, left", `Say "cheese"`})
	be.Equal(t, parseMultiValues("no quotes", ",", true), []string{"no quotes"})
}

func TestImagesFromRow_TrimsAndDeduplicates(t *testing.T) {
	row := Row{
		"sku":                "S1",
		"_media_image":       " a.jpg , b.jpg,a.jpg,, c.jpg",
		"_media_image_label": "A,B,dup,empty,C,extra",
	}
	cols := imagesFromRow(row, ",", false)
	be.Equal(t, len(cols), 1)
	c := cols[0]
	be.Equal(t, c.Column, ColumnMediaImage)
	be.Equal(t, c.Images, []imageRef{{Raw: "a.jpg", Index: 0}, {Raw: "b.jpg", Index: 1}, {Raw: "c.jpg", Index: 4}})
	// Labels never outnumber the images.
	be.Equal(t, len(c.Labels), 3)
	be.Equal(t, c.label(c.Images[0]), "A")
	be.Equal(t, c.label(c.Images[1]), "B")
	be.Equal(t, c.label(c.Images[2]), "")
}

func TestImagesFromRow_ColumnOrderAndSkipsEmpty(t *testing.T) {
	row := Row{"thumbnail": "t.jpg", "image": "i.jpg", "small_image": "", "swatch_image": " , "}
	cols := imagesFromRow(row, ",", false)
	be.Equal(t, len(cols), 2)
	be.Equal(t, cols[0].Column, ColumnImage)
	be.Equal(t, cols[1].Column, ColumnThumbnail)
}

func TestDisabledSet(t *testing.T) {
	set := disabledSet(Row{"_media_is_disabled": "a.jpg| b.jpg"}, "|")
	be.True(t, set["a.jpg"])
	be.True(t, set["b.jpg"])
	be.Equal(t, len(disabledSet(Row{}, ",")), 0)
}

func TestNormalizeAdditionalImages(t *testing.T) {
	row := Row{"additional_images": "a.jpg|b.jpg"}
	normalizeAdditionalImages(row, "|")
	be.Equal(t, row["additional_images"], "a.jpg,b.jpg")
}

func TestDispersionPath(t *testing.T) {
	be.Equal(t, DispersionPath("abcdef"), "/a/b")
	be.Equal(t, DispersionPath(".htaccess"), "/_/h")
	be.Equal(t, DispersionPath("x"), "/x")
}

func TestHashedPath(t *testing.T) {
	ref := "https://cdn.example.com/p/1.jpg"
	h := HashedName(ref)
	be.Equal(t, len(h), 64)
	be.Equal(t, HashedPath(ref, "png"), "/"+h[:1]+"/"+h[1:2]+"/"+h+".png")
}

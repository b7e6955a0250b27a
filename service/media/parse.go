package media

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// SKUMaxLength is the width of the catalog sku column.
const SKUMaxLength = 64

const (
	ColumnSKU              = "sku"
	ColumnImage            = "image"
	ColumnSmallImage       = "small_image"
	ColumnThumbnail        = "thumbnail"
	ColumnSwatchImage      = "swatch_image"
	ColumnMediaImage       = "_media_image"
	ColumnMediaDisabled    = "_media_is_disabled"
	ColumnAdditionalImages = "additional_images"
	ColumnRowNum           = "rowNum"

	labelSuffix = "_label"
)

// imageColumns are resolved in this order; ColumnMediaImage collects gallery-only images.
var imageColumns = []string{ColumnImage, ColumnSmallImage, ColumnThumbnail, ColumnSwatchImage, ColumnMediaImage}

// roleColumns are the image roles persisted as varchar attributes in deferred mode.
var roleColumns = []string{ColumnImage, ColumnSmallImage, ColumnThumbnail}

var enclosedValue = regexp.MustCompile(`"((?:[^"]|"")*)"`)

// storageSKU truncates sku to at most SKUMaxLength bytes. A multi-byte character
// straddling the limit is dropped whole.
func storageSKU(sku string) string {
	if len(sku) <= SKUMaxLength {
		return sku
	}
	n := SKUMaxLength
	for n > 0 && !utf8.RuneStart(sku[n]) {
		n--
	}
	return sku[:n]
}

// parseMultiValues splits a label cell. With enclosure on, values are the double
// quoted tokens and "" unescapes to "; a cell without tokens is one value.
func parseMultiValues(value, sep string, enclosure bool) []string {
	if !enclosure {
		return strings.Split(value, sep)
	}
	matches := enclosedValue.FindAllStringSubmatch(value, -1)
	if len(matches) == 0 {
		return []string{value}
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.ReplaceAll(m[1], `""`, `"`))
	}
	return out
}

// imageRef is a reference and its index in the original cell. Position and
// label lookup use the index, so duplicates removed earlier leave gaps.
type imageRef struct {
	Raw   string
	Index int
}

type columnImages struct {
	Column string
	Images []imageRef
	Labels []string
}

func (c columnImages) label(ref imageRef) string {
	if ref.Index < len(c.Labels) {
		return c.Labels[ref.Index]
	}
	return ""
}

// imagesFromRow extracts the image columns of row. References are trimmed and
// deduplicated keeping the first occurrence; empty tokens are skipped. Labels come
// from "<column>_label" and never outnumber the images.
func imagesFromRow(row Row, sep string, enclosure bool) []columnImages {
	var out []columnImages
	for _, col := range imageColumns {
		value := row[col]
		if value == "" {
			continue
		}
		seen := make(map[string]bool)
		ci := columnImages{Column: col}
		for i, raw := range strings.Split(value, sep) {
			raw = strings.TrimSpace(raw)
			if raw == "" || seen[raw] {
				continue
			}
			seen[raw] = true
			ci.Images = append(ci.Images, imageRef{Raw: raw, Index: i})
		}
		if len(ci.Images) == 0 {
			continue
		}
		if labels := row[col+labelSuffix]; labels != "" {
			ci.Labels = parseMultiValues(labels, sep, enclosure)
			if len(ci.Labels) > len(ci.Images) {
				ci.Labels = ci.Labels[:len(ci.Images)]
			}
		}
		out = append(out, ci)
	}
	return out
}

// disabledSet parses the disabled-images cell into trimmed references.
func disabledSet(row Row, sep string) map[string]bool {
	value, ok := row[ColumnMediaDisabled]
	if !ok || value == "" {
		return nil
	}
	out := make(map[string]bool)
	for _, raw := range strings.Split(value, sep) {
		if raw = strings.TrimSpace(raw); raw != "" {
			out[raw] = true
		}
	}
	return out
}

// normalizeAdditionalImages rewrites additional_images as a plain comma list.
func normalizeAdditionalImages(row Row, sep string) {
	value, ok := row[ColumnAdditionalImages]
	if !ok || value == "" || sep == "," {
		return
	}
	row[ColumnAdditionalImages] = strings.Join(strings.Split(value, sep), ",")
}

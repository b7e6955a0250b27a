package media

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrUnsupportedVersion is returned for a platform version that cannot be parsed.
var ErrUnsupportedVersion = errors.New("unsupported platform version")

const (
	// From this version gallery values are written per store view.
	storeScopedGalleryVersion = "v2.2.4"
	// Before this version additional_images was a plain comma list.
	commaAdditionalImagesVersion = "v2.1.11"
)

// Capabilities are the version-dependent behaviors, fixed once per processor.
type Capabilities struct {
	Version                string
	StoreScopedGallery     bool
	LegacyAdditionalImages bool
}

// CapabilitiesFor parses versions like "2.4.6" or "2.4.6-p3". Empty means current.
func CapabilitiesFor(version string) (Capabilities, error) {
	if version == "" {
		return Capabilities{Version: "current", StoreScopedGallery: true}, nil
	}
	v := "v" + strings.TrimPrefix(version, "v")
	if !semver.IsValid(v) {
		return Capabilities{}, fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}
	// A patch suffix is not a pre-release: 2.2.4-p1 has the 2.2.4 feature set.
	base := semver.Canonical(v)
	if pre := semver.Prerelease(base); pre != "" {
		base = strings.TrimSuffix(base, pre)
	}
	return Capabilities{
		Version:                version,
		StoreScopedGallery:     semver.Compare(base, storeScopedGalleryVersion) >= 0,
		LegacyAdditionalImages: semver.Compare(base, commaAdditionalImagesVersion) < 0,
	}, nil
}

// Layout returns the gallery fan-out strategy for these capabilities.
func (c Capabilities) Layout(storeIDs []uint16) GalleryLayout {
	if c.StoreScopedGallery {
		return storeScopedLayout{storeIDs: storeIDs}
	}
	return flatLayout{}
}

package media

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/stefanologica/firebear-importexport/core/log"
	"github.com/stefanologica/firebear-importexport/core/storage"
)

const (
	// DefaultImportDir holds local image files referenced by relative path.
	DefaultImportDir = "pub/media/import"
	// ProductMediaDir is where stored product images live.
	ProductMediaDir = "pub/media/catalog/product"

	defaultMaxBytes = 32 << 20
)

// ErrUploaderSetup aborts a batch whose upload directories cannot be used.
var ErrUploaderSetup = errors.New("image uploader setup failed")

// AllowedExtensions are checked in this order when probing hashed names.
var AllowedExtensions = []string{"jpg", "jpeg", "gif", "png", "webp"}

var contentTypeExtensions = map[string]string{
	"image/jpeg":  "jpg",
	"image/pjpeg": "jpg",
	"image/png":   "png",
	"image/gif":   "gif",
	"image/webp":  "webp",
}

// HashedName is the content address of a reference: hex sha256 of the raw string.
func HashedName(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return hex.EncodeToString(sum[:])
}

// DispersionPath spreads files over "/x/y" directories taken from the first two
// characters of name; a dot becomes an underscore.
func DispersionPath(name string) string {
	var b strings.Builder
	for i := 0; i < 2 && i < len(name); i++ {
		c := name[i]
		if c == '.' {
			c = '_'
		}
		b.WriteByte('/')
		b.WriteByte(c)
	}
	return b.String()
}

// HashedPath is the stored path a reference gets for ext, relative to ProductMediaDir.
func HashedPath(ref, ext string) string {
	h := HashedName(ref)
	return DispersionPath(h) + "/" + h + "." + ext
}

// Uploader stores referenced images under ProductMediaDir. It is built per batch.
type Uploader struct {
	dir      storage.Directory
	fetcher  Fetcher
	tmpDir   string
	destDir  string
	maxBytes int64
}

// NewUploader checks the temp directory (importDir, or DefaultImportDir when empty
// or a URL) is readable and creates a writable destination. Failures wrap
// ErrUploaderSetup.
func NewUploader(ctx context.Context, dir storage.Directory, fetcher Fetcher, importDir string, maxBytes int64) (*Uploader, error) {
	tmpDir := strings.Trim(importDir, "/")
	if tmpDir == "" || isURL(importDir) {
		tmpDir = DefaultImportDir
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	if !dir.IsReadable(ctx, tmpDir) {
		return nil, fmt.Errorf("%w: file directory '%s' is not readable", ErrUploaderSetup, dir.AbsolutePath(tmpDir))
	}
	if err := dir.Create(ctx, ProductMediaDir); err != nil {
		return nil, fmt.Errorf("%w: create destination '%s': %v", ErrUploaderSetup, dir.AbsolutePath(ProductMediaDir), err)
	}
	if !dir.IsWritable(ctx, ProductMediaDir) {
		return nil, fmt.Errorf("%w: destination directory '%s' is not writable", ErrUploaderSetup, dir.AbsolutePath(ProductMediaDir))
	}
	return &Uploader{
		dir:      dir,
		fetcher:  fetcher,
		tmpDir:   tmpDir,
		destDir:  ProductMediaDir,
		maxBytes: maxBytes,
	}, nil
}

// TmpDir is the directory relative references are read from.
func (u *Uploader) TmpDir() string {
	return u.tmpDir
}

// Upload stores ref and returns its stored path, or "" when it cannot be stored.
// With renameOff an existing file of the same name is overwritten, otherwise a
// numeric suffix is added.
func (u *Uploader) Upload(ctx context.Context, ref string, renameOff bool) string {
	stored, err := u.Move(ctx, ref, renameOff)
	if err != nil {
		log.Warnw("image upload failed", "reference", ref, "error", err)
		return ""
	}
	return stored
}

// Move fetches, validates and stores ref.
func (u *Uploader) Move(ctx context.Context, ref string, renameOff bool) (string, error) {
	data, contentType, err := u.read(ctx, ref)
	if err != nil {
		return "", err
	}
	ext := extensionFor(ref, contentType)
	if !allowedExtension(ext) {
		return "", fmt.Errorf("disallowed file type %q", ext)
	}
	if err := validateImage(data, ext); err != nil {
		return "", err
	}

	stored := HashedPath(ref, ext)
	if !renameOff {
		if stored, err = u.uniquePath(ctx, stored); err != nil {
			return "", err
		}
	}
	if err := u.dir.Write(ctx, path.Join(u.destDir, stored), bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("write %s: %w", stored, err)
	}
	return stored, nil
}

func (u *Uploader) read(ctx context.Context, ref string) ([]byte, string, error) {
	var (
		body        io.ReadCloser
		contentType string
		err         error
	)
	if isURL(ref) {
		body, contentType, err = u.fetcher.Fetch(ctx, ref)
	} else {
		body, err = u.dir.Open(ctx, path.Join(u.tmpDir, strings.TrimLeft(ref, "/")))
	}
	if err != nil {
		return nil, "", err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, u.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", ref, err)
	}
	if int64(len(data)) > u.maxBytes {
		return nil, "", fmt.Errorf("%s exceeds %d bytes", ref, u.maxBytes)
	}
	return data, contentType, nil
}

// uniquePath appends _1, _2 ... to the file name until it is free.
func (u *Uploader) uniquePath(ctx context.Context, stored string) (string, error) {
	ext := path.Ext(stored)
	base := strings.TrimSuffix(stored, ext)
	candidate := stored
	for i := 1; ; i++ {
		exists, err := u.dir.Exists(ctx, path.Join(u.destDir, candidate))
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "_" + strconv.Itoa(i) + ext
	}
}

// extensionFor takes the extension from the reference path, falling back to the
// response content type.
func extensionFor(ref, contentType string) string {
	p := ref
	if isURL(ref) {
		if parsed, err := url.Parse(ref); err == nil {
			p = parsed.Path
		}
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if allowedExtension(ext) || contentType == "" {
		return ext
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		if e, ok := contentTypeExtensions[mediaType]; ok {
			return e
		}
	}
	return ext
}

func allowedExtension(ext string) bool {
	for _, a := range AllowedExtensions {
		if a == ext {
			return true
		}
	}
	return false
}

// validateImage rejects content that does not decode as an image.
func validateImage(data []byte, ext string) error {
	if ext == "webp" {
		if _, err := webp.DecodeConfig(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("invalid webp image: %w", err)
		}
		return nil
	}
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("invalid image: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/spf13/afero"
)

// LocalDirectory stores files on an afero filesystem rooted at root.
type LocalDirectory struct {
	fs   afero.Fs
	root string
}

// NewLocalDirectory roots the OS filesystem at root.
func NewLocalDirectory(root string) *LocalDirectory {
	return &LocalDirectory{fs: afero.NewBasePathFs(afero.NewOsFs(), root), root: root}
}

// NewDirectoryFs wraps an arbitrary afero filesystem, MemMapFs in tests.
func NewDirectoryFs(fs afero.Fs, root string) *LocalDirectory {
	return &LocalDirectory{fs: fs, root: root}
}

// clean anchors p at the directory root so ".." cannot climb above it.
func clean(p string) string {
	return path.Clean("/" + p)
}

func (d *LocalDirectory) Exists(_ context.Context, p string) (bool, error) {
	return afero.Exists(d.fs, clean(p))
}

func (d *LocalDirectory) Delete(_ context.Context, p string) error {
	return d.fs.Remove(clean(p))
}

func (d *LocalDirectory) AbsolutePath(p string) string {
	return path.Join(d.root, clean(p))
}

func (d *LocalDirectory) Create(_ context.Context, p string) error {
	return d.fs.MkdirAll(clean(p), 0o775)
}

func (d *LocalDirectory) IsReadable(_ context.Context, p string) bool {
	f, err := d.fs.Open(clean(p))
	if err != nil {
		return false
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err = f.Readdirnames(1)
		return err == nil || err == io.EOF
	}
	return true
}

// IsWritable checks by creating and removing a temp file in the directory.
func (d *LocalDirectory) IsWritable(_ context.Context, p string) bool {
	ok, err := afero.IsDir(d.fs, clean(p))
	if err != nil || !ok {
		return false
	}
	f, err := afero.TempFile(d.fs, clean(p), ".writable-")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	_ = d.fs.Remove(name)
	return true
}

func (d *LocalDirectory) Open(_ context.Context, p string) (io.ReadCloser, error) {
	return d.fs.Open(clean(p))
}

func (d *LocalDirectory) Write(_ context.Context, p string, r io.Reader) error {
	p = clean(p)
	if err := d.fs.MkdirAll(path.Dir(p), 0o775); err != nil {
		return fmt.Errorf("create %s: %w", path.Dir(p), err)
	}
	f, err := d.fs.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o664)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"

	"github.com/stefanologica/firebear-importexport/core/storage"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// memDirectory is an in-memory media root with the import directory present.
func memDirectory(t *testing.T) (*storage.LocalDirectory, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/"+DefaultImportDir, 0o775); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return storage.NewDirectoryFs(fs, "/srv/shop"), fs
}

// imageServer serves a png for every path except /missing and /text.
func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	body := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.jpg":
			http.NotFound(w, r)
		case "/text.jpg":
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("not an image"))
		default:
			w.Header().Set("Content-Type", "image/png")
			w.Write(body)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestUploader(t *testing.T, srv *httptest.Server) (*Uploader, afero.Fs) {
	t.Helper()
	dir, fs := memDirectory(t)
	u, err := NewUploader(context.Background(), dir, NewHTTPFetcherWithClient(srv.Client()), "", 0)
	if err != nil {
		t.Fatalf("NewUploader: %v", err)
	}
	return u, fs
}

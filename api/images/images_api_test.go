package images

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/stefanologica/firebear-importexport/app"
	"github.com/stefanologica/firebear-importexport/config"
	entity "github.com/stefanologica/firebear-importexport/model/entity"
	productEntity "github.com/stefanologica/firebear-importexport/model/entity/product"
	"github.com/stefanologica/firebear-importexport/service/media"
)

func imagesTestApp(t *testing.T) *app.App {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("images_api_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&entity.EavEntityType{},
		&entity.EavAttribute{},
		&entity.Store{},
		&productEntity.Product{},
		&productEntity.ProductVarchar{},
		&productEntity.ProductMediaGallery{},
		&productEntity.ProductMediaGalleryValue{},
		&productEntity.ProductMediaGalleryValueToEntity{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.Create(&entity.EavEntityType{EntityTypeID: 4, EntityTypeCode: "catalog_product"})
	db.Create(&entity.EavAttribute{AttributeID: 90, EntityTypeID: 4, AttributeCode: "media_gallery"})
	db.Create(&[]entity.Store{{StoreID: 0, Code: "admin"}, {StoreID: 1, Code: "default"}})
	db.Create(&productEntity.Product{SKU: "S1", AttributeSetID: 4, TypeID: "simple"})

	root := t.TempDir()
	importDir := filepath.Join(root, media.DefaultImportDir)
	if err := os.MkdirAll(importDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var buf bytes.Buffer
	png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if err := os.WriteFile(filepath.Join(importDir, "front.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Root = root
	cfg.Queue.Driver = "memory"
	a, err := app.Build(context.Background(), cfg, db)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return a
}

func imagesTestServer(a *app.App) *echo.Echo {
	e := echo.New()
	RegisterImageRoutes(e.Group("/api"), a)
	return e
}

func doRequest(e *echo.Echo, method, path string, body interface{}) *httptest.ResponseRecorder {
	var b []byte
	switch v := body.(type) {
	case nil:
	case string:
		b = []byte(v)
	default:
		b, _ = json.Marshal(v)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestImportImages_Sync(t *testing.T) {
	e := imagesTestServer(imagesTestApp(t))

	rec := doRequest(e, http.MethodPost, "/api/images/import",
		`{"config":{},"data":{"5":{"sku":"S1","image":"front.png","_media_image":"missing.png"}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Rows           map[string]map[string]string `json:"rows"`
		GalleryEntries int                          `json:"gallery_entries"`
		ErrorCount     int                          `json:"error_count"`
		RowErrors      []struct {
			Row    int                     `json:"row"`
			Errors []media.ProcessingError `json:"errors"`
		} `json:"row_errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// One image in store 1 and the admin scope.
	if resp.GalleryEntries != 2 {
		t.Errorf("gallery_entries = %d, want 2", resp.GalleryEntries)
	}
	if got := resp.Rows["5"]["image"]; got != media.HashedPath("front.png", "png") {
		t.Errorf("image = %q, want hashed path", got)
	}
	if resp.ErrorCount != 1 || len(resp.RowErrors) != 1 || resp.RowErrors[0].Row != 5 {
		t.Fatalf("row errors = %+v", resp.RowErrors)
	}
	if resp.RowErrors[0].Errors[0].Code != media.ErrCodeWrongReference {
		t.Errorf("code = %q, want %q", resp.RowErrors[0].Errors[0].Code, media.ErrCodeWrongReference)
	}
}

func TestImportImages_EmptyBatch(t *testing.T) {
	e := imagesTestServer(imagesTestApp(t))
	rec := doRequest(e, http.MethodPost, "/api/images/import", `{"config":{},"data":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	rec = doRequest(e, http.MethodPost, "/api/images/import", `{"data":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}
}

func TestImportImages_AsyncJob(t *testing.T) {
	a := imagesTestApp(t)
	e := imagesTestServer(a)

	rec := doRequest(e, http.MethodPost, "/api/images/import?async=1",
		`{"config":{},"data":{"1":{"sku":"S1","image":"front.png"}}}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var queued map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &queued)
	id, _ := queued["job_id"].(string)
	if id == "" || queued["status"] != entity.JobStatusQueued {
		t.Fatalf("queued = %v", queued)
	}

	n, err := a.Worker().Drain(context.Background(), 1)
	if err != nil || n != 1 {
		t.Fatalf("Drain = %d, %v; want 1, nil", n, err)
	}

	rec = doRequest(e, http.MethodGet, "/api/images/jobs/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("job status = %d", rec.Code)
	}
	var job entity.ImageImportJob
	if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.Status != entity.JobStatusDone || job.GalleryEntries != 2 {
		t.Errorf("job = %+v", job)
	}
}

func TestJobStatus_NotFound(t *testing.T) {
	e := imagesTestServer(imagesTestApp(t))
	rec := doRequest(e, http.MethodGet, "/api/images/jobs/unknown", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PlatformVersion != "2.4.6" {
		t.Errorf("PlatformVersion = %q, want 2.4.6", cfg.PlatformVersion)
	}
	if cfg.Storage.Driver != "local" {
		t.Errorf("Storage.Driver = %q, want local", cfg.Storage.Driver)
	}
	if cfg.Queue.Concurrency != 2 {
		t.Errorf("Queue.Concurrency = %d, want 2", cfg.Queue.Concurrency)
	}
}

func TestLoad_EnvOverridesNestedKeys(t *testing.T) {
	t.Setenv("QUEUE_DRIVER", "redis")
	t.Setenv("PLATFORM_VERSION", "2.1.9")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Queue.Driver != "redis" {
		t.Errorf("Queue.Driver = %q, want redis", cfg.Queue.Driver)
	}
	if cfg.PlatformVersion != "2.1.9" {
		t.Errorf("PlatformVersion = %q, want 2.1.9", cfg.PlatformVersion)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "magento_root: /var/www/shop\nstorage:\n  driver: minio\n  minio:\n    bucket_name: catalog\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root != "/var/www/shop" {
		t.Errorf("Root = %q, want /var/www/shop", cfg.Root)
	}
	if cfg.Storage.Driver != "minio" || cfg.Storage.MinIO.BucketName != "catalog" {
		t.Errorf("Storage = %+v, want minio/catalog", cfg.Storage)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load missing file: want error")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("IMPORT_TEST_KEY", "")
	if got := GetEnv("IMPORT_TEST_KEY", "def"); got != "def" {
		t.Errorf("GetEnv empty = %q, want def", got)
	}
	t.Setenv("IMPORT_TEST_KEY", "set")
	if got := GetEnv("IMPORT_TEST_KEY", "def"); got != "set" {
		t.Errorf("GetEnv set = %q, want set", got)
	}
}

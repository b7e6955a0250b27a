package custom

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stefanologica/firebear-importexport/core/crypto"
)

func TestTransformConfigFile_RoundTrip(t *testing.T) {
	cipher, err := crypto.NewCipher("key")
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	enc := crypto.NewFieldEncryptor(cipher)

	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"password":"hunter2","remove_images":"1"}`), 0o644)

	out, err := transformConfigFile(path, enc.Encrypt)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if strings.Contains(string(out), "hunter2") || !strings.Contains(string(out), `"remove_images": "1"`) {
		t.Fatalf("encrypted output = %s", out)
	}

	os.WriteFile(path, out, 0o644)
	out, err = transformConfigFile(path, enc.Decrypt)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !strings.Contains(string(out), `"password": "hunter2"`) {
		t.Errorf("decrypted output = %s", out)
	}
}

func TestTransformConfigFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`[1,2]`), 0o644)
	if _, err := transformConfigFile(path, func(map[string]interface{}) error { return nil }); err == nil {
		t.Error("expected error for a non-object config")
	}
}

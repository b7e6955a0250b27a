// Package crypto protects credential fields of import job configs.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// Encrypted values look like "<keyVersion>:<cipherVersion>:<base64 payload>".
const (
	keyVersion    = "0"
	cipherVersion = "3"
	prefix        = keyVersion + ":" + cipherVersion + ":"
)

var (
	ErrNotEncrypted = errors.New("value is not encrypted")
	ErrEmptyKey     = errors.New("crypt key is empty")
)

// Cipher is XChaCha20-Poly1305 keyed by sha256 of the configured crypt key.
type Cipher struct {
	key [32]byte
}

func NewCipher(cryptKey string) (*Cipher, error) {
	if cryptKey == "" {
		return nil, ErrEmptyKey
	}
	return &Cipher{key: sha256.Sum256([]byte(cryptKey))}, nil
}

// IsEncrypted reports whether value carries the current version prefix.
func IsEncrypted(value string) bool {
	if !strings.HasPrefix(value, prefix) {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(value[len(prefix):])
	return err == nil
}

func (c *Cipher) Encrypt(plain string) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key[:])
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plain), nil)
	return prefix + base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *Cipher) Decrypt(value string) (string, error) {
	if !IsEncrypted(value) {
		return "", ErrNotEncrypted
	}
	raw, _ := base64.StdEncoding.DecodeString(value[len(prefix):])
	aead, err := chacha20poly1305.NewX(c.key[:])
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", fmt.Errorf("decrypt: payload too short")
	}
	plain, err := aead.Open(nil, raw[:aead.NonceSize()], raw[aead.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plain), nil
}

package crypto

import "fmt"

// DefaultFields are the job config keys holding remote source credentials.
var DefaultFields = []string{
	"export_source_ftp_password",
	"export_source_sftp_password",
	"password",
}

// FieldEncryptor encrypts and decrypts selected string fields of a config map in place.
type FieldEncryptor struct {
	cipher *Cipher
	fields []string
}

// NewFieldEncryptor uses DefaultFields when fields is empty.
func NewFieldEncryptor(cipher *Cipher, fields ...string) *FieldEncryptor {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	return &FieldEncryptor{cipher: cipher, fields: fields}
}

// Encrypt skips absent, empty, non-string and already encrypted values.
func (e *FieldEncryptor) Encrypt(data map[string]interface{}) error {
	for _, field := range e.fields {
		value, ok := data[field].(string)
		if !ok || value == "" || IsEncrypted(value) {
			continue
		}
		enc, err := e.cipher.Encrypt(value)
		if err != nil {
			return fmt.Errorf("encrypt %s: %w", field, err)
		}
		data[field] = enc
	}
	return nil
}

// Decrypt leaves values that are not in encrypted form untouched.
func (e *FieldEncryptor) Decrypt(data map[string]interface{}) error {
	for _, field := range e.fields {
		value, ok := data[field].(string)
		if !ok || !IsEncrypted(value) {
			continue
		}
		plain, err := e.cipher.Decrypt(value)
		if err != nil {
			return fmt.Errorf("decrypt %s: %w", field, err)
		}
		data[field] = plain
	}
	return nil
}

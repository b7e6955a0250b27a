// Package custom registers commands through the cmd registry.
package custom

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stefanologica/firebear-importexport/cmd"
	"github.com/stefanologica/firebear-importexport/config"
	"github.com/stefanologica/firebear-importexport/core/crypto"
	"github.com/stefanologica/firebear-importexport/service/media"
)

func init() {
	cmd.Register(cryptCommand("config:encrypt", "Encrypt credential fields of a job config file", (*crypto.FieldEncryptor).Encrypt))
	cmd.Register(cryptCommand("config:decrypt", "Decrypt credential fields of a job config file", (*crypto.FieldEncryptor).Decrypt))
}

func cryptCommand(use, short string, apply func(*crypto.FieldEncryptor, map[string]interface{}) error) *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(c *cobra.Command, args []string) error {
			config.LoadAppConfig()
			enc, err := media.NewEncryptorFromConfig(config.AppConfig)
			if err != nil {
				return err
			}
			if enc == nil {
				return errors.New("crypt_key is not configured")
			}
			out, err := transformConfigFile(file, func(m map[string]interface{}) error { return apply(enc, m) })
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), string(out))
			return nil
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Job config JSON file")
	c.MarkFlagRequired("file")
	return c
}

// transformConfigFile reads a JSON object from path, applies fn and returns it re-encoded.
func transformConfigFile(path string, fn func(map[string]interface{}) error) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := fn(m); err != nil {
		return nil, err
	}
	return json.MarshalIndent(m, "", "  ")
}

package app

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

const secretLength = 32

// LoadOrGenerateSecret resolves the HS256 signing secret. An explicit
// JWT_SECRET wins; otherwise the secret file is read, being created with
// fresh random bytes on first boot so tokens survive restarts.
func LoadOrGenerateSecret(cfg Config) ([]byte, error) {
	if cfg.JWTSecret != "" {
		return []byte(cfg.JWTSecret), nil
	}

	file := filepath.Clean(cfg.JWTSecretFile)
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return nil, err
	}

	if _, err := os.Stat(file); os.IsNotExist(err) {
		raw := make([]byte, secretLength)
		if _, err := rand.Read(raw); err != nil {
			return nil, err
		}
		secret := []byte(base64.RawURLEncoding.EncodeToString(raw))

		if err := os.WriteFile(file, secret, 0600); err != nil {
			return nil, err
		}
		return secret, nil
	}

	secret, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read jwt secret file: %w", err)
	}
	return secret, nil
}

package cryptox

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// LoadOrCreatePepper reads the password pepper from path, generating and
// persisting a fresh 256-bit one when the file does not exist yet.
//
// Losing the file means every stored hash stops verifying, so it belongs on
// the same volume as the database backups.
func LoadOrCreatePepper(path string) (string, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", err
	}

	b, err := os.ReadFile(path)
	if err == nil {
		pepper := strings.TrimSpace(string(b))
		if pepper == "" {
			return "", errors.New("cryptox: pepper file is empty")
		}
		return pepper, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	pepper, err := GenerateToken(TokenSize256)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(pepper), 0600); err != nil {
		return "", err
	}
	return pepper, nil
}

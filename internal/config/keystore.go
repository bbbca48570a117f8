package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Keystore holds the signing configuration loaded from keystore.json. The
// file stays JSON so existing keystores keep working unchanged.
type Keystore struct {
	Path        string `json:"keystore_path"`
	Alias       string `json:"keystore_alias"`
	Password    string `json:"keystore_password"`
	KeyPassword string `json:"key_password"`
}

// LoadKeystore reads and validates a keystore config file. A relative
// keystore path resolves against the project root.
func LoadKeystore(path, projectRoot string) (*Keystore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("keystore config not found at %s", path)
		}
		return nil, fmt.Errorf("failed to read keystore config: %w", err)
	}

	var ks Keystore
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}

	var missing []string
	if ks.Path == "" {
		missing = append(missing, "keystore_path")
	}
	if ks.Alias == "" {
		missing = append(missing, "keystore_alias")
	}
	if ks.Password == "" {
		missing = append(missing, "keystore_password")
	}
	if ks.KeyPassword == "" {
		missing = append(missing, "key_password")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("keystore config %s is missing required fields: %s",
			path, strings.Join(missing, ", "))
	}

	if !filepath.IsAbs(ks.Path) {
		ks.Path = filepath.Join(projectRoot, ks.Path)
	}
	ks.Path = filepath.Clean(ks.Path)

	if _, err := os.Stat(ks.Path); err != nil {
		return nil, fmt.Errorf("keystore file not found: %s", ks.Path)
	}

	return &ks, nil
}

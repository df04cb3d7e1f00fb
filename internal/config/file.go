package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/titanous/json5"
)

// readConfigFile decodes name and then name.local.<ext> onto dst. Keys absent
// from a file leave dst untouched, so explicit zero values such as 0, false
// or [] do override. os.ErrNotExist is returned when neither file exists.
func readConfigFile(name string, dst any) error {
	found := false
	for _, path := range []string{name, localPath(name)} {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return err
		}
		if len(data) == 0 {
			continue
		}
		if err := json5.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		found = true
	}

	if !found {
		return os.ErrNotExist
	}
	return nil
}

func localPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

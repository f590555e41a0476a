package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ProjectConfigPath is the project config file in dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.json", appName))
}

// ProjectNeedsInitialization reports whether dir has no project config yet.
func ProjectNeedsInitialization(dir string) (bool, error) {
	for _, name := range []string{appName + ".json", "." + appName + ".json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		if err == nil {
			return false, nil
		}
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("failed to check config file: %w", err)
		}
	}
	return true, nil
}

// InitProject writes a starter project config holding cfg's grid and demo
// sections.
func InitProject(dir string, cfg *Config) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("config not loaded")
	}
	needs, err := ProjectNeedsInitialization(dir)
	if err != nil {
		return "", err
	}
	path := ProjectConfigPath(dir)
	if !needs {
		return "", fmt.Errorf("project already has a config file")
	}

	data, err := json.MarshalIndent(struct {
		Schema string     `json:"$schema"`
		Grid   GridConfig `json:"grid"`
		Demo   DemoConfig `json:"demo"`
	}{
		Schema: "https://charm.land/gridscroll.json",
		Grid:   cfg.Grid,
		Demo:   cfg.Demo,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to create config file: %w", err)
	}
	return path, nil
}

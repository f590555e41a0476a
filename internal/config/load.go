package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/qjebbs/go-jsons"
)

// Load reads the global config, the data config written by SetConfigField
// and the project configs in workingDir, later files winning.
func Load(workingDir string, debug bool) (*Config, error) {
	paths := []string{
		GlobalConfig(),
		GlobalConfigData(),
		filepath.Join(workingDir, fmt.Sprintf("%s.json", appName)),
		filepath.Join(workingDir, fmt.Sprintf(".%s.json", appName)),
	}
	cfg, err := loadFromConfigPaths(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from paths %v: %w", paths, err)
	}
	cfg.workingDir = workingDir
	cfg.dataConfigDir = GlobalConfigData()
	cfg.setDefaults(workingDir)
	if debug {
		cfg.Options.Debug = true
	}
	if _, err := cfg.GridOptions(); err != nil {
		return nil, fmt.Errorf("invalid grid config: %w", err)
	}
	return cfg, nil
}

func loadFromConfigPaths(configPaths []string) (*Config, error) {
	var configs []io.Reader
	var loaded []string

	for _, path := range configPaths {
		fd, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
		}
		defer fd.Close()

		configs = append(configs, fd)
		loaded = append(loaded, path)
	}

	cfg, err := loadFromReaders(configs)
	if err != nil {
		return nil, err
	}
	cfg.loaded = loaded
	return cfg, nil
}

func loadFromReaders(readers []io.Reader) (*Config, error) {
	if len(readers) == 0 {
		return &Config{}, nil
	}

	merged, err := jsons.Merge(readers)
	if err != nil {
		return nil, fmt.Errorf("failed to merge configuration readers: %w", err)
	}

	return LoadReader(bytes.NewReader(merged))
}

// LoadReader decodes a single config document.
func LoadReader(fd io.Reader) (*Config, error) {
	data, err := io.ReadAll(fd)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

func (c *Config) setDefaults(workingDir string) {
	if c.Options == nil {
		c.Options = &Options{}
	}
	if c.Options.DataDirectory == "" {
		c.Options.DataDirectory = filepath.Join(workingDir, defaultDataDirectory)
	}
	if c.Options.LogLevel == "" {
		c.Options.LogLevel = defaultLogLevel
	}
	if c.Grid.ColumnsTemplate == "" && c.Grid.RowsTemplate == "" && c.Grid.CellLength == 0 {
		c.Grid.ColumnsTemplate = "repeat(auto-fill, 16)"
	}
	if c.Demo.Items == 0 {
		c.Demo.Items = defaultItems
	}
	if len(c.Demo.Heights) == 0 {
		c.Demo.Heights = defaultHeights
	}
	slog.Debug("Config defaults applied", "items", c.Demo.Items, "columns", c.Grid.ColumnsTemplate)
}

// GlobalConfig returns the global configuration file path for the application.
func GlobalConfig() string {
	if p := os.Getenv("GRIDSCROLL_GLOBAL_CONFIG"); p != "" {
		return filepath.Join(p, fmt.Sprintf("%s.json", appName))
	}
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName, fmt.Sprintf("%s.json", appName))
	}

	return filepath.Join(homeDir(), ".config", appName, fmt.Sprintf("%s.json", appName))
}

// GlobalConfigData returns the path to the main data directory for the application.
// this config is used when the app overrides configurations instead of updating the global config.
func GlobalConfigData() string {
	if p := os.Getenv("GRIDSCROLL_GLOBAL_DATA"); p != "" {
		return filepath.Join(p, fmt.Sprintf("%s.json", appName))
	}
	xdgDataHome := os.Getenv("XDG_DATA_HOME")
	if xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName, fmt.Sprintf("%s.json", appName))
	}

	// return the path to the main data directory
	// for windows, it should be in `%LOCALAPPDATA%/gridscroll/`
	// for linux and macOS, it should be in `$HOME/.local/share/gridscroll/`
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName, fmt.Sprintf("%s.json", appName))
	}

	return filepath.Join(homeDir(), ".local", "share", appName, fmt.Sprintf("%s.json", appName))
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

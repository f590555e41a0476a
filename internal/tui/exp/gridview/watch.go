package gridview

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/gridscroll/internal/config"
	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 150 * time.Millisecond

// ConfigReloadedMsg carries a config read again after a file changed.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// watchedFiles are the config files a reload reads, loaded or not.
func watchedFiles(cfg *config.Config) []string {
	wd := cfg.WorkingDir()
	return []string{
		config.GlobalConfig(),
		config.GlobalConfigData(),
		config.ProjectConfigPath(wd),
		filepath.Join(wd, ".gridscroll.json"),
	}
}

// WatchConfig sends a ConfigReloadedMsg whenever one of the config files is
// written, created or removed, until ctx is done.
func WatchConfig(ctx context.Context, cfg *config.Config, send func(tea.Msg)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	files := watchedFiles(cfg)
	var dirs []string
	for _, f := range files {
		dir := filepath.Dir(f)
		if slices.Contains(dirs, dir) {
			continue
		}
		// missing directories are not watched
		if err := watcher.Add(dir); err != nil {
			slog.Debug("Config directory not watched", "dir", dir, "error", err)
			continue
		}
		dirs = append(dirs, dir)
	}
	if len(dirs) == 0 {
		return fmt.Errorf("no config directory to watch")
	}
	slog.Info("Watching config files", "dirs", dirs)

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !slices.Contains(files, event.Name) ||
				!event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("Config file changed", "file", event.Name, "op", event.Op.String())
			timer = time.After(reloadDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Config watcher error", "error", err)
		case <-timer:
			timer = nil
			next, err := config.Load(cfg.WorkingDir(), cfg.Options.Debug)
			send(ConfigReloadedMsg{Config: next, Err: err})
		}
	}
}

package knowledge

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
)

// configDescriptorFiles are the application descriptor files the config
// adapter surfaces: installed module lists and registered integration hooks.
var configDescriptorFiles = []string{
	"modules.txt",
	"hooks.yaml",
	"integrations.yaml",
}

// maxConfigFileBytes bounds descriptor files; anything larger is skipped.
const maxConfigFileBytes = 16 * 1024

// AppConfigAdapter extracts structural facts from the application
// configuration directory: module lists and integration registrations as
// descriptive text. Full mode only.
type AppConfigAdapter struct {
	appPath  string
	maxChars int
	logger   *slog.Logger
}

// NewAppConfigAdapter creates a config adapter rooted at appPath.
func NewAppConfigAdapter(appPath string, maxChars int, logger *slog.Logger) *AppConfigAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &AppConfigAdapter{appPath: appPath, maxChars: maxChars, logger: logger}
}

// Name implements Adapter.
func (*AppConfigAdapter) Name() string { return "config" }

// Collect implements Adapter. Missing descriptor files are normal and
// skipped silently; read failures are logged and skipped.
func (a *AppConfigAdapter) Collect(context.Context) ([]Fragment, error) {
	var fragments []Fragment

	for _, name := range configDescriptorFiles {
		path := filepath.Join(a.appPath, name)

		info, err := os.Stat(path)
		if err != nil || info.IsDir() || info.Size() > maxConfigFileBytes {
			continue
		}

		content, err := os.ReadFile(path) // #nosec G304 -- fixed names under configured app path
		if err != nil {
			a.logger.Debug("reading config descriptor failed", "path", path, "error", err)
			continue
		}

		body := "Configuration File: " + name + "\n\nContent:\n" + string(content)
		if f, ok := NewFragment(body, "Config: "+name, CategoryConfig, a.maxChars); ok {
			fragments = append(fragments, f)
		}
	}

	return fragments, nil
}

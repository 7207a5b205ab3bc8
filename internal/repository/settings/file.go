package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oshokin/speech-timer/internal/config"
	"github.com/oshokin/speech-timer/internal/logger"
)

// Repository defines persistence operations for timer settings.
type Repository interface {
	Load(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}

// ErrNotFound is returned when the settings file does not exist yet.
var ErrNotFound = errors.New("settings not found")

// FileRepository persists timer settings to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the JSON settings file.
	path string
	// mu protects concurrent access to the settings file.
	mu sync.Mutex
}

// NewFileRepository creates a repository reading/writing JSON at the
// provided path. An empty path selects the fixed storage key.
func NewFileRepository(path string) *FileRepository {
	if path == "" {
		path = DefaultFilename
	}

	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the settings from disk. Every field is validated
// independently; invalid fields fall back to defaults, and an
// unparseable or wrong-version blob yields full defaults rather than
// an error, so malformed values never propagate into the core.
func (r *FileRepository) Load(ctx context.Context) (*Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var stored Settings
	if err = json.Unmarshal(contents, &stored); err != nil {
		logger.WarnKV(ctx, "Settings file is corrupted, using defaults", "path", r.path, "error", err)

		return Default(), nil
	}

	result := sanitize(&stored)
	if *result != stored {
		logger.WarnKV(ctx, "Some settings fields were invalid and reset to defaults", "path", r.path)
	}

	return result, nil
}

// Save writes the settings to disk after sanitizing them.
func (r *FileRepository) Save(_ context.Context, settings *Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(sanitize(settings), "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	SettingsPathKey = "settings.path"

	settingsFileMode   = 0o600
	settingsDirMode    = 0o700
	settingsConfigDir  = ".pcg"
	settingsConfigFile = "settings.toml"
	tempFilePattern    = ".settings-*.toml.tmp"
)

// Repository persists catch settings in one TOML file.
type Repository struct {
	settingsPath string
	mu           *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SettingsRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(SettingsPathKey, filepath.Join(homeDir, settingsConfigDir, settingsConfigFile))

	settingsPath := cfg.GetString(SettingsPathKey)
	if settingsPath == "" {
		return nil, errors.New("settings path is empty")
	}
	settingsPath, err = normalizeSettingsPath(settingsPath)
	if err != nil {
		return nil, err
	}

	return &Repository{settingsPath: settingsPath, mu: lockForPath(settingsPath)}, nil
}

func (r *Repository) Path() string {
	return r.settingsPath
}

// Load returns the defaults overlaid with whatever the file sets. A missing
// file yields the defaults. The result is validated.
func (r *Repository) Load(ctx context.Context) (domain.CatchSettings, error) {
	if err := ctx.Err(); err != nil {
		return domain.CatchSettings{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.CatchSettings{}, err
	}

	settings := file.overlay(domain.DefaultCatchSettings())
	if err := settings.Validate(); err != nil {
		return domain.CatchSettings{}, fmt.Errorf("settings file %s: %w", r.settingsPath, err)
	}
	return settings, nil
}

func (r *Repository) Save(ctx context.Context, settings domain.CatchSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writeSchema(toSchema(settings))
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.settingsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read settings file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("%w: decode settings file: %w", domain.ErrInvalidSettings, err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeSettingsPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve settings path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.settingsPath), settingsDirMode); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode settings file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.settingsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp settings file: %w", err)
	}

	if err := tempFile.Chmod(settingsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp settings file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp settings file: %w", err)
	}

	if err := os.Rename(tempName, r.settingsPath); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}

	cleanup = false
	return nil
}

package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlitejournal "github.com/bnema/pcg-autocatch/internal/adapters/journal/sqlite"
	tomlrepo "github.com/bnema/pcg-autocatch/internal/adapters/repo/toml"
	chainstore "github.com/bnema/pcg-autocatch/internal/adapters/secrets/chain"
	envstore "github.com/bnema/pcg-autocatch/internal/adapters/secrets/env"
	filestore "github.com/bnema/pcg-autocatch/internal/adapters/secrets/file"
	passstore "github.com/bnema/pcg-autocatch/internal/adapters/secrets/pass"
	"github.com/bnema/pcg-autocatch/internal/application"
	"github.com/bnema/pcg-autocatch/internal/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	configDirName  = ".pcg"
	configFileName = "config"
	envPrefix      = "PCG"

	keySecretsDir     = "secrets.dir"
	keySecretsBackend = "secrets.backend"
	keyPassBinary     = "secrets.pass_binary"
	keyPassStoreDir   = "secrets.pass_store_dir"
	keyBrowserProfile = "browser.profile"
	keyBrowserBin     = "browser.bin"
	keyBrowserHead    = "browser.headless"
	keySpawnFeedURL   = "endpoints.spawn_feed"
	keyGameAPIURL     = "endpoints.game_api"
	keyChatURL        = "endpoints.chat"
	keySigningSecret  = "signing.secret"
	keyClientVersion  = "signing.client_version"
	keyControlListen  = "control.listen"
	keyAuthClientID   = "auth.client_id"
	keyBotMode        = "bot.mode"
)

var errClientIDMissing = errors.New("auth.client_id is not configured (set PCG_AUTH_CLIENT_ID)")

type app struct {
	cfg          *viper.Viper
	logger       zerolog.Logger
	secretStore  ports.SecretStore
	settingsRepo *tomlrepo.Repository
	settings     *application.SettingsService
	journalPath  string
	httpClient   *http.Client
	now          func() time.Time
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg, err := loadConfig(homeDir)
	if err != nil {
		return nil, err
	}
	logger := newLogger(os.Stderr, false)

	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire settings repository: %w", err)
	}

	secretStore, err := newSecretStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	journalPath, err := sqlitejournal.DefaultPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve journal path: %w", err)
	}

	return &app{
		cfg:          cfg,
		logger:       logger,
		secretStore:  secretStore,
		settingsRepo: repo,
		settings:     application.NewSettingsService(repo, logger),
		journalPath:  journalPath,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		now:          time.Now,
	}, nil
}

// loadConfig reads ~/.pcg/config.toml when present. PCG_* variables override
// file values, with dots in keys spelled as underscores.
func loadConfig(homeDir string) (*viper.Viper, error) {
	base := filepath.Join(homeDir, configDirName)

	cfg := viper.New()
	cfg.SetConfigName(configFileName)
	cfg.SetConfigType("toml")
	cfg.AddConfigPath(base)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(keySecretsDir, filepath.Join(base, "secrets"))
	cfg.SetDefault(keySecretsBackend, "auto")
	cfg.SetDefault(keyBrowserProfile, filepath.Join(base, "browser"))
	cfg.SetDefault(keyBrowserHead, false)
	cfg.SetDefault(keyGameAPIURL, application.DefaultGameAPIBaseURL)
	cfg.SetDefault(keyBotMode, "active")

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return cfg, nil
}

// newSecretStore builds the env -> pass -> file chain. Backend "file" skips
// pass for hosts without a password store.
func newSecretStore(cfg *viper.Viper) (*chainstore.Store, error) {
	dir := cfg.GetString(keySecretsDir)
	switch backend := strings.ToLower(cfg.GetString(keySecretsBackend)); backend {
	case "", "auto":
		return chainstore.NewDefault(dir, passstore.Config{
			Binary:   cfg.GetString(keyPassBinary),
			StoreDir: cfg.GetString(keyPassStoreDir),
		})
	case "file":
		return chainstore.NewStoreChecked(envstore.NewStore(nil), filestore.NewStore(dir))
	default:
		return nil, fmt.Errorf("unknown secrets backend %q", backend)
	}
}

func newLogger(out io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/bnema/pcg-autocatch/internal/ports"
)

var ErrUnavailable = errors.New("pass command unavailable")

const (
	defaultBinary = "pass"
	notInStore    = "is not in the password store"
	storeDirEnv   = "PASSWORD_STORE_DIR"
)

type Config struct {
	// Binary is looked up on PATH when it has no slash. Defaults to "pass".
	Binary string
	// StoreDir overrides PASSWORD_STORE_DIR for every invocation.
	StoreDir string
}

type invocation struct {
	binary string
	env    []string
	input  string
	args   []string
}

type runFunc func(ctx context.Context, call invocation) (stdout string, stderr string, err error)

// Store keeps the bot credentials in pass(1). Multi-line entries are
// allowed; only the first line is the secret.
type Store struct {
	cfg Config
	run runFunc
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(cfg Config) *Store {
	if cfg.Binary == "" {
		cfg.Binary = defaultBinary
	}
	return &Store{cfg: cfg, run: runPass}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, s.call(value+"\n", "insert", "-m", "-f", key))
	if err != nil {
		return formatError("put", key, err, stderr)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, s.call("", "show", key))
	if err != nil {
		return "", formatError("get", key, err, stderr)
	}

	value, _, _ := strings.Cut(stdout, "\n")
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("pass get %q: %w", key, domain.ErrSecretNotFound)
	}
	return value, nil
}

// Delete treats a missing entry as already removed.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, s.call("", "rm", "-f", key))
	if err != nil && !strings.Contains(stderr, notInStore) {
		return formatError("delete", key, err, stderr)
	}
	return nil
}

func (s *Store) call(input string, args ...string) invocation {
	call := invocation{binary: s.cfg.Binary, input: input, args: args}
	if s.cfg.StoreDir != "" {
		call.env = []string{storeDirEnv + "=" + s.cfg.StoreDir}
	}
	return call
}

func runPass(ctx context.Context, call invocation) (string, string, error) {
	path, err := exec.LookPath(call.binary)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate %s: %w", call.binary, err)
	}

	cmd := exec.CommandContext(ctx, path, call.args...)
	if len(call.env) > 0 {
		cmd.Env = append(os.Environ(), call.env...)
	}
	if call.input != "" {
		cmd.Stdin = strings.NewReader(call.input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(op string, key string, err error, stderr string) error {
	switch {
	case strings.Contains(stderr, notInStore):
		return fmt.Errorf("pass %s %q: %w", op, key, domain.ErrSecretNotFound)
	case stderr == "":
		return fmt.Errorf("pass %s %q: %w", op, key, err)
	default:
		return fmt.Errorf("pass %s %q: %w: %s", op, key, err, stderr)
	}
}

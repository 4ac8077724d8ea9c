package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	home := t.TempDir()
	binaryPath := buildBinary(t)
	require.NoError(t, writeSettingsFixture(home))

	stdout, stderr, err := runPCG(t, binaryPath, home, "config", "show")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "channel: fixturechannel")
	assert.Contains(t, stdout, "treat uncaptured as captured: true")

	_, stderr, err = runPCG(t, binaryPath, home,
		"auth", "set",
		"--username", "trainer",
		"--oauth", "oauth:smoke",
	)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runPCG(t, binaryPath, home, "auth", "status")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "chat: trainer")

	stdout, stderr, err = runPCG(t, binaryPath, home, "history")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "No spawns recorded.")
	assert.FileExists(t, filepath.Join(home, ".pcg", "journal.db"))
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "pcg-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/pcg")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build pcg binary: %s", string(output))
	return binaryPath
}

func runPCG(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"PCG_SECRETS_BACKEND=file",
		"TWITCH_USERNAME=",
		"TWITCH_OAUTH_TOKEN=",
		"TWITCH_POKEMON_JWT=",
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeSettingsFixture(home string) error {
	configDir := filepath.Join(home, ".pcg")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	settings := `version = 1
channel = "fixturechannel"

[catch]
treat_uncaptured_as_captured = true

[tiers]
C = ["poke_ball", "great_ball"]
`

	return os.WriteFile(filepath.Join(configDir, "settings.toml"), []byte(settings), 0o600)
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/sensetype/internal/config"
)

// isolate points every XDG directory at a temp dir so commands never touch
// the real home.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv(config.EnvPrefix+"LOG_LEVEL", "error")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand("test")
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func fieldsOf(out string, id string) []string {
	for _, line := range strings.Split(out, "\n") {
		f := strings.Fields(line)
		if len(f) > 0 && f[0] == id {
			return f
		}
	}
	return nil
}

func TestInspectPrintsUnits(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "lesson.yaml", `
title: Listening
words:
  - {word: see, start: 0, end: 0.1}
  - {word: the, start: 0.1, end: 0.2}
sections:
  - modality: listen
    text: "see the"
  - modality: type
    text: "!"
`)

	out, err := execute(t, "inspect", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Listening")
	assert.Contains(t, out, "8 units, 2 words")
	assert.Equal(t, []string{"0", "listen", `"s"`, "0", "0", "0.00-0.10"}, fieldsOf(out, "0"))
	assert.Equal(t, []string{"2", "listen", `"e"`, "-", "0", "0.00-0.10"}, fieldsOf(out, "2"))
	assert.Equal(t, []string{"4", "listen", `"t"`, "1", "1", "0.10-0.20"}, fieldsOf(out, "4"))
	assert.Equal(t, []string{"7", "type", `"!"`, "-", "-", "-"}, fieldsOf(out, "7"))
}

func TestInspectMissingFile(t *testing.T) {
	dir := isolate(t)
	_, err := execute(t, "inspect", filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReplayPrintsState(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "lesson.yaml", `
sections:
  - modality: type
    text: "Hi"
`)

	out, err := execute(t, "replay", path, "--keys", "Hx")
	require.NoError(t, err)

	assert.Contains(t, out, "complete:  true")
	assert.Contains(t, out, "progress:  2/2 (100%)")
	assert.Contains(t, out, "accuracy:  1 correct, 1 incorrect (50%)")
	assert.Equal(t, []string{"type", "2/2"}, fieldsOf(out, "type"))

	_, err = os.Stat(filepath.Join(dir, "data", "sensetype", "progress.db"))
	assert.NoError(t, err, "progress is saved under the data dir")
}

func TestReplayRequiresKeys(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "lesson.yaml", "sections:\n  - modality: type\n    text: a\n")

	_, err := execute(t, "replay", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestReplayRejectsBadKeys(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "lesson.yaml", "sections:\n  - modality: type\n    text: a\n")

	_, err := execute(t, "replay", path, "--keys", "<Space")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--keys")
}

func TestRootRejectsBadLogLevel(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "lesson.yaml", "sections:\n  - modality: type\n    text: a\n")

	_, err := execute(t, "--log-level", "loud", "inspect", path)
	assert.ErrorIs(t, err, config.ErrValidationFailed)
}

func TestRootLoadsConfigFile(t *testing.T) {
	dir := isolate(t)
	cfgPath := writeFile(t, dir, "config.toml", "[audio]\nrate = -1.0\n")
	path := writeFile(t, dir, "lesson.yaml", "sections:\n  - modality: type\n    text: a\n")

	_, err := execute(t, "--config", cfgPath, "inspect", path)
	assert.ErrorIs(t, err, config.ErrValidationFailed)
}

package cli

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eshaffer321/concilia/internal/infrastructure/config"
)

func staticPrompt(pw string, ok bool, err error) (Prompter, *int) {
	calls := 0
	return func() (string, bool, error) {
		calls++
		return pw, ok, err
	}, &calls
}

func TestResolvePassword(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(PasswordEnv, "from-env")
		prompt, calls := staticPrompt("typed", true, nil)

		pw := ResolvePassword("from-flag", &config.Config{}, prompt, nil)

		assert.Equal(t, "from-flag", pw)
		assert.Zero(t, *calls)
	})

	t.Run("config value before env", func(t *testing.T) {
		t.Setenv(PasswordEnv, "from-env")
		cfg := &config.Config{}
		cfg.Input.Password = "from-config"

		pw := ResolvePassword("", cfg, nil, nil)

		assert.Equal(t, "from-config", pw)
	})

	t.Run("env before prompt", func(t *testing.T) {
		t.Setenv(PasswordEnv, "from-env")
		prompt, calls := staticPrompt("typed", true, nil)

		pw := ResolvePassword("", &config.Config{}, prompt, nil)

		assert.Equal(t, "from-env", pw)
		assert.Zero(t, *calls)
	})

	t.Run("prompt when nothing else", func(t *testing.T) {
		t.Setenv(PasswordEnv, "")
		prompt, calls := staticPrompt("typed", true, nil)

		pw := ResolvePassword("", &config.Config{}, prompt, nil)

		assert.Equal(t, "typed", pw)
		assert.Equal(t, 1, *calls)
	})

	t.Run("no terminal means no password", func(t *testing.T) {
		t.Setenv(PasswordEnv, "")
		prompt, _ := staticPrompt("", false, nil)

		pw := ResolvePassword("", &config.Config{}, prompt, nil)

		assert.Empty(t, pw)
	})

	t.Run("prompt error falls back to no password", func(t *testing.T) {
		t.Setenv(PasswordEnv, "")
		prompt, calls := staticPrompt("partial", false, errors.New("tty closed"))
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		pw := ResolvePassword("", &config.Config{}, prompt, logger)

		assert.Empty(t, pw)
		assert.Equal(t, 1, *calls)
		assert.Contains(t, logs.String(), "level=WARN")
		assert.Contains(t, logs.String(), "tty closed")
	})
}

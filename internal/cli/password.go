package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/eshaffer321/concilia/internal/infrastructure/config"
)

// PasswordEnv is the environment variable holding the statement password
const PasswordEnv = "CONCILIA_PDF_PASSWORD"

// Prompter asks the user for a password. It returns ok=false when no
// interactive prompt is possible.
type Prompter func() (password string, ok bool, err error)

// ResolvePassword picks the statement password: the flag, then the
// configured or environment value, then an interactive prompt. An empty
// result means no password. A failed prompt is logged and treated as no
// password.
func ResolvePassword(flagValue string, cfg *config.Config, prompt Prompter, logger *slog.Logger) string {
	if flagValue != "" {
		return flagValue
	}
	if v := cfg.GetSecret(cfg.Input.Password, PasswordEnv); v != "" {
		return v
	}
	if prompt == nil {
		return ""
	}
	pw, ok, err := prompt()
	if err != nil {
		if logger != nil {
			logger.Warn("Failed to read password, continuing without one", "error", err)
		}
		return ""
	}
	if !ok {
		return ""
	}
	return pw
}

// TerminalPrompter prompts on out and reads without echo from in, but only
// when in is a terminal.
func TerminalPrompter(in *os.File, out io.Writer) Prompter {
	return func() (string, bool, error) {
		fd := int(in.Fd())
		if !term.IsTerminal(fd) {
			return "", false, nil
		}
		fmt.Fprint(out, "Statement password (empty for none): ")
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", false, err
		}
		return string(pw), true, nil
	}
}

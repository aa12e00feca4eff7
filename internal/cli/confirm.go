// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"
)

// errCancelled is returned when the user declines a confirmation.
var errCancelled = errors.New("cancelled")

// readLine prompts on stderr and reads one line from stdin. The trailing
// newline is removed.
func (a *App) readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(a.Stderr, prompt)
	}
	line, err := a.stdin().ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword reads a secret. Piped input and --password-stdin read a
// plain line; a terminal reads without echo.
func (a *App) readPassword(prompt string, fromStdin bool) (string, error) {
	if fromStdin || !a.Interactive() {
		return a.readLine("")
	}
	return a.ReadPassword(prompt)
}

// RequireConfirmation asks before a destructive action. confirmed skips the
// prompt. Without a terminal and without confirmation the action is refused,
// so scripts must pass --yes.
func (a *App) RequireConfirmation(confirmed bool, action string) error {
	if confirmed {
		return nil
	}
	if a.jsonOut || !a.Interactive() {
		return &usageError{err: fmt.Errorf("%s requires confirmation, pass --yes", action)}
	}
	if !a.PromptYesNo(action + "?") {
		return errCancelled
	}
	return nil
}

// PromptYesNo asks a yes/no question. Anything but y/yes is no.
func (a *App) PromptYesNo(question string) bool {
	answer, err := a.readLine(question + " [y/N]: ")
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

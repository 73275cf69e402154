package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/money"

	"github.com/charmbracelet/huh"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseAmount reads a signed amount argument.
func parseAmount(arg string) (money.Money, error) {
	m, err := money.Parse(strings.TrimSpace(arg))
	if err != nil {
		return money.Zero, fmt.Errorf("invalid amount %q: %w", arg, err)
	}
	return m, nil
}

// parsePositive reads an amount argument that must be above zero.
func parsePositive(arg string) (money.Money, error) {
	m, err := money.ParsePositive(strings.TrimSpace(arg))
	if err != nil {
		return money.Zero, fmt.Errorf("invalid amount %q: %w", arg, err)
	}
	return m, nil
}

// parseCount reads a whole number of at least 1.
func parseCount(arg, what string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s %q (want a whole number from 1)", what, arg)
	}
	return n, nil
}

// parsePosition turns a 1-based position argument into an index.
func parsePosition(arg string) (int, error) {
	n, err := parseCount(arg, "position")
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

// confirm asks a yes/no question unless --yes was given.
func confirm(title, description string) (bool, error) {
	if flagYes {
		return true, nil
	}
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// resetPhrase must be typed to confirm a reset.
const resetPhrase = "DELETE ALL"

// confirmPhrase asks the user to type phrase exactly.
func confirmPhrase(phrase string) (bool, error) {
	var typed string
	err := huh.NewInput().
		Title(fmt.Sprintf("Type %q to continue", phrase)).
		Description("Categories, balances and histories are replaced.").
		Value(&typed).
		Run()
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(typed) == phrase, nil
}

func formatter() cli.Formatter {
	return cli.NewFormatter(env.svc.State().Settings)
}

// done prints a one-line confirmation of a completed action.
func done(format string, args ...any) {
	fmt.Printf("  %s %s\n", cli.Header("✓"), fmt.Sprintf(format, args...))
}

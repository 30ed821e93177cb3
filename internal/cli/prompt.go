package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/finboard/cachectl/internal/admin"
	"github.com/finboard/cachectl/internal/tui"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user accepted the prompt (typed "y" or "Y")
	Accepted bool
	// Cancelled is true if reading input failed mid-prompt
	Cancelled bool
}

// ConfirmClear prompts the user to confirm clearing a cache.
// It returns immediately with Accepted=false in non-interactive (non-TTY)
// environments; scripts pass --yes instead.
//
// Parameters:
//   - writer: where to write the prompt message (typically cmd.OutOrStdout())
//   - reader: where to read user input from (typically os.Stdin)
//   - key: the cache being cleared
//   - count: the cache's current item count, or negative when unknown
//
// The prompt defaults to "No" when the user presses Enter without input.
// Valid inputs: "y", "Y", "yes", "Yes", "YES" for acceptance; anything else
// declines.
func ConfirmClear(writer io.Writer, reader io.Reader, key string, count int) PromptResult {
	// In non-TTY environments, return immediately without prompting
	if !tui.IsTTY() {
		return PromptResult{Accepted: false}
	}

	if count >= 0 {
		fmt.Fprintf(writer, "\nThis permanently removes %s items from the %s cache.\n",
			admin.FormatCount(count), key)
	} else {
		fmt.Fprintf(writer, "\nThis permanently removes every item from the %s cache.\n", key)
	}
	fmt.Fprintf(writer, "? Clear the %s cache? [y/N] ", key)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		// EOF or error - treat EOF as decline (user pressed Ctrl+D)
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		return PromptResult{Accepted: false}
	}

	input := strings.TrimSpace(scanner.Text())

	// Empty input defaults to "No" (abort)
	if input == "" {
		return PromptResult{Accepted: false}
	}

	switch strings.ToLower(input) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}

// ConfirmClearWithStdin is a convenience wrapper that uses os.Stdin as the reader.
func ConfirmClearWithStdin(writer io.Writer, key string, count int) PromptResult {
	return ConfirmClear(writer, os.Stdin, key, count)
}

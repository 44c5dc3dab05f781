// Package cli wires the reader together: workspace, cache, scoring
// provider, pacing pipeline and terminal session.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pacereader",
	Short: "PaceReader - adaptive RSVP speed reader",
	Long: `PaceReader flashes a text one word at a time at a fixed position and,
when a scoring model is available, slows down smoothly around surprising or
dense passages using token-level surprisal.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	// Load .env if present (API keys, local model endpoint).
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

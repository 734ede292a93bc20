// Package main is the weeklyai command line: candidate merging, scoring,
// demand signals, guardrail reconciliation, and view assembly.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weeklyai",
	Short: "Candidate ranking and curation pipeline",
	Long: "weeklyai merges scraped AI-product candidates into a canonical catalog,\n" +
		"scores them across editorial and community signals, and assembles ranked,\n" +
		"diversified views.",
}

func main() {
	// API keys come from the environment; a local .env is a convenience.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

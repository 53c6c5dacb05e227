// Package main provides the entry point for the resume tailoring HTTP API
// server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tailor_server",
	Short: "Resume tailoring HTTP API server",
	Long:  "Serves the resume tailoring REST API: profile storage, per-user LLM provider settings, section tailoring, cover letters, proposals and assistant chat.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

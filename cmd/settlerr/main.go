// Package main provides the entry point for the settlerr backend.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "settlerr",
	Short: "Settlerr newcomer settlement backend",
	Long:  "Settlerr helps newcomers settle in: it matches them with local community events, builds personalized settling-in checklists, and exposes everything over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

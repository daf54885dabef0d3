// Package main provides the entry point for the Trip Consensus HTTP API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trip_agent",
	Short: "Trip Consensus Preference Engine",
	Long:  "Trip Consensus aggregates group travel preference surveys into a consensus view with conflict detection, and ranks candidate activities by embedding similarity.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

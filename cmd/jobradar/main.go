// Package main provides the jobradar CLI: dispatching, worker loops, and
// status reporting for the ATS job-posting ingestion pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobradar",
	Short: "ATS job-posting ingestion pipeline",
	Long:  "jobradar fetches job boards from Greenhouse, Lever, Ashby, and SmartRecruiters, extracts structured fields with an LLM, and aggregates per-company hiring profiles.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Package main provides the navigator CLI for SCORM course manifests.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "navigator",
	Short: "SCORM course navigation tool",
	Long:  "Navigator parses imsmanifest.xml files into ordered navigation links, scans course directories, rewrites course launch pages, and serves all of it over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

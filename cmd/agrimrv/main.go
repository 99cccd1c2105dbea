// Package main provides the entry point for the AgriMRV-Lite web server and its tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:           "agrimrv",
	Short:         "AgriMRV-Lite web server",
	Long:          "AgriMRV-Lite serves the farmer monitoring demo: crop photo and voice note submission, proof history and the NABARD dashboard.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides LOG_LEVEL)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Package main provides the entry point for the Brief Studio CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/brief-studio/internal/config"
)

var (
	configPath string

	// fileConfig holds values from --config, used as defaults for flags and
	// environment variables. Empty when no config file is given.
	fileConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "brief_agent",
	Short: "Brief Studio content brief server and tools",
	Long:  "Brief Studio generates and edits content brief outlines, rewrites selected article text via LLM, and analyzes competitor page coverage. Serves a REST API and offers file-based editing commands.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if configPath == "" {
			return nil
		}
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		fileConfig = *cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

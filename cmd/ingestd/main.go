package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/manualgrid/ingestd/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ingestd",
		Short: "Ingestd daemon and CLI",
		Long:  "Ingestd chunks product manuals, extracts embedded video links and enriches them with video metadata",
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.IngestCmd())
	rootCmd.AddCommand(cli.EnrichCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agilsa/GorbyJump/internal/logger"
)

var Version = "dev"

func main() {
	logger.Init()

	rootCmd := &cobra.Command{
		Use:     "tasks-cli",
		Short:   "GorbyJump social task client",
		Version: Version,
	}

	rootCmd.AddCommand(linkCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(claimCmd())
	rootCmd.AddCommand(unlinkCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

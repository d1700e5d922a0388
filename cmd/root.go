package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "reef-features",
	Short: "Data-cleaning and validation-sampling tools for the NW Australia reef-features dataset",
	Long:  "Cleans reef-boundary layers between manual editing stages and generates stratified random validation samples for independent review.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/lightrig/internal/config"
	"github.com/Faultbox/lightrig/internal/logger"
)

// cfg is loaded before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lightrig",
	Short: "Light positioning for 3D scenes",
	Long: `lightrig places and aims scene lights: studio templates with obstruction
repair, recorded or live pointer sessions, and numeric orbit entry.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if err := logger.Init(c.Logging); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags())
}

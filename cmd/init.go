package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/qrchat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a widget configuration with an interactive wizard",
	Long:  `Asks for the WhatsApp number, submission mode and appearance, and writes the answers to the config file (.qrchat.yml by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(cfgFile); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
		}
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (instance %s, %s mode)\n", cfgFile, cfg.InstanceID, cfg.SubmissionMode)
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/qrchat/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file and print the effective configuration",
	Long: `Reports every value in the config file (and QRCHAT_* environment
overrides) that the widget would silently replace with its default, then
prints the resolved configuration as YAML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateFile(cfgFile); err != nil {
			return fmt.Errorf("invalid configuration:\n%w", err)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out, err := yamlv3.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		if verbose {
			fmt.Fprintf(os.Stderr, "%s is valid\n", cfgFile)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

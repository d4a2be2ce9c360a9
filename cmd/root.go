package cmd

import "github.com/spf13/cobra"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "qrchat",
	Short: "Floating WhatsApp contact widget with QR code and message form",
	Long: `qrchat puts a floating contact button on a web page. The button opens a
panel with a QR code for your WhatsApp number and a short form that either
opens a WhatsApp chat or posts the message to an endpoint you run.

Use it to write the widget configuration, inject the loader into existing
pages, and run a local demo server with a contact inbox.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".qrchat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

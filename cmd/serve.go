package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/qrchat/internal/db"
	"github.com/ziadkadry99/qrchat/internal/inbox"
	"github.com/ziadkadry99/qrchat/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the demo server",
	Long: `Serves a demo page hosting the widget, a server-side preview at /preview
and the WebAssembly bundle from --assets. With --inbox the server also
accepts remote-mode submissions at /api/contact and stores them in SQLite.
With --watch, saving the config file reloads every open demo page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		port, _ := cmd.Flags().GetInt("port")
		assets, _ := cmd.Flags().GetString("assets")
		dbPath, _ := cmd.Flags().GetString("inbox")
		watch, _ := cmd.Flags().GetBool("watch")
		allowAll, _ := cmd.Flags().GetBool("allow-all-origins")
		forward, _ := cmd.Flags().GetStringSlice("forward")
		token, _ := cmd.Flags().GetString("inbox-token")
		if token == "" {
			token = os.Getenv("QRCHAT_INBOX_TOKEN")
		}

		var store *inbox.Store
		if dbPath == "" && len(forward) > 0 {
			return errors.New("--forward requires --inbox")
		}
		if dbPath != "" {
			database, err := db.Open(dbPath)
			if err != nil {
				return fmt.Errorf("opening inbox: %w", err)
			}
			defer database.Close()
			store = inbox.NewStore(database)
		}

		srv := server.New(server.Config{
			Port:       port,
			AssetsDir:  assets,
			AllowAll:   allowAll,
			Reload:     watch,
			Forward:    forward,
			InboxToken: token,
		}, cfg, store, logger)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watch {
			go func() {
				if err := srv.Watch(ctx, cfgFile); err != nil {
					logger.Error("config watch stopped", "err", err)
				}
			}()
		}

		logger.Info("qrchat demo", "version", Version, "url", fmt.Sprintf("http://localhost:%d/", port),
			"mode", cfg.SubmissionMode, "inbox", dbPath != "")
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().Int("port", 8080, "port to listen on")
	serveCmd.Flags().String("assets", "", "directory holding qrchat.wasm and wasm_exec.js")
	serveCmd.Flags().String("inbox", "", "SQLite file for the contact inbox (empty disables it)")
	serveCmd.Flags().Bool("watch", false, "reload pages when the config file changes")
	serveCmd.Flags().String("inbox-token", "", "bearer token for reading the inbox over HTTP (default $QRCHAT_INBOX_TOKEN; empty disables it)")
	serveCmd.Flags().StringSlice("forward", nil, "webhook URLs to forward inbox submissions to")
	serveCmd.Flags().Bool("allow-all-origins", false, "accept cross-origin requests from any site")
	rootCmd.AddCommand(serveCmd)
}

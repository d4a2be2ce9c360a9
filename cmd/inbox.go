package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/qrchat/internal/db"
	"github.com/ziadkadry99/qrchat/internal/inbox"
)

var inboxPath string

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Inspect messages received by the demo server",
}

var inboxListCmd = &cobra.Command{
	Use:   "list",
	Short: "List received messages, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		instance, _ := cmd.Flags().GetString("instance")
		limit, _ := cmd.Flags().GetInt("limit")

		database, err := db.Open(inboxPath)
		if err != nil {
			return fmt.Errorf("opening inbox: %w", err)
		}
		defer database.Close()
		store := inbox.NewStore(database)

		ctx := context.Background()
		subs, err := store.List(ctx, inbox.ListFilter{InstanceID: instance, Limit: limit})
		if err != nil {
			return err
		}
		total, err := store.Count(ctx, instance)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(subs) == 0 {
			fmt.Fprintln(out, "No messages.")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RECEIVED\tINSTANCE\tNAME\tEMAIL\tMESSAGE")
		for _, s := range subs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				s.CreatedAt.Local().Format(time.DateTime), s.InstanceID, s.Name, s.Email, preview(s.Message, 50))
		}
		tw.Flush()
		fmt.Fprintf(out, "\n%d of %d messages\n", len(subs), total)
		return nil
	},
}

// preview flattens msg onto one line and cuts it to n runes.
func preview(msg string, n int) string {
	msg = strings.Join(strings.Fields(msg), " ")
	r := []rune(msg)
	if len(r) <= n {
		return msg
	}
	return string(r[:n-1]) + "…"
}

func init() {
	inboxCmd.PersistentFlags().StringVar(&inboxPath, "db", "qrchat.db", "inbox SQLite file")
	inboxListCmd.Flags().String("instance", "", "only show messages for this widget instance")
	inboxListCmd.Flags().Int("limit", 20, "maximum messages to show")
	inboxCmd.AddCommand(inboxListCmd)
	rootCmd.AddCommand(inboxCmd)
}

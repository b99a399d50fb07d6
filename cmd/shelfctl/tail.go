package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matst80/slask-shelf/pkg/tracking"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var rabbitUrl string

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print tracking events as they are published",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if rabbitUrl == "" {
			return errors.New("no rabbit url, set --rabbit or RABBIT_URL")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		out := cmd.OutOrStdout()
		return tracking.Tail(ctx, rabbitUrl, func(ev tracking.Received) {
			switch ev.Event {
			case tracking.SessionEvent:
				fmt.Fprintf(out, "%s session  %s\n", ev.SessionId, ev.UserAgent)
			case tracking.CommandEvent:
				fmt.Fprintf(out, "%s v%-4d %s %s %d\n", ev.SessionId, ev.Version, ev.Type, ev.Item, ev.Quantity)
			}
		})
	},
}

func init() {
	tailCmd.Flags().StringVar(&rabbitUrl, "rabbit", os.Getenv("RABBIT_URL"), "amqp url")
}

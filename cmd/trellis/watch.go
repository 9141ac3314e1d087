package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/trellisplan/trellis/internal/events"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Tail graph events from NATS",
	Long: `Subscribe to the server's event stream and print each event as it
arrives. Requires a NATS URL via --nats, TRELLIS_NATS_URL, or the active
remote profile.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats")
		topic, _ := cmd.Flags().GetString("topic")

		if natsURL == "" {
			natsURL = os.Getenv("TRELLIS_NATS_URL")
		}
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL == "" {
			return fmt.Errorf("no NATS URL configured (set --nats or TRELLIS_NATS_URL)")
		}

		sub, err := events.NewNATSSubscriber(natsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return err
		}
		defer cancel()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Fprintf(os.Stderr, "watching %s on %s\n", topic, natsURL)
		for {
			select {
			case <-ctx.Done():
				return nil
			case data, ok := <-ch:
				if !ok {
					return nil
				}
				printEvent(data)
			}
		}
	},
}

// printEvent renders one raw event payload: compact JSON with a timestamp
// prefix, or indented JSON in --json mode.
func printEvent(data []byte) {
	if jsonOutput {
		var v any
		if err := json.Unmarshal(data, &v); err == nil {
			printJSON(v)
			return
		}
	}
	fmt.Printf("%s %s\n", time.Now().Format("15:04:05"), string(data))
}

func init() {
	watchCmd.Flags().String("nats", "", "NATS server URL")
	watchCmd.Flags().String("topic", "trellis.>", "subject to subscribe to")
}

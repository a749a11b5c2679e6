package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"eduforge-api/internal/infrastructure/messaging"
	"eduforge-api/internal/wire"
)

func init() {
	eventsTailCmd.Flags().String("consumer", "", "consumer name inside the group (defaults to hostname)")
	eventsCmd.AddCommand(eventsTailCmd)
	rootCmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:               "events",
	Short:             "Inspect the pipeline event stream",
	PersistentPreRunE: loadConfig,
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow stream:pipeline:events until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("consumer")
		if name == "" {
			name, _ = os.Hostname()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client, cleanup, err := wire.InitializeRedisOnly(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer cleanup()

		consumer := messaging.NewConsumer(client.Redis(), messaging.ConsumerConfig{
			Stream:       messaging.StreamPipelineEvents,
			Group:        messaging.ConsumerGroupPipelineTail,
			ConsumerName: name,
		})
		consumer.RegisterFallback(printEvent(cmd))
		return consumer.Run(ctx)
	},
}

func printEvent(cmd *cobra.Command) messaging.MessageHandler {
	return func(_ context.Context, msg *messaging.Message) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\ttenant=%s\tproject=%s\t%s\n",
			msg.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), msg.Type, msg.TenantID, msg.ProjectID, string(msg.Payload))
		return err
	}
}

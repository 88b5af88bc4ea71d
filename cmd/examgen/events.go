package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/SAP-F-2025/exam-generation-service/internal/config"
	"github.com/SAP-F-2025/exam-generation-service/internal/events"
	"github.com/SAP-F-2025/exam-generation-service/internal/utils"
	"github.com/spf13/cobra"
)

var eventsGroup string

func init() {
	eventsCmd.Flags().StringVar(&eventsGroup, "group", "examgen-tail", "Kafka consumer group")
	rootCmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print exam and user events as they are published",
	Long: `Subscribe to the events topic (EXAM_EVENTS_TOPIC on KAFKA_BROKERS) and print
every exam.generated, exam.failed and user.registered event as one JSON line.`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := utils.ToSlogLogger(utils.NewLogger(cfg.Environment))

	subscriber, err := events.NewKafkaSubscriber(events.SubscriberConfig{
		KafkaBrokers:  cfg.Events.GetKafkaBrokers(),
		ConsumerGroup: eventsGroup,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer subscriber.Close()

	out := cmd.OutOrStdout()
	return events.Consume(ctx, subscriber, cfg.Events.ExamTopic, logger, func(_ context.Context, event *events.Event) error {
		line, err := json.Marshal(event)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(line))
		return err
	})
}

/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/nordicmaskin/kma/config"
	"github.com/nordicmaskin/kma/internal/mq"
	"github.com/nordicmaskin/kma/internal/server"
	"github.com/nordicmaskin/kma/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Follow completed inspection events",
	Long: `Subscribes to the configured broker channel and logs every completed
inspection until interrupted. Requires MQ_BACKEND.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		events, err := server.OpenMQ(ctx, cfg)
		if err != nil {
			return err
		}
		if events == nil {
			return errors.New("MQ_BACKEND is not configured")
		}
		defer events.Close()

		logger.Info("following events", zap.String("channel", events.Channel()))
		err = events.Subscribe(ctx, logEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func logEvent(ctx context.Context, msg mq.Message) error {
	if msg.EventType() != mq.EventInspectionCompleted {
		logger.Debug("ignoring event", zap.String("id", msg.ID), zap.String("type", msg.EventType()))
		return nil
	}

	var rec types.InspectionRecord
	if err := json.Unmarshal(msg.Data, &rec); err != nil {
		// Malformed payloads would be redelivered forever.
		logger.Warn("dropping malformed event", zap.String("id", msg.ID), zap.Error(err))
		return nil
	}
	logger.Info("inspection completed",
		zap.String("id", msg.ID),
		zap.String("timestamp", rec.Timestamp),
		zap.String("user", rec.User),
		zap.String("action", rec.Action),
		zap.String("serial", rec.Serial),
		zap.String("next_date", rec.NextDate),
		zap.String("pdf_path", rec.PdfPath),
	)
	return nil
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

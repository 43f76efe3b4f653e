/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/recruitdesk/apiserver/config"
	"github.com/recruitdesk/apiserver/internal/activity"
	"github.com/recruitdesk/apiserver/internal/db"
	"github.com/recruitdesk/apiserver/internal/logger"
	"github.com/recruitdesk/apiserver/internal/mq"
	"github.com/recruitdesk/apiserver/internal/store"
	"github.com/spf13/cobra"
)

// activityConsumerCmd drains the activity channel into the database.
var activityConsumerCmd = &cobra.Command{
	Use:   "activity-consumer",
	Short: "Persist activity events published by the API server",
	Long: `Consumes activity events from the configured broker (MQ_BACKEND) and
writes them to the activity log table. Only needed when the server publishes
activity through a broker instead of writing it directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		broker, err := mq.NewFromConfig(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("MQ_BACKEND is not set; the server writes activity directly")
		}
		defer broker.Close()

		dbConn, err := db.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		log.Info("consuming activity events",
			slog.String("backend", cfg.MQ.Backend),
			slog.String("channel", cfg.MQ.ActivityChannel),
		)
		sink := activity.NewStoreSink(store.NewActivityRepository(dbConn))
		return activity.Consume(ctx, broker, cfg.MQ.ActivityChannel, sink)
	},
}

func init() {
	rootCmd.AddCommand(activityConsumerCmd)
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stefanologica/firebear-importexport/core/log"
	"github.com/stefanologica/firebear-importexport/queue"
)

var consumeConcurrency int

var imagesConsumeCmd = &cobra.Command{
	Use:   "images:consume",
	Short: "Process queued image batches until interrupted",
	RunE: func(c *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		concurrency := a.Config.Queue.Concurrency
		if consumeConcurrency > 0 {
			concurrency = consumeConcurrency
		}
		log.Infof("Consuming %s queue %s", a.Config.Queue.Driver, a.Config.Queue.Name)
		return queue.NewWorker(a.Queue, a.Processor, a.Jobs, concurrency).Run(ctx)
	},
}

func init() {
	imagesConsumeCmd.Flags().IntVarP(&consumeConcurrency, "concurrency", "c", 0, "Batches processed in parallel (default from config)")
	rootCmd.AddCommand(imagesConsumeCmd)
}

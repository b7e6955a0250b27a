package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stefanologica/firebear-importexport/core/log"
	"github.com/stefanologica/firebear-importexport/cron"
)

var jobName string

var cronStartCmd = &cobra.Command{
	Use:   "cron:start",
	Short: "Start the cron scheduler or run a single job by name",
	RunE: func(c *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if jobName != "" {
			j, ok := cron.Lookup(jobName)
			if !ok {
				return fmt.Errorf("unknown job: %s", jobName)
			}
			fmt.Fprintf(c.OutOrStdout(), "Running cron job: %s\n", j.Name)
			return j.Run(ctx, args...)
		}

		fmt.Fprintln(c.OutOrStdout(), "Starting cron scheduler...")
		s, err := cron.StartCron(ctx)
		if err != nil {
			return err
		}
		defer s.Stop()
		fmt.Fprintln(c.OutOrStdout(), "Cron scheduler started. Press Ctrl+C to exit.")
		<-ctx.Done()
		return nil
	},
}

// drainImageQueue processes waiting image batches, up to queue.drain_limit per run.
func drainImageQueue(ctx context.Context, args ...string) error {
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	n, err := a.Worker().Drain(ctx, a.Config.Queue.DrainLimit)
	if n > 0 {
		log.Infof("images_queue_drain: processed %d batches", n)
	}
	return err
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit")
	rootCmd.AddCommand(cronStartCmd)
	cron.Register("images_queue_drain", "@every 1m", drainImageQueue)
}

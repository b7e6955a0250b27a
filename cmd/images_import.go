package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stefanologica/firebear-importexport/queue"
	"github.com/stefanologica/firebear-importexport/service/media"
)

var (
	imagesFile  string
	imagesAsync bool
)

var imagesImportCmd = &cobra.Command{
	Use:   "images:import",
	Short: "Import product images from a batch message file",
	RunE: func(c *cobra.Command, args []string) error {
		data, err := os.ReadFile(imagesFile)
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}
		msg, err := media.DecodeMessage(data)
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if imagesAsync {
			job, err := queue.Enqueue(ctx, a.Queue, a.Jobs, a.Processor.Encryptor(), msg)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Queued job %s (%d rows)\n", job.JobID, job.Rows)
			return nil
		}

		errs := media.NewErrorAggregator()
		res, err := a.Processor.WithErrors(errs).Process(ctx, msg)
		if err != nil {
			printErrors(c, errs)
			return err
		}
		levels := errs.CountByLevel()
		fmt.Fprintf(c.OutOrStdout(), `
=== Image Import Report ===
Rows:            %d
Uploaded:        %d
Gallery entries: %d
Config values:   %d
Warnings:        %d
Errors:          %d
Total time:      %s
===========================
`, len(res.Rows), res.Uploaded, res.GalleryEntries, res.ConfigValues,
			levels[media.LevelWarning], levels[media.LevelCritical]+levels[media.LevelNotCritical],
			res.Duration.Round(time.Millisecond))
		printErrors(c, errs)

		if errs.HasCritical() {
			return fmt.Errorf("import finished with critical errors")
		}
		return nil
	},
}

func printErrors(c *cobra.Command, errs *media.ErrorAggregator) {
	for _, e := range errs.Errors() {
		row := "-"
		if e.RowNumber != nil {
			row = fmt.Sprint(*e.RowNumber)
		}
		fmt.Fprintf(c.OutOrStdout(), "  [%s] row %s %s: %s %s\n", e.Level, row, e.Column, e.Message, e.Description)
	}
}

func init() {
	imagesImportCmd.Flags().StringVarP(&imagesFile, "file", "f", "", "Batch message JSON file")
	imagesImportCmd.Flags().BoolVar(&imagesAsync, "async", false, "Queue the batch instead of processing it now")
	imagesImportCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(imagesImportCmd)
}

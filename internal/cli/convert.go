package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rescale/sheetconv/internal/models"
	"github.com/rescale/sheetconv/internal/sink"
	"github.com/rescale/sheetconv/internal/workflow"
)

func newConvertCmd() *cobra.Command {
	var (
		outputDir      string
		dest           string
		interval       time.Duration
		requestTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Upload a spreadsheet and download the converted result",
		Long: `Upload a spreadsheet to the conversion service, poll its progress and
download the result once the conversion completes.

Accepted files: .xlsx, .xls, .csv, .numbers

Examples:
  sheetconv convert report.xlsx
  sheetconv convert data.csv -o ./converted
  sheetconv convert book.numbers --dest s3://my-bucket/converted
  sheetconv convert book.xlsx --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetContext()
			log := GetLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output-dir") {
				cfg.OutputDir = outputDir
			}
			if cmd.Flags().Changed("interval") {
				cfg.PollInterval = interval
			}
			if cmd.Flags().Changed("request-timeout") {
				cfg.RequestTimeout = requestTimeout
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			client, err := getAPIClient(cfg)
			if err != nil {
				return err
			}

			reporter, barOut, flush := newReporter(cmd)
			defer flush()

			saver := sink.NewFileSaver(client, cfg.OutputDir, barOut, log)
			if dest != "" {
				remote, err := sink.NewRemoteSink(ctx, cfg, dest, log)
				if err != nil {
					return err
				}
				saver.WithRemote(remote)
			}

			trigger := workflow.NewDownloadTrigger(client.BaseURL(), saver, reporter, log)
			poller := workflow.NewPoller(client, trigger, reporter,
				workflow.WithInterval(cfg.PollInterval),
				workflow.WithRequestTimeout(cfg.RequestTimeout),
				workflow.WithLogger(log),
			)
			wf := workflow.New(client, poller, reporter, log)

			path := args[0]
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer file.Close()

			var size int64
			if info, err := file.Stat(); err == nil {
				if info.IsDir() {
					return fmt.Errorf("%s is a directory", path)
				}
				size = info.Size()
			}

			result, err := wf.Submit(ctx, models.FileSubmission{
				Name:    filepath.Base(path),
				Payload: file,
				Size:    size,
			})
			if err != nil {
				return err
			}

			if !jsonOutput {
				out := cmd.OutOrStdout()
				for _, saved := range saver.Saved() {
					fmt.Fprintf(out, "Saved: %s\n", saved.LocalPath)
					if saved.RemoteURI != "" {
						fmt.Fprintf(out, "Copied: %s\n", saved.RemoteURI)
					}
				}
			}
			log.Debug().Str("run_id", result.RunID).Str("task_id", result.TaskID).Msg("Conversion finished")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for converted files (default from config, else current directory)")
	cmd.Flags().StringVar(&dest, "dest", "", "Also copy the result to s3://bucket/prefix or azblob://container/prefix")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Status polling interval (default 2s)")
	cmd.Flags().DurationVar(&requestTimeout, "request-timeout", 0, "Timeout for each status query (0 = none)")

	return cmd
}

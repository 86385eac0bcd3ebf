package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status TASK_ID",
		Short: "Show the progress of a conversion task",
		Long: `Query the conversion service once for the state of a task.

Examples:
  sheetconv status 3f2a9c1e-...
  sheetconv status 3f2a9c1e-... --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := getAPIClient(cfg)
			if err != nil {
				return err
			}

			resp, err := client.Progress(GetContext(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				return enc.Encode(resp)
			}

			fmt.Fprintf(out, "Task:     %s\n", args[0])
			fmt.Fprintf(out, "Status:   %s\n", resp.Status)
			fmt.Fprintf(out, "Message:  %s\n", resp.Message)
			fmt.Fprintf(out, "Progress: %d%% (%d/%d)\n", resp.Progress, resp.Completed, resp.Total)
			if resp.DownloadURL != "" {
				fmt.Fprintf(out, "Download: %s\n", client.ResolveURL(resp.DownloadURL))
			}
			return nil
		},
	}

	return cmd
}

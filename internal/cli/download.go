package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rescale/sheetconv/internal/sink"
)

func newDownloadCmd() *cobra.Command {
	var (
		outputDir string
		dest      string
	)

	cmd := &cobra.Command{
		Use:   "download DOWNLOAD_URL",
		Short: "Download a finished conversion result",
		Long: `Fetch a converted file directly, for example after an interrupted
convert. DOWNLOAD_URL is the download_url reported by 'sheetconv status'
and may be relative to the base URL.

Examples:
  sheetconv download /download/3f2a9c1e-...
  sheetconv download /download/3f2a9c1e-... -o ./converted`,
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

			client, err := getAPIClient(cfg)
			if err != nil {
				return err
			}

			barOut := cmd.ErrOrStderr()
			if jsonOutput {
				barOut = nil
			}
			saver := sink.NewFileSaver(client, cfg.OutputDir, barOut, log)
			if dest != "" {
				remote, err := sink.NewRemoteSink(ctx, cfg, dest, log)
				if err != nil {
					return err
				}
				saver.WithRemote(remote)
			}

			if err := saver.Save(ctx, client.ResolveURL(args[0])); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, saved := range saver.Saved() {
				if jsonOutput {
					if err := json.NewEncoder(out).Encode(saved); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(out, "Saved: %s\n", saved.LocalPath)
				if saved.RemoteURI != "" {
					fmt.Fprintf(out, "Copied: %s\n", saved.RemoteURI)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the downloaded file")
	cmd.Flags().StringVar(&dest, "dest", "", "Also copy the result to s3://bucket/prefix or azblob://container/prefix")

	return cmd
}

package sink

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/rescale/sheetconv/internal/config"
)

// AzureSink puts results into an Azure Blob Storage container using an
// account SAS URL.
type AzureSink struct {
	client *azblob.Client
	dest   *Destination
}

// NewAzureSink builds a blob client from cfg.AzureSASURL.
func NewAzureSink(cfg *config.Config, httpClient *nethttp.Client, dest *Destination) (*AzureSink, error) {
	if cfg.AzureSASURL == "" {
		return nil, errors.New("azblob destination requires [azure] sas_url or SHEETCONV_AZURE_SAS_URL")
	}

	client, err := azblob.NewClientWithNoCredential(cfg.AzureSASURL, &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Transport: httpClient,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure client: %w", err)
	}

	return &AzureSink{client: client, dest: dest}, nil
}

// Put uploads localPath as a block blob.
func (s *AzureSink) Put(ctx context.Context, localPath, name string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	if _, err := s.client.UploadFile(ctx, s.dest.Container, s.dest.Key(name), file, nil); err != nil {
		return "", fmt.Errorf("failed to upload to %s: %w", s.dest.URI(name), err)
	}

	return s.dest.URI(name), nil
}

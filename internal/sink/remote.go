package sink

import (
	"context"
	"fmt"

	"github.com/rescale/sheetconv/internal/config"
	"github.com/rescale/sheetconv/internal/http"
	"github.com/rescale/sheetconv/internal/logging"
)

// NewRemoteSink returns the sink for a --dest value, sharing the proxy
// settings used for backend traffic.
func NewRemoteSink(ctx context.Context, cfg *config.Config, raw string, logger *logging.Logger) (RemoteSink, error) {
	dest, err := ParseDestination(raw)
	if err != nil {
		return nil, err
	}

	httpClient, err := http.CreateTransferClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	switch dest.Scheme {
	case SchemeS3:
		return NewS3Sink(ctx, cfg, httpClient, dest)
	case SchemeAzure:
		return NewAzureSink(cfg, httpClient, dest)
	default:
		return nil, fmt.Errorf("unsupported destination scheme %q", dest.Scheme)
	}
}

package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rescale/sheetconv/internal/api"
	"github.com/rescale/sheetconv/internal/diskspace"
	"github.com/rescale/sheetconv/internal/logging"
	"github.com/rescale/sheetconv/internal/models"
	"github.com/rescale/sheetconv/internal/progress"
	"github.com/rescale/sheetconv/internal/util/paths"
	"github.com/rescale/sheetconv/internal/util/sanitize"
	"github.com/rescale/sheetconv/internal/validation"
)

// DefaultFilename is used when the server suggests no usable name.
const DefaultFilename = "converted.zip"

// Opener starts a result download.
type Opener interface {
	Open(ctx context.Context, url string) (*api.Download, error)
}

// FileSaver writes results into a local directory. Existing files are never
// overwritten; a numeric suffix is added instead.
type FileSaver struct {
	opener      Opener
	dir         string
	progressOut io.Writer
	remote      RemoteSink
	logger      *logging.Logger

	mu    sync.Mutex
	saved []models.SavedFile
}

// NewFileSaver creates a saver writing into dir. progressOut receives the
// byte progress bar when it is a terminal; nil disables it.
func NewFileSaver(opener Opener, dir string, progressOut io.Writer, logger *logging.Logger) *FileSaver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if progressOut == nil {
		progressOut = io.Discard
	}
	return &FileSaver{
		opener:      opener,
		dir:         dir,
		progressOut: progressOut,
		logger:      logger,
	}
}

// WithRemote copies every saved file to remote as well.
func (s *FileSaver) WithRemote(remote RemoteSink) *FileSaver {
	s.remote = remote
	return s
}

// Save downloads url into the output directory.
func (s *FileSaver) Save(ctx context.Context, url string) error {
	dl, err := s.opener.Open(ctx, url)
	if err != nil {
		return err
	}
	defer dl.Body.Close()

	dir, err := paths.ResolveAbsolutePath(s.dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := diskspace.CheckAvailableSpace(dir, dl.Size); err != nil {
		return err
	}

	name := sanitize.Filename(dl.Filename)
	if err := validation.ValidateFilename(name); err != nil {
		s.logger.Warn().Str("suggested", dl.Filename).Err(err).Msg("Ignoring unsafe filename from server")
		name = DefaultFilename
	}

	localPath := paths.UniquePath(filepath.Join(dir, name))
	if err := validation.ValidatePathInDirectory(localPath, dir); err != nil {
		return err
	}

	file, err := os.OpenFile(localPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}

	bar := progress.NewDownloadBar(s.progressOut, filepath.Base(localPath), dl.Size)
	written, copyErr := io.Copy(file, bar.ProxyReader(dl.Body))
	closeErr := file.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	summary := bar.Complete(written, copyErr)

	if copyErr != nil {
		os.Remove(localPath)
		return &api.TransportError{Op: api.OpDownload, Err: copyErr}
	}

	saved := models.SavedFile{URL: dl.URL, LocalPath: localPath, Size: written}
	s.logger.Info().Str("path", localPath).Int64("bytes", written).Msg("Saved " + summary)

	if s.remote != nil {
		uri, err := s.remote.Put(ctx, localPath, filepath.Base(localPath))
		if err != nil {
			return fmt.Errorf("saved %s but remote copy failed: %w", localPath, err)
		}
		saved.RemoteURI = uri
		s.logger.Info().Str("uri", uri).Msg("Copied to object storage")
	}

	s.mu.Lock()
	s.saved = append(s.saved, saved)
	s.mu.Unlock()
	return nil
}

// Saved returns every file written so far.
func (s *FileSaver) Saved() []models.SavedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SavedFile(nil), s.saved...)
}

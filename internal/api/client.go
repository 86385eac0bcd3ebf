package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	nethttp "net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/rescale/sheetconv/internal/config"
	"github.com/rescale/sheetconv/internal/constants"
	"github.com/rescale/sheetconv/internal/http"
	"github.com/rescale/sheetconv/internal/logging"
	"github.com/rescale/sheetconv/internal/models"
	"github.com/rescale/sheetconv/internal/version"
)

// retryLogger implements the retryablehttp.LeveledLogger interface
type retryLogger struct {
	logger *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

// Client talks to the conversion backend.
type Client struct {
	httpClient     *nethttp.Client
	transferClient *nethttp.Client
	baseURL        string
	logger         *logging.Logger
}

// Download is an open result stream. The caller must close Body.
type Download struct {
	Body     io.ReadCloser
	Size     int64 // -1 when unknown
	Filename string
	URL      string
}

// errorBody is the {"error": "..."} shape the backend uses for failures.
type errorBody struct {
	Error string `json:"error"`
}

// NewClient creates a new API client
func NewClient(cfg *config.Config, logger *logging.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("backend base URL is empty - set [server] base_url or --base-url")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	httpClient, err := http.ConfigureHTTPClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}
	transferClient, err := http.CreateTransferClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure transfer client: %w", err)
	}

	return &Client{
		httpClient:     wrapNoRetry(httpClient, logger),
		transferClient: wrapNoRetry(transferClient, logger),
		baseURL:        cfg.NormalizedBaseURL(),
		logger:         logger,
	}, nil
}

// wrapNoRetry puts a retryablehttp client with retries disabled in front of
// base. Non-2xx responses are passed through untouched so their JSON error
// bodies can be decoded.
func wrapNoRetry(base *nethttp.Client, logger *logging.Logger) *nethttp.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = base
	retryClient.RetryMax = 0
	// The default policy reports 5xx as an error, which would hide the body.
	retryClient.CheckRetry = func(ctx context.Context, _ *nethttp.Response, _ error) (bool, error) {
		return false, ctx.Err()
	}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = &retryLogger{logger: logger}
	return retryClient.StandardClient()
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveURL joins a backend-relative path (such as a download_url) onto the
// base URL. Absolute http(s) URLs are returned unchanged.
func (c *Client) ResolveURL(p string) string {
	if u, err := url.Parse(p); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return p
	}
	return c.baseURL + "/" + strings.TrimLeft(p, "/")
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*nethttp.Request, error) {
	req, err := nethttp.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "sheetconv/"+version.Version)
	return req, nil
}

// Upload sends the file as multipart field "file" to POST /upload and
// returns the task id issued by the backend.
func (c *Client) Upload(ctx context.Context, sub models.FileSubmission) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(constants.UploadFieldName, sub.Name)
	if err != nil {
		return "", &TransportError{Op: OpUpload, Err: err}
	}
	if _, err := io.Copy(part, sub.Payload); err != nil {
		return "", &TransportError{Op: OpUpload, Err: fmt.Errorf("failed to read %s: %w", sub.Name, err)}
	}
	if err := writer.Close(); err != nil {
		return "", &TransportError{Op: OpUpload, Err: err}
	}

	req, err := c.newRequest(ctx, nethttp.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", &TransportError{Op: OpUpload, Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("file", sub.Name).Int("bytes", buf.Len()).Msg("POST /upload")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Op: OpUpload, Err: err}
	}
	defer resp.Body.Close()

	// The backend answers 400/500 with a JSON body too, so decode regardless
	// of status code.
	var out models.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &TransportError{Op: OpUpload, Err: fmt.Errorf("status %d: failed to decode response: %w", resp.StatusCode, err)}
	}

	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = fmt.Sprintf("upload rejected with status %d", resp.StatusCode)
		}
		return "", &ServerError{Op: OpUpload, StatusCode: resp.StatusCode, Message: msg}
	}
	if out.TaskID == "" {
		return "", &TransportError{Op: OpUpload, Err: errors.New("response is missing task_id")}
	}

	return out.TaskID, nil
}

// Progress performs one GET /progress/{taskID}.
func (c *Client) Progress(ctx context.Context, taskID string) (*models.ProgressResponse, error) {
	req, err := c.newRequest(ctx, nethttp.MethodGet, c.baseURL+"/progress/"+url.PathEscape(taskID), nil)
	if err != nil {
		return nil, &TransportError{Op: OpProgress, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: OpProgress, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: OpProgress, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromBody(OpProgress, resp.StatusCode, body)
	}

	var out models.ProgressResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &TransportError{Op: OpProgress, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if !out.Status.Valid() {
		return nil, &TransportError{Op: OpProgress, Err: fmt.Errorf("unexpected task status %q", out.Status)}
	}

	return &out, nil
}

// Ping checks that the backend answers status queries. A "not found" reply
// for a made-up task id counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Progress(ctx, "ping-"+uuid.NewString())
	if err == nil || IsServerError(err, OpProgress) {
		return nil
	}
	return err
}

// Open starts a GET on a download URL (relative or absolute) and returns the
// body stream with the server-suggested filename.
func (c *Client) Open(ctx context.Context, downloadURL string) (*Download, error) {
	target := c.ResolveURL(downloadURL)

	req, err := c.newRequest(ctx, nethttp.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Op: OpDownload, Err: err}
	}

	resp, err := c.transferClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: OpDownload, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, errorFromBody(OpDownload, resp.StatusCode, body)
	}

	return &Download{
		Body:     resp.Body,
		Size:     resp.ContentLength,
		Filename: FilenameFromResponse(resp.Header.Get("Content-Disposition"), target),
		URL:      target,
	}, nil
}

// FilenameFromResponse picks the filename from a Content-Disposition header,
// falling back to the last segment of the URL path. The result is not
// sanitized.
func FilenameFromResponse(contentDisposition, rawURL string) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}

	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "/" && base != "." {
			if unescaped, err := url.PathUnescape(base); err == nil {
				return unescaped
			}
			return base
		}
	}
	return ""
}

// errorFromBody turns a non-2xx answer into a ServerError when the backend
// sent {"error": ...}, and a TransportError otherwise.
func errorFromBody(op string, status int, body []byte) error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return &ServerError{Op: op, StatusCode: status, Message: eb.Error}
	}
	return &TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", status)}
}

// Package sink saves converted results to local disk and, optionally,
// copies them to object storage.
package sink

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Destination schemes accepted by ParseDestination.
const (
	SchemeS3    = "s3"
	SchemeAzure = "azblob"
)

// Destination is an object storage location such as s3://bucket/prefix.
type Destination struct {
	Scheme    string
	Container string // S3 bucket or Azure container
	Prefix    string // key prefix without leading or trailing slash
}

// ParseDestination parses s3://bucket[/prefix] or azblob://container[/prefix].
func ParseDestination(raw string) (*Destination, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid destination %q: %w", raw, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != SchemeS3 && scheme != SchemeAzure {
		return nil, fmt.Errorf("invalid destination %q: scheme must be s3:// or azblob://", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid destination %q: missing bucket or container", raw)
	}

	return &Destination{
		Scheme:    scheme,
		Container: u.Host,
		Prefix:    strings.Trim(u.Path, "/"),
	}, nil
}

// Key returns the object key for name under the destination prefix.
func (d *Destination) Key(name string) string {
	if d.Prefix == "" {
		return name
	}
	return path.Join(d.Prefix, name)
}

// URI returns the scheme://container/key form for name.
func (d *Destination) URI(name string) string {
	return fmt.Sprintf("%s://%s/%s", d.Scheme, d.Container, d.Key(name))
}

func (d *Destination) String() string {
	if d.Prefix == "" {
		return fmt.Sprintf("%s://%s", d.Scheme, d.Container)
	}
	return fmt.Sprintf("%s://%s/%s", d.Scheme, d.Container, d.Prefix)
}

// RemoteSink copies a saved local file to object storage and returns the
// remote URI.
type RemoteSink interface {
	Put(ctx context.Context, localPath, name string) (string, error)
}

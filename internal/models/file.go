package models

import "io"

// FileSubmission is a spreadsheet selected for conversion.
// It lives only for the duration of one upload call; whoever opened the
// payload closes it once the upload returns.
type FileSubmission struct {
	Name    string    // Base file name sent as the multipart filename
	Payload io.Reader // File contents
	Size    int64     // Payload size in bytes, 0 if unknown
}

// SavedFile describes a converted result written to local disk.
type SavedFile struct {
	URL       string // Absolute URL the file was fetched from
	LocalPath string // Destination on disk
	Size      int64  // Bytes written
	RemoteURI string // Object storage copy (s3://, azblob://), empty if none
}

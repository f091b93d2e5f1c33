// Package storage keeps uploaded document files in an S3-compatible bucket.
// Content is streamed through and never touches local disk.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// PutObjectOptions describes one document file being stored.
// Size is the exact byte count, or -1 when unknown.
type PutObjectOptions struct {
	Size         int64
	ContentType  string
	OriginalName string
	SubjectID    string
	TypeKey      string
}

// ObjectInfo identifies a stored file.
type ObjectInfo struct {
	Key  string
	Size int64
	ETag string
}

// Storage holds document files. Records reference files by key only; downloads go straight to the
// bucket through presigned URLs.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Delete removes a file. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL that saves under the original file name.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// Ready reports whether the bucket is reachable.
	Ready(ctx context.Context) error
}

// DocumentKey builds the object key of an uploaded document file:
// documents/{subjectID}/{typeKey}/{fileID}{ext}. The extension is lower-cased.
func DocumentKey(subjectID, typeKey, fileID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return path.Join("documents", subjectID, typeKey, fileID+ext)
}

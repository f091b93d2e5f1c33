package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"compliancedocs/internal/config"
)

func TestDocumentKey(t *testing.T) {
	assert.Equal(t, "documents/doc-1/dbs-check/abc.pdf", DocumentKey("doc-1", "dbs-check", "abc", "Scan.PDF"))
	assert.Equal(t, "documents/biz-9/cv/abc", DocumentKey("biz-9", "cv", "abc", "noext"))
}

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		want string
	}{
		{"missing endpoint", config.MinIOConfig{AccessKey: "a", SecretKey: "b", Bucket: "c"}, "endpoint is required"},
		{"missing credentials", config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "c"}, "credentials are required"},
		{"missing bucket", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, "bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(context.Background(), tt.cfg)
			assert.Nil(t, s)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="my cv.pdf"`, contentDisposition(`my "cv".pdf`))
}

func TestObjectMetadata(t *testing.T) {
	got := objectMetadata(PutObjectOptions{OriginalName: "dbs.PDF", SubjectID: "doc-1", TypeKey: "dbs-check"})
	assert.Equal(t, map[string]string{
		"Original-Name": "dbs.PDF",
		"Subject-Id":    "doc-1",
		"Document-Type": "dbs-check",
	}, got)

	assert.Empty(t, objectMetadata(PutObjectOptions{Size: 10}))
}

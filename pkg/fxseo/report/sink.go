package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
)

// Sink stores a rendered report file under name.
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) error
}

// DirSink writes report files into a local directory, creating it on first
// use.
type DirSink struct {
	Dir string
}

// Put implements Sink.
func (s DirSink) Put(ctx context.Context, name, contentType string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(filepath.Join(s.Dir, name), data, 0o644)
}

// GCSSink uploads report files to a Cloud Storage bucket under Prefix.
type GCSSink struct {
	client *storage.Client
	Bucket string
	Prefix string
}

// NewGCSSink creates a storage client using application default
// credentials.
func NewGCSSink(ctx context.Context, bucket, prefix string) (*GCSSink, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &GCSSink{client: client, Bucket: bucket, Prefix: prefix}, nil
}

// ObjectName returns the object path used for a report file.
func (s *GCSSink) ObjectName(name string) string {
	if s.Prefix == "" {
		return name
	}
	return path.Join(s.Prefix, name)
}

// Put implements Sink.
func (s *GCSSink) Put(ctx context.Context, name, contentType string, data []byte) error {
	obj := s.client.Bucket(s.Bucket).Object(s.ObjectName(name))
	return writeObject(ctx, data, func(ctx context.Context) io.WriteCloser {
		w := obj.NewWriter(ctx)
		w.ContentType = contentType
		return w
	})
}

// writeObject uploads data through a writer opened on a child context. A
// failed write cancels that context before closing, which abandons the
// upload instead of committing a partial object.
func writeObject(ctx context.Context, data []byte, open func(context.Context) io.WriteCloser) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := open(ctx)
	if _, err := w.Write(data); err != nil {
		cancel()
		w.Close()
		return fmt.Errorf("writing object data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing object writer: %w", err)
	}
	return nil
}

// Close releases the storage client.
func (s *GCSSink) Close() error {
	return s.client.Close()
}

// Package snapshot reads and writes JSON listing snapshots to a local file or
// an s3://bucket/key location.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"square-feet-api/internal/models"
)

const s3Scheme = "s3://"

// ObjectStore is the subset of the S3 uploader used for snapshots.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	Download(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Location is a parsed snapshot target.
type Location struct {
	Bucket string
	Key    string
	Path   string
}

func (l Location) IsS3() bool { return l.Key != "" }

func (l Location) String() string {
	if l.IsS3() {
		return s3Scheme + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// ParseLocation accepts "s3://bucket/key" or a file path.
func ParseLocation(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{}, fmt.Errorf("empty snapshot location")
	}
	if !strings.HasPrefix(raw, s3Scheme) {
		return Location{Path: raw}, nil
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(raw, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, fmt.Errorf("invalid S3 location %q, want s3://bucket/key", raw)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// Encode writes props as an indented JSON array.
func Encode(w io.Writer, props []models.Property) error {
	if props == nil {
		props = []models.Property{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(props)
}

// Decode reads a JSON array of properties.
func Decode(r io.Reader) ([]models.Property, error) {
	var props []models.Property
	if err := json.NewDecoder(r).Decode(&props); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return props, nil
}

// Write stores props at loc. objects may be nil for file locations.
func Write(ctx context.Context, objects ObjectStore, loc Location, props []models.Property) error {
	var buf bytes.Buffer
	if err := Encode(&buf, props); err != nil {
		return err
	}

	if loc.IsS3() {
		if objects == nil {
			return fmt.Errorf("no S3 client configured for %s", loc)
		}
		return objects.Upload(ctx, loc.Bucket, loc.Key, &buf, "application/json")
	}

	if dir := filepath.Dir(loc.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(loc.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", loc.Path, err)
	}
	return nil
}

// Read loads the snapshot at loc. objects may be nil for file locations.
func Read(ctx context.Context, objects ObjectStore, loc Location) ([]models.Property, error) {
	if loc.IsS3() {
		if objects == nil {
			return nil, fmt.Errorf("no S3 client configured for %s", loc)
		}
		body, err := objects.Download(ctx, loc.Bucket, loc.Key)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		return Decode(body)
	}

	f, err := os.Open(loc.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", loc.Path, err)
	}
	defer f.Close()
	return Decode(f)
}

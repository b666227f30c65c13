package snapshot

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"square-feet-api/internal/models"
	"square-feet-api/internal/repository/storetest"
)

type fakeObjects struct {
	objects map[string][]byte
}

func (f *fakeObjects) Upload(_ context.Context, bucket, key string, body io.Reader, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[bucket+"/"+key] = data
	return nil
}

func (f *fakeObjects) Download(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.objects[bucket+"/"+key])), nil
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		raw     string
		want    Location
		wantErr bool
	}{
		{raw: "data/properties.json", want: Location{Path: "data/properties.json"}},
		{raw: "s3://listings/snapshots/2025.json", want: Location{Bucket: "listings", Key: "snapshots/2025.json"}},
		{raw: "s3://listings", wantErr: true},
		{raw: "s3:///key", wantErr: true},
		{raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseLocation(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.TrimSpace(tt.raw), got.String())
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	loc := Location{Path: filepath.Join(t.TempDir(), "nested", "properties.json")}
	props := []models.Property{
		storetest.NewProperty("A", models.StatusApproved, "Hyderabad", 1),
		storetest.NewProperty("B", models.StatusDraft, "Hyderabad", 2),
	}

	require.NoError(t, Write(context.Background(), nil, loc, props))
	got, err := Read(context.Background(), nil, loc)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].PropertyID)
	assert.Equal(t, props[1].Address, got[1].Address)
}

func TestS3RoundTrip(t *testing.T) {
	objects := &fakeObjects{objects: map[string][]byte{}}
	loc, err := ParseLocation("s3://bucket/snap.json")
	require.NoError(t, err)

	require.NoError(t, Write(context.Background(), objects, loc, []models.Property{
		storetest.NewProperty("A", models.StatusApproved, "Hyderabad", 1),
	}))
	assert.Contains(t, string(objects.objects["bucket/snap.json"]), `"propertyId": "A"`)

	got, err := Read(context.Background(), objects, loc)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestS3WithoutClient(t *testing.T) {
	loc := Location{Bucket: "b", Key: "k"}
	assert.Error(t, Write(context.Background(), nil, loc, nil))
	_, err := Read(context.Background(), nil, loc)
	assert.Error(t, err)
}

func TestEncodeNilIsEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

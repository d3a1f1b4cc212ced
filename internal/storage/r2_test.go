package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket answers path-style S3 GET and PUT requests from memory.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		b.objects[r.URL.Path] = data
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := b.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`))
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestClient(t *testing.T) (*R2Client, *fakeBucket) {
	t.Helper()
	bucket := &fakeBucket{objects: map[string][]byte{}}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	client, err := NewR2Client(context.Background(), R2Config{
		Endpoint:      srv.URL,
		AccessKey:     "access",
		SecretKey:     "secret",
		Bucket:        "menus",
		PublicBaseURL: "https://cdn.example.com/",
	})
	require.NoError(t, err)
	return client, bucket
}

func TestNewR2ClientRequiresBucket(t *testing.T) {
	_, err := NewR2Client(context.Background(), R2Config{Endpoint: "http://localhost:9000"})
	assert.Error(t, err)
}

func TestUploadThenOpen(t *testing.T) {
	client, bucket := newTestClient(t)
	ctx := context.Background()
	sheet := []byte("Category,Item Name,Price (₹),Available\nBiryani,Chicken,250,Yes\n")

	url, err := client.Upload(ctx, "menu.csv", bytes.NewReader(sheet), "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/menu.csv", url)
	assert.Equal(t, sheet, bucket.objects["/menus/menu.csv"])

	body, err := client.Open(ctx, "menu.csv")
	require.NoError(t, err)
	defer body.Close()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, sheet, got)
}

func TestOpenMissingObject(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Open(context.Background(), "nope.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu       sync.Mutex
	requests []string
}

func (fake *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)
	fake.mu.Lock()
	fake.requests = append(fake.requests, r.Method+" "+r.URL.Path)
	fake.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("stored bytes"))
	case http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3StoreAgainstCompatibleEndpoint(t *testing.T) {
	fake := &fakeS3{}
	server := httptest.NewServer(fake)
	defer server.Close()

	ctx := context.Background()
	store, err := NewS3Store(ctx, Config{
		S3Bucket:     "documents",
		S3Region:     "eu-south-1",
		S3Endpoint:   server.URL,
		AWSAccessKey: "test-access",
		AWSSecretKey: "test-secret",
	})
	require.NoError(t, err)

	object, err := store.Put(ctx, "cover.pdf", "", strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), object.Size)
	assert.Equal(t, "s3://documents/"+object.Name, object.URL)

	reader, err := store.Open(ctx, object.Name)
	require.NoError(t, err)
	content, err := io.ReadAll(reader)
	require.NoError(t, reader.Close())
	require.NoError(t, err)
	assert.Equal(t, "stored bytes", string(content))

	require.NoError(t, store.Delete(ctx, object.Name))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.requests, 3)
	assert.Equal(t, "PUT /documents/"+object.Name, fake.requests[0])
	assert.Equal(t, "GET /documents/"+object.Name, fake.requests[1])
	assert.Equal(t, "DELETE /documents/"+object.Name, fake.requests[2])
}

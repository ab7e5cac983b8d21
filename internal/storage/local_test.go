package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePutOpenDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	object, err := store.Put(ctx, "My CV.pdf", "application/pdf", strings.NewReader("%PDF-1.7 body"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("%PDF-1.7 body")), object.Size)
	assert.True(t, strings.HasSuffix(object.Name, "_My_CV.pdf"), object.Name)
	assert.Empty(t, object.URL)

	reader, err := store.Open(ctx, object.Name)
	require.NoError(t, err)
	content, err := io.ReadAll(reader)
	require.NoError(t, reader.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(content))

	require.NoError(t, store.Delete(ctx, object.Name))
	_, err = store.Open(ctx, object.Name)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// deleting twice is harmless
	assert.NoError(t, store.Delete(ctx, object.Name))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../secret", "/etc/passwd", "ab/../../x", `..\x`, ""} {
		_, err := store.Open(context.Background(), name)
		assert.ErrorIs(t, err, ErrObjectNotFound, name)
		assert.Error(t, store.Delete(context.Background(), name), name)
	}
}

func TestObjectNameSanitizesFilename(t *testing.T) {
	id := uuid.MustParse("12345678-1234-1234-1234-123456789abc")

	name := objectName(id, `..\..\evil name!.PDF`)
	assert.Equal(t, "12/12345678-1234-1234-1234-123456789abc_evil_name_.pdf", name)
	assert.True(t, validObjectName(name))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeFor("a.PDF"))
	assert.Equal(t, "image/jpeg", ContentTypeFor("photo.jpeg"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("archive.zip"))
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New(context.Background(), Config{Type: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{Type: TypeS3})
	assert.Error(t, err)
}

package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobService_SignedUploadURL_Azurite(t *testing.T) {
	t.Setenv("BLOB_SERVICE_URL", "http://127.0.0.1:10000/devstoreaccount1/")
	t.Setenv("UPLOAD_CONTAINER", "uploads")

	svc, err := NewBlobService()
	require.NoError(t, err)
	assert.Equal(t, "uploads", svc.UploadContainer())

	raw, err := svc.SignedUploadURL(context.Background(), "raw.csv", "text/csv", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/devstoreaccount1/uploads/raw.csv", u.Path)

	q := u.Query()
	assert.Equal(t, "cw", q.Get("sp"))
	assert.Equal(t, "text/csv", q.Get("rsct"))
	assert.NotEmpty(t, q.Get("sig"))
}

func TestNewBlobService_MissingURL(t *testing.T) {
	t.Setenv("BLOB_SERVICE_URL", "")
	_, err := NewBlobService()
	assert.ErrorContains(t, err, "BLOB_SERVICE_URL")
}

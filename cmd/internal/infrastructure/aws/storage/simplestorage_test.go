package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTransport answers every PUT with 200 and keeps the raw bodies
// by object path.
type recordingTransport struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
}

func (r *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodPut {
		return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
	}

	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	r.objects[req.URL.Path] = string(body)
	r.types[req.URL.Path] = req.Header.Get("Content-Type")
	r.mu.Unlock()

	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"ETag": {"\"etag\""}}}, nil
}

func newMockClient(t *testing.T) (S3Client, *recordingTransport) {
	t.Helper()
	rt := &recordingTransport{objects: map[string]string{}, types: map[string]string{}}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("sa-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
	return NewStorageClientFromAPI(client, "snapshots-bucket"), rt
}

func TestUploadFile(t *testing.T) {
	client, rt := newMockClient(t)

	key, err := client.UploadFile(context.Background(), []byte("indicador_id,nome\nIND_0001,Ana\n"), "2025-03-01/Indicadores-abc.csv")
	require.NoError(t, err)
	assert.Equal(t, "snapshots/2025-03-01/Indicadores-abc.csv", key)

	path := "/snapshots-bucket/" + key
	require.Contains(t, rt.objects, path)
	assert.Contains(t, rt.objects[path], "IND_0001,Ana")
	assert.True(t, strings.HasPrefix(rt.types[path], "text/csv"))
}

func TestUploadFile_EmptyName(t *testing.T) {
	client, _ := newMockClient(t)

	_, err := client.UploadFile(context.Background(), []byte("x"), "")
	require.Error(t, err)
}

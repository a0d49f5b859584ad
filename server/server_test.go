package server

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemover struct {
	out []byte
	err error
}

func (f *fakeRemover) Remove(ctx context.Context, data []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func uploadRequest(t *testing.T, field string, payload []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, "icon.png")
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/remove", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestServer_Remove(t *testing.T) {
	out := []byte{0x89, 'P', 'N', 'G', 7, 8, 9}
	srv := New(&fakeRemover{out: out})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, uploadRequest(t, "image", []byte("input bytes")))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, out, w.Body.Bytes())
}

func TestServer_Remove_MissingField(t *testing.T) {
	srv := New(&fakeRemover{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, uploadRequest(t, "wrong", []byte("input")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing image field")
}

func TestServer_Remove_RemoverError(t *testing.T) {
	srv := New(&fakeRemover{err: errors.New("model exploded")})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, uploadRequest(t, "image", []byte("input")))

	// 推理失败不向调用方泄漏内部细节
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "background removal failed")
}

func TestServer_Health(t *testing.T) {
	srv := New(&fakeRemover{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

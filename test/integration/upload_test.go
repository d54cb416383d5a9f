package integration_test

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flymedia_backend/internal/config"
	"flymedia_backend/internal/services/dto"
	"flymedia_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestUpload_Flow(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	// 1. Nothing stored yet
	res, body := ts.SendRequest(t, http.MethodGet, "/files", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `[]`, body)

	// 2. Upload
	res, body = ts.UploadFile(t, "cover.png", pngBytes)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var uploaded dto.UploadResponse
	helpers.DecodeJSON(t, body, &uploaded)
	assert.True(t, strings.HasSuffix(uploaded.FileName, "-cover.png"), uploaded.FileName)
	assert.Equal(t, "/uploads/"+uploaded.FileName, uploaded.FilePath)
	assert.Equal(t, uploaded.FilePath, uploaded.URL)
	assert.Equal(t, "image/png", uploaded.MimeType)
	assert.Equal(t, int64(len(pngBytes)), uploaded.Size)

	_, err := os.Stat(filepath.Join(ts.Config.Storage.BasePath, uploaded.FileName))
	assert.NoError(t, err)

	// 3. Listed
	_, body = ts.SendRequest(t, http.MethodGet, "/files", nil)
	var names []string
	helpers.DecodeJSON(t, body, &names)
	assert.Equal(t, []string{uploaded.FileName}, names)

	// 4. Served back byte for byte
	res, body = ts.SendRequest(t, http.MethodGet, uploaded.FilePath, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))
	assert.True(t, bytes.Equal(pngBytes, []byte(body)))

	// 5. Deleted
	res, _ = ts.SendRequest(t, http.MethodDelete, "/files/"+uploaded.FileName, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	res, _ = ts.SendRequest(t, http.MethodGet, uploaded.FilePath, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestUpload_SameNameTwice(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	res, body := ts.UploadFile(t, "clip.txt", []byte("first"))
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var first dto.UploadResponse
	helpers.DecodeJSON(t, body, &first)

	res, body = ts.UploadFile(t, "clip.txt", []byte("second"))
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var second dto.UploadResponse
	helpers.DecodeJSON(t, body, &second)

	assert.NotEqual(t, first.FileName, second.FileName)

	_, body = ts.SendRequest(t, http.MethodGet, "/files", nil)
	var names []string
	helpers.DecodeJSON(t, body, &names)
	assert.ElementsMatch(t, []string{first.FileName, second.FileName}, names)

	_, body = ts.SendRequest(t, http.MethodGet, first.FilePath, nil)
	assert.Equal(t, "first", body)
}

func TestUpload_Rejections(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t, func(cfg *config.Config) {
		cfg.Upload.MaxSize = 8
	})

	res, body := ts.UploadField(t, "attachment", "a.txt", []byte("hi"))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "No file uploaded")

	res, body = ts.UploadFile(t, "big.txt", []byte("more than eight bytes"))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "LIMIT_EXCEEDED")

	res, _ = ts.SendRequest(t, http.MethodGet, "/uploads/nope.txt", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodDelete, "/files/nope.txt", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestAnalytics_FileStats(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/analytics/files", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"totalFiles":0,"mostPopularType":"N/A","byType":[]}`, body)

	for _, name := range []string{"a.png", "b.png"} {
		res, _ := ts.UploadFile(t, name, pngBytes)
		require.Equal(t, http.StatusOK, res.StatusCode)
	}
	res, _ = ts.UploadFile(t, "notes.txt", []byte("plain text notes"))
	require.Equal(t, http.StatusOK, res.StatusCode)

	_, body = ts.SendRequest(t, http.MethodGet, "/api/analytics/files", nil)
	var stats dto.FileAnalyticsResponse
	helpers.DecodeJSON(t, body, &stats)
	assert.Equal(t, 3, stats.TotalFiles)
	assert.Equal(t, "image", stats.MostPopularType)
	assert.Equal(t, []dto.FileTypeCount{{Type: "image", Count: 2}, {Type: "text", Count: 1}}, stats.ByType)
}

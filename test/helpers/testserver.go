package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"flymedia_backend/internal/app"
	"flymedia_backend/internal/config"

	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	App    *app.App
	Config *config.Config

	cancel context.CancelFunc
}

// TestConfig returns a configuration whose state lives under dir.
func TestConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Local.Path = filepath.Join(dir, "flymedia.db")
	cfg.Notifications.FilePath = filepath.Join(dir, "notifications.json")
	cfg.Storage.BasePath = filepath.Join(dir, "uploads")
	return cfg
}

// NewTestServer starts the full router against a fresh temp directory.
// Options adjust the configuration before the app is built.
func NewTestServer(t *testing.T, opts ...func(*config.Config)) *TestServer {
	t.Helper()

	cfg := TestConfig(t.TempDir())
	for _, opt := range opts {
		opt(cfg)
	}
	return NewTestServerWithConfig(t, cfg)
}

func NewTestServerWithConfig(t *testing.T, cfg *config.Config) *TestServer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	a, err := app.New(ctx, cfg)
	if err != nil {
		cancel()
		t.Fatalf("failed to build app: %v", err)
	}
	go a.WSManager.Run(ctx)

	ts := &TestServer{
		Server: httptest.NewServer(a.Router),
		App:    a,
		Config: cfg,
		cancel: cancel,
	}
	t.Cleanup(ts.Close)
	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.cancel()
	ts.App.Close()
}

// SendRequest sends body as JSON when it is not nil and returns the
// response with its body read.
func (ts *TestServer) SendRequest(t *testing.T, method, path string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.do(t, req)
}

// UploadFile posts content as the multipart field "file".
func (ts *TestServer) UploadFile(t *testing.T, filename string, content []byte) (*http.Response, string) {
	t.Helper()
	return ts.UploadField(t, "file", filename, content)
}

func (ts *TestServer) UploadField(t *testing.T, field, filename string, content []byte) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return ts.do(t, req)
}

func (ts *TestServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(resBody)
}

// DecodeJSON unmarshals body into v or fails the test.
func DecodeJSON(t *testing.T, body string, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), v), "body: %s", body)
}

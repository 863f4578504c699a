package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"bucket-browser/internal/browser"
	"bucket-browser/internal/config"
	"bucket-browser/internal/storage"
)

func newTestServer(t *testing.T, maxUpload int64) (http.Handler, *storage.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client := storage.NewClient(storage.NewMemoryProvider(), "test")
	if err := client.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("EnsureBucket failed: %v", err)
	}
	svc := browser.NewService(client, browser.Options{
		HideSentinels: true,
		MaxUploadSize: maxUpload,
		PresignTTL:    time.Hour,
	})

	cfg := &config.Config{}
	cfg.Server.LogLevel = "debug"
	return New(cfg, svc).Handler(), client
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
}

func uploadRequest(t *testing.T, prefix, name, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("prefix", prefix)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	fw.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type listResponse struct {
	Items  []browser.Entry `json:"items"`
	Prefix string          `json:"prefix"`
}

func TestUploadThenList(t *testing.T) {
	h, _ := newTestServer(t, 1<<20)

	w := do(h, uploadRequest(t, "docs/", "x.txt", "twelve bytes"))
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d; body %s", w.Code, w.Body)
	}
	var up struct {
		Success bool   `json:"success"`
		Path    string `json:"path"`
	}
	decode(t, w, &up)
	if !up.Success || up.Path != "docs/x.txt" {
		t.Errorf("upload response = %+v", up)
	}

	w = do(h, httptest.NewRequest(http.MethodGet, "/api/files?prefix=docs/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list listResponse
	decode(t, w, &list)
	if list.Prefix != "docs/" || len(list.Items) != 1 {
		t.Fatalf("list = %+v", list)
	}
	item := list.Items[0]
	if item.Name != "x.txt" || item.Kind != browser.File || item.FullPath != "docs/x.txt" {
		t.Errorf("item = %+v", item)
	}
	if item.Size == nil || *item.Size != 12 {
		t.Errorf("size = %v; want 12", item.Size)
	}
}

func TestListJSONShape(t *testing.T) {
	h, _ := newTestServer(t, 0)

	body := `{"folderName":"new","prefix":""}`
	w := do(h, httptest.NewRequest(http.MethodPost, "/api/folders", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("create folder status = %d; body %s", w.Code, w.Body)
	}

	w = do(h, httptest.NewRequest(http.MethodGet, "/api/files", nil))
	var raw struct {
		Items  []map[string]any `json:"items"`
		Prefix string           `json:"prefix"`
	}
	decode(t, w, &raw)
	if len(raw.Items) != 1 {
		t.Fatalf("items = %v", raw.Items)
	}
	got := raw.Items[0]
	if got["type"] != "folder" || got["path"] != "new/" || got["name"] != "new" {
		t.Errorf("folder JSON = %v", got)
	}
	if _, ok := got["size"]; ok {
		t.Error("folders must not carry a size")
	}
}

func TestCreateFolder(t *testing.T) {
	h, client := newTestServer(t, 0)

	body := `{"folderName":"new","prefix":"a/"}`
	w := do(h, httptest.NewRequest(http.MethodPost, "/api/folders", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body)
	}
	var resp struct {
		Success bool   `json:"success"`
		Path    string `json:"path"`
	}
	decode(t, w, &resp)
	if !resp.Success || resp.Path != "a/new/" {
		t.Errorf("response = %+v", resp)
	}
	if _, err := client.Stat(context.Background(), "a/new/.keep"); err != nil {
		t.Errorf("sentinel missing: %v", err)
	}
}

func TestBadRequests(t *testing.T) {
	h, _ := newTestServer(t, 0)

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"preview without path", httptest.NewRequest(http.MethodGet, "/api/files/preview", nil)},
		{"download without path", httptest.NewRequest(http.MethodGet, "/api/files/download", nil)},
		{"url without path", httptest.NewRequest(http.MethodGet, "/api/files/url", nil)},
		{"folder without name", httptest.NewRequest(http.MethodPost, "/api/folders", strings.NewReader(`{"prefix":"a/"}`))},
		{"folder with blank name", httptest.NewRequest(http.MethodPost, "/api/folders", strings.NewReader(`{"folderName":"  "}`))},
		{"folder with bad JSON", httptest.NewRequest(http.MethodPost, "/api/folders", strings.NewReader(`{`))},
		{"upload without file", httptest.NewRequest(http.MethodPost, "/api/files/upload", nil)},
	}

	for _, tt := range tests {
		w := do(h, tt.req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d; want 400", tt.name, w.Code)
			continue
		}
		var resp struct {
			Error string `json:"error"`
		}
		decode(t, w, &resp)
		if resp.Error == "" {
			t.Errorf("%s: missing error message", tt.name)
		}
	}
}

// countingReader records how much of a request body the server consumed.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func TestUploadTooLarge(t *testing.T) {
	h, client := newTestServer(t, 4)

	w := do(h, uploadRequest(t, "", "big.bin", "more than four bytes"))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d; want 413", w.Code)
	}

	// Without a Content-Length the body is cut off while streaming.
	big := uploadRequest(t, "", "huge.bin", strings.Repeat("x", 8<<20))
	total := big.ContentLength
	body := &countingReader{r: big.Body}
	big.Body = io.NopCloser(body)
	big.ContentLength = -1

	w = do(h, big)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("streamed status = %d; want 413; body %s", w.Code, w.Body)
	}
	if body.n >= total {
		t.Errorf("server read %d of %d bytes before rejecting", body.n, total)
	}

	listing, err := client.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listing.Objects) != 0 {
		t.Errorf("rejected uploads were stored: %+v", listing.Objects)
	}
}

func TestPreviewAndDownload(t *testing.T) {
	h, client := newTestServer(t, 0)
	data := "<svg></svg>"
	client.Put(context.Background(), "pics/logo.svg", strings.NewReader(data), int64(len(data)), "image/svg+xml")

	w := do(h, httptest.NewRequest(http.MethodGet, "/api/files/preview?path=pics/logo.svg", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("preview status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("preview Content-Type = %q", ct)
	}
	if cl := w.Header().Get("Content-Length"); cl != "11" {
		t.Errorf("preview Content-Length = %q; want 11", cl)
	}
	if w.Body.String() != data {
		t.Errorf("preview body = %q", w.Body)
	}

	w = do(h, httptest.NewRequest(http.MethodGet, "/api/files/download?path=pics/logo.svg", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("download status = %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="logo.svg"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("download Content-Type = %q", ct)
	}
}

func TestMissingObjectIsServerError(t *testing.T) {
	h, _ := newTestServer(t, 0)

	w := do(h, httptest.NewRequest(http.MethodGet, "/api/files/preview?path=nope.txt", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", w.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, w, &resp)
	if resp.Error != "Failed to preview file" {
		t.Errorf("error = %q; should be the fixed message", resp.Error)
	}
}

func TestBucketCheckAndPresign(t *testing.T) {
	h, _ := newTestServer(t, 0)

	w := do(h, httptest.NewRequest(http.MethodGet, "/api/bucket/check", nil))
	var check struct {
		Success bool   `json:"success"`
		Bucket  string `json:"bucket"`
	}
	decode(t, w, &check)
	if w.Code != http.StatusOK || !check.Success || check.Bucket != "test" {
		t.Errorf("check = %d %+v", w.Code, check)
	}

	w = do(h, httptest.NewRequest(http.MethodGet, "/api/files/url?path=a.jpg", nil))
	var u struct {
		URL string `json:"url"`
	}
	decode(t, w, &u)
	if w.Code != http.StatusOK || u.URL == "" {
		t.Errorf("url = %d %+v", w.Code, u)
	}
}

func TestBreadcrumbsAndMedia(t *testing.T) {
	h, client := newTestServer(t, 0)
	for _, key := range []string{"trip/a.jpg", "trip/b.txt", "trip/c.mp4"} {
		client.Put(context.Background(), key, strings.NewReader("x"), 1, "")
	}

	w := do(h, httptest.NewRequest(http.MethodGet, "/api/breadcrumbs?prefix=trip/day1/", nil))
	var crumbs struct {
		Items []browser.BreadcrumbItem `json:"items"`
	}
	decode(t, w, &crumbs)
	if len(crumbs.Items) != 3 || crumbs.Items[2].Path != "trip/day1/" {
		t.Errorf("breadcrumbs = %+v", crumbs.Items)
	}

	w = do(h, httptest.NewRequest(http.MethodGet, "/api/files/media?prefix=trip/", nil))
	var list listResponse
	decode(t, w, &list)
	if len(list.Items) != 2 || list.Items[0].Name != "a.jpg" || list.Items[1].Name != "c.mp4" {
		t.Errorf("media = %+v", list.Items)
	}
}

// brokenBackend fails every call, standing in for an unreachable store.
type brokenBackend struct{}

var errDown = errors.New("dial tcp: connection refused")

func (brokenBackend) List(ctx context.Context, prefix string) (*storage.Listing, error) {
	return nil, errDown
}
func (brokenBackend) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error {
	return errDown
}
func (brokenBackend) Stat(ctx context.Context, key string) (*storage.ObjectInfo, error) {
	return nil, errDown
}
func (brokenBackend) Get(ctx context.Context, key string) (*storage.FileObject, error) {
	return nil, errDown
}
func (brokenBackend) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "", errDown
}
func (brokenBackend) EnsureBucket(ctx context.Context) error { return errDown }
func (brokenBackend) Bucket() string                         { return "down" }

func TestBackendFailuresDoNotLeakDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	h := New(cfg, browser.NewService(brokenBackend{}, browser.Options{})).Handler()

	tests := []struct {
		req  *http.Request
		want string
	}{
		{httptest.NewRequest(http.MethodGet, "/api/bucket/check", nil), "Failed to check bucket"},
		{httptest.NewRequest(http.MethodGet, "/api/files?prefix=a/", nil), "Failed to list files"},
		{httptest.NewRequest(http.MethodGet, "/api/files/download?path=a", nil), "Failed to download file"},
		{httptest.NewRequest(http.MethodGet, "/api/files/url?path=a", nil), "Failed to generate download URL"},
		{httptest.NewRequest(http.MethodPost, "/api/folders", strings.NewReader(`{"folderName":"x"}`)), "Failed to create folder"},
		{uploadRequest(t, "", "a.txt", "x"), "Failed to upload file"},
	}

	for _, tt := range tests {
		w := do(h, tt.req)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s: status = %d; want 500", tt.req.URL, w.Code)
			continue
		}
		if strings.Contains(w.Body.String(), "connection refused") {
			t.Errorf("%s: body leaks cause: %s", tt.req.URL, w.Body)
		}
		var resp struct {
			Error string `json:"error"`
		}
		decode(t, w, &resp)
		if resp.Error != tt.want {
			t.Errorf("%s: error = %q; want %q", tt.req.URL, resp.Error, tt.want)
		}
	}
}

package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipTestHandler(contentType, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		_, _ = w.Write([]byte(body))
	})
}

func gunzip(t *testing.T, body io.Reader) string {
	t.Helper()
	zr, err := gzip.NewReader(body)
	require.NoError(t, err)
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.NoError(t, zr.Close())
	return string(out)
}

func TestCompression_CompressesHTMLResponse(t *testing.T) {
	body := strings.Repeat("breathe in, breathe out. ", 50)
	handler := Compression(CompressionConfig{Level: gzip.DefaultCompression})(
		gzipTestHandler("text/html; charset=utf-8", body))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Contains(t, rec.Header().Values("Vary"), "Accept-Encoding")
	assert.Equal(t, body, gunzip(t, rec.Body))
	assert.Less(t, rec.Body.Len(), len(body))
}

func TestCompression_SkipsWithoutAcceptEncoding(t *testing.T) {
	handler := Compression(CompressionConfig{Level: gzip.DefaultCompression})(
		gzipTestHandler("text/html", "<p>hello</p>"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "<p>hello</p>", rec.Body.String())
}

func TestCompression_SkipsHeadRequests(t *testing.T) {
	handler := Compression(CompressionConfig{Level: gzip.DefaultCompression})(
		gzipTestHandler("text/html", ""))

	req := httptest.NewRequest(http.MethodHead, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
}

func TestCompression_SkipsNonCompressibleContentType(t *testing.T) {
	handler := Compression(CompressionConfig{Level: gzip.DefaultCompression})(
		gzipTestHandler("image/png", "not-really-a-png"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "not-really-a-png", rec.Body.String())
}

func TestCompression_SkipsNoContentStatus(t *testing.T) {
	handler := Compression(CompressionConfig{Level: gzip.DefaultCompression})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
}

func TestCompression_MinSizeSmallBodySentUncompressed(t *testing.T) {
	handler := Compression(CompressionConfig{Level: gzip.DefaultCompression, MinSize: 1024})(
		gzipTestHandler("text/plain", "tiny"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "tiny", rec.Body.String())
}

func TestCompression_MinSizeThresholdCrossedMidResponse(t *testing.T) {
	chunk := strings.Repeat("x", 40)
	handler := Compression(CompressionConfig{Level: gzip.DefaultCompression, MinSize: 64})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			for range 3 {
				_, _ = w.Write([]byte(chunk))
			}
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, strings.Repeat(chunk, 3), gunzip(t, rec.Body))
}

func TestAcceptsGzip(t *testing.T) {
	cases := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"gzip", true},
		{"gzip, deflate, br", true},
		{"GZIP", true},
		{"gzip;q=0", false},
		{"gzip;q=0.0", false},
		{"gzip;q=0.5", true},
		{"deflate", false},
		{"identity", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, acceptsGzip(tc.header), "header %q", tc.header)
	}
}

func TestIsCompressibleContentType(t *testing.T) {
	types := getDefaultCompressibleTypes()

	assert.True(t, isCompressibleContentType("text/html", types))
	assert.True(t, isCompressibleContentType("text/html; charset=utf-8", types))
	assert.True(t, isCompressibleContentType("Application/JSON", types))
	assert.False(t, isCompressibleContentType("image/png", types))
	assert.False(t, isCompressibleContentType("application/octet-stream", types))
	assert.False(t, isCompressibleContentType("", types))
}

package httpx

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
)

// CompressionConfig holds configuration for the compression middleware.
type CompressionConfig struct {
	Level         int // Compression level (1-9, where 6 is default)
	MinSize       int // Minimum response size to compress (bytes, 0 = always compress)
	writerPool    *gzipWriterPool
	compressTypes map[string]bool
	Logger        *slog.Logger
}

// Compression returns a middleware that compresses HTTP responses using gzip.
// It compresses responses only when:
// - Client accepts gzip encoding (via Accept-Encoding header).
// - Content-Type is compressible (text/html, text/css, application/json, etc.).
// - Response status is not 1xx, 204, or 304.
// - Request method is not HEAD.
// - Response size exceeds MinSize threshold (if configured).
func Compression(cfg CompressionConfig) func(http.Handler) http.Handler {
	if cfg.writerPool == nil {
		cfg.writerPool = newGzipWriterPool()
	}
	if cfg.compressTypes == nil {
		cfg.compressTypes = getDefaultCompressibleTypes()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !acceptsGzip(r.Header.Get("Accept-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}

			if r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			// Compression is decided at WriteHeader time, once status and
			// content type are known.
			gzw := &gzipResponseWriter{
				ResponseWriter: w,
				request:        r,
				config:         &cfg,
				minSize:        cfg.MinSize,
			}

			w.Header().Add("Vary", "Accept-Encoding")

			next.ServeHTTP(gzw, r)

			if err := gzw.finish(); err != nil {
				cfg.Logger.ErrorContext(r.Context(), "finishing gzip response failed", "error", err)
			}
		})
	}
}

// acceptsGzip checks if the client accepts gzip encoding, respecting q-values.
func acceptsGzip(acceptEncoding string) bool {
	if acceptEncoding == "" {
		return false
	}

	for _, part := range strings.Split(acceptEncoding, ",") {
		part = strings.TrimSpace(part)
		if !strings.Contains(strings.ToLower(part), "gzip") {
			continue
		}

		encoding := part
		if idx := strings.Index(part, ";"); idx != -1 {
			encoding = strings.TrimSpace(part[:idx])
		}
		if strings.ToLower(encoding) != "gzip" {
			continue
		}

		// q=0 means the client explicitly refuses gzip
		if strings.Contains(part, "q=0.0") || strings.Contains(part, "q=0;") || strings.HasSuffix(part, "q=0") {
			return false
		}
		return true
	}
	return false
}

// isCompressibleContentType checks if the content type should be compressed.
func isCompressibleContentType(contentType string, compressTypes map[string]bool) bool {
	// Strip parameters: "text/html; charset=utf-8" -> "text/html"
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	contentType = strings.TrimSpace(strings.ToLower(contentType))
	return compressTypes[contentType]
}

func getDefaultCompressibleTypes() map[string]bool {
	return map[string]bool{
		"text/html":                true,
		"text/css":                 true,
		"text/plain":               true,
		"text/xml":                 true,
		"text/javascript":          true,
		"application/javascript":   true,
		"application/x-javascript": true,
		"application/json":         true,
		"application/xml":          true,
		"application/rss+xml":      true,
		"application/atom+xml":     true,
		"image/svg+xml":            true,
	}
}

// gzipWriterPool manages a pool of gzip writers per compression level.
type gzipWriterPool struct {
	pools map[int]*gzipLevelPool
}

type gzipLevelPool struct {
	level int
	pool  *sync.Pool
}

func newGzipWriterPool() *gzipWriterPool {
	return &gzipWriterPool{
		pools: make(map[int]*gzipLevelPool),
	}
}

func (p *gzipWriterPool) get(level int) *gzip.Writer {
	pool := p.ensureLevelPool(level)
	if w, ok := pool.pool.Get().(*gzip.Writer); ok && w != nil {
		return w
	}
	return newGzipWriter(level)
}

func (p *gzipWriterPool) put(w *gzip.Writer, level int) {
	if pool, ok := p.pools[level]; ok {
		w.Reset(io.Discard)
		pool.pool.Put(w)
	}
}

func (p *gzipWriterPool) ensureLevelPool(level int) *gzipLevelPool {
	if pool, ok := p.pools[level]; ok {
		return pool
	}

	newPool := &gzipLevelPool{
		level: level,
		pool: &sync.Pool{
			New: func() any {
				return newGzipWriter(level)
			},
		},
	}
	p.pools[level] = newPool
	return newPool
}

func newGzipWriter(level int) *gzip.Writer {
	w, err := gzip.NewWriterLevel(io.Discard, level)
	if err != nil {
		return gzip.NewWriter(io.Discard)
	}
	return w
}

// gzipResponseWriter wraps http.ResponseWriter to compress the response body.
type gzipResponseWriter struct {
	http.ResponseWriter
	request         *http.Request
	config          *CompressionConfig
	gzipWriter      *gzip.Writer
	headerWritten   bool
	statusCode      int
	buffering       bool
	minSize         int
	bufferedContent []byte
}

// WriteHeader decides whether to compress based on status code, content type,
// and any existing Content-Encoding. With a MinSize threshold the header is
// held back until enough body has arrived to justify compression.
func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.headerWritten {
		return
	}
	w.headerWritten = true

	if statusCode < 200 || statusCode == http.StatusNoContent || statusCode == http.StatusNotModified {
		w.ResponseWriter.WriteHeader(statusCode)
		return
	}

	if w.Header().Get("Content-Encoding") != "" {
		w.ResponseWriter.WriteHeader(statusCode)
		return
	}

	// An empty content type is left to Write, which sniffs it before the
	// implicit WriteHeader.
	contentType := w.Header().Get("Content-Type")
	if contentType != "" && !isCompressibleContentType(contentType, w.config.compressTypes) {
		w.ResponseWriter.WriteHeader(statusCode)
		return
	}

	if w.minSize > 0 {
		w.statusCode = statusCode
		w.buffering = true
		return
	}
	w.startGzip(statusCode)
}

// startGzip commits to compressed output: sets the headers and writes the
// status line.
func (w *gzipResponseWriter) startGzip(statusCode int) {
	w.gzipWriter = w.config.writerPool.get(w.config.Level)
	w.gzipWriter.Reset(w.ResponseWriter)

	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Del("Content-Length") // Length changes after compression
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write compresses data when compression was enabled at WriteHeader time.
func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.headerWritten {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", http.DetectContentType(b))
		}
		w.WriteHeader(http.StatusOK)
	}

	// Buffer small responses until the MinSize threshold is reached.
	if w.buffering {
		w.bufferedContent = append(w.bufferedContent, b...)
		if len(w.bufferedContent) < w.minSize {
			return len(b), nil
		}
		return len(b), w.commitGzip()
	}

	if w.gzipWriter != nil {
		return w.gzipWriter.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// commitGzip switches a buffered response to compressed output once the
// MinSize threshold is crossed.
func (w *gzipResponseWriter) commitGzip() error {
	w.buffering = false
	w.startGzip(w.statusCode)
	_, err := w.gzipWriter.Write(w.bufferedContent)
	w.bufferedContent = nil
	return err
}

// finish completes the response. A body still buffered below the MinSize
// threshold goes out uncompressed, without a Content-Encoding header;
// otherwise the gzip writer is closed and returned to the pool.
func (w *gzipResponseWriter) finish() error {
	if w.buffering {
		w.buffering = false
		w.ResponseWriter.WriteHeader(w.statusCode)
		var writeErr error
		if len(w.bufferedContent) > 0 {
			_, writeErr = w.ResponseWriter.Write(w.bufferedContent)
			w.bufferedContent = nil
		}
		return writeErr
	}

	if w.gzipWriter == nil {
		return nil
	}

	closeErr := w.gzipWriter.Close()
	w.config.writerPool.put(w.gzipWriter, w.config.Level)
	w.gzipWriter = nil

	return closeErr
}

// Flush implements http.Flusher for streaming support. A flush while still
// buffering commits to compression, since a streaming response has no known
// final size.
func (w *gzipResponseWriter) Flush() {
	if w.buffering {
		if err := w.commitGzip(); err != nil {
			w.config.Logger.ErrorContext(w.request.Context(), "flushing buffered gzip content failed", "error", err)
		}
	}
	if w.gzipWriter != nil {
		if err := w.gzipWriter.Flush(); err != nil {
			w.config.Logger.ErrorContext(w.request.Context(), "flushing gzip writer failed", "error", err)
		}
	}
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Hijack implements http.Hijacker for WebSocket support.
func (w *gzipResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, errors.New("http.Hijacker not supported")
}

// Push implements http.Pusher for HTTP/2 server push support.
func (w *gzipResponseWriter) Push(target string, opts *http.PushOptions) error {
	if pusher, ok := w.ResponseWriter.(http.Pusher); ok {
		return pusher.Push(target, opts)
	}
	return errors.New("http.Pusher not supported")
}

package httpserver

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/webdav"

	"quickdrop/internal/config"
	"quickdrop/internal/fsutil"
	"quickdrop/internal/share"
)

type Options struct {
	Config config.Config
	Folder *share.Folder
	// ShareURL is the address shown to phones; /qr.png encodes it.
	ShareURL string
}

type Server struct {
	cfg      config.Config
	folder   *share.Folder
	shareURL string
	page     *template.Template
}

//go:embed web/index.html
var embeddedWeb embed.FS

func New(opts Options) (*Server, error) {
	page, err := template.New("index.html").
		Funcs(template.FuncMap{"pathescape": url.PathEscape}).
		ParseFS(embeddedWeb, "web/index.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:      opts.Config,
		folder:   opts.Folder,
		shareURL: opts.ShareURL,
		page:     page,
	}, nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLog)
	r.Use(limitConcurrent(s.cfg.MaxConcurrent))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})

	r.Get("/", s.handleIndex)
	r.Get("/api/files", s.handleFiles)
	r.Post("/upload", s.handleUpload)
	r.Get("/download/{name}", s.handleDownload)
	r.Get("/thumb/{name}", s.handleThumb)
	r.Get("/qr.png", s.handleQR)

	// WebDAV mount for native file managers.
	dav := &webdav.Handler{
		Prefix:     "/dav",
		FileSystem: webdav.Dir(s.folder.Root()),
		LockSystem: webdav.NewMemLS(),
		Logger: func(r *http.Request, err error) {
			if err != nil {
				logrus.WithError(err).WithField("path", r.URL.Path).Debug("webdav")
			}
		},
	}
	r.Mount("/dav", dav)

	return r
}

// --- middleware ---

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()[:8]
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"id":      id,
			"method":  r.Method,
			"path":    r.URL.Path,
			"elapsed": time.Since(start).Round(time.Millisecond),
		}).Debug("request")
	})
}

// limitConcurrent bounds in-flight requests with a semaphore, the equivalent
// of the fixed worker pool the production deployment runs with.
func limitConcurrent(n int) func(http.Handler) http.Handler {
	if n <= 0 {
		n = config.DefaultMaxConcurrent
	}
	sem := make(chan struct{}, n)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
				next.ServeHTTP(w, r)
			case <-r.Context().Done():
			}
		})
	}
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func (s *Server) sanitize(name string) (string, error) {
	return fsutil.Sanitize(name, s.folder.Root())
}

// pathParam returns the decoded value of a route parameter. The router matches
// against URL.RawPath when the request URI carries escapes that change the
// path structure; the captured segment then still holds that escaping and
// needs one decode. Otherwise the segment comes from the already-decoded
// URL.Path and is taken as-is, so names containing a literal % survive.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

// writePathError maps the sanitizer taxonomy onto HTTP statuses.
func writePathError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fsutil.ErrInvalidPath):
		http.Error(w, "Invalid filename", http.StatusBadRequest)
	case errors.Is(err, fsutil.ErrAccessDenied):
		http.Error(w, "Access denied", http.StatusForbidden)
	case errors.Is(err, fsutil.ErrNotFound):
		http.Error(w, "File not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

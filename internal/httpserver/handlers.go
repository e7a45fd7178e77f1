package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"

	"quickdrop/internal/share"
	"quickdrop/internal/stream"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Files       []share.FileEntry
		ShareFolder string
	}{Files: s.folder.List(), ShareFolder: s.folder.Root()}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		logrus.WithError(err).Warn("rendering index failed")
	}
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"files": s.folder.List()})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No files"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	fhs := r.MultipartForm.File["files"]
	if len(fhs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No files"})
		return
	}

	// Each file is processed independently: a failed part is logged and left
	// out of the result without aborting its siblings.
	uploaded := []string{}
	for _, fh := range fhs {
		if strings.TrimSpace(fh.Filename) == "" {
			continue
		}
		src, err := fh.Open()
		if err != nil {
			logrus.WithError(err).WithField("file", fh.Filename).Warn("opening upload part failed")
			continue
		}
		name, err := s.folder.Save(fh.Filename, src)
		_ = src.Close()
		if err != nil {
			logrus.WithError(err).WithField("file", fh.Filename).Warn("storing upload failed")
			continue
		}
		logrus.WithFields(logrus.Fields{"file": name, "size": fh.Size}).Info("file uploaded")
		uploaded = append(uploaded, name)
	}
	writeJSON(w, http.StatusOK, map[string]any{"uploaded": uploaded})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}
	abs, err := s.sanitize(name)
	if err != nil {
		writePathError(w, err)
		return
	}
	st, err := os.Stat(abs)
	if err != nil {
		writePathError(w, err)
		return
	}

	rng := stream.ParseRange(r.Header.Get("Range"), st.Size())
	str, err := stream.Open(abs, rng, s.cfg.ChunkSizeBytes)
	if err != nil {
		http.Error(w, "open failed", http.StatusInternalServerError)
		return
	}
	defer str.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+rfc5987(name))
	w.Header().Set("Content-Length", strconv.FormatInt(rng.Length(), 10))
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.Start, rng.End, st.Size()))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Cache-Control", "no-cache")
	if rng.Partial {
		w.WriteHeader(http.StatusPartialContent)
	}

	flusher, _ := w.(http.Flusher)
	ctx := r.Context()
	for {
		if ctx.Err() != nil {
			logrus.WithField("file", name).Debug("download aborted by client")
			return
		}
		chunk, err := str.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			// No retry mid-stream: the client detects the byte-count mismatch
			// and resumes with a fresh Range request.
			logrus.WithError(err).WithField("file", name).Warn("read failed mid-download")
			return
		}
		if _, err := w.Write(chunk); err != nil {
			logrus.WithField("file", name).Debug("download aborted by client")
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// rfc5987 encodes a filename for the Content-Disposition filename* parameter,
// percent-encoding every byte outside the RFC 5987 attr-char set.
func rfc5987(s string) string {
	const attrChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz" +
		"0123456789!#$&+-.^_`|~"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(attrChars, c) >= 0 {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	if s.shareURL == "" {
		http.NotFound(w, r)
		return
	}
	png, err := qrcode.Encode(s.shareURL, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "qr failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(png)
}

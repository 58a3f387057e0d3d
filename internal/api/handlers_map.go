package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/bookmap/internal/parser"
	"github.com/dgallion1/bookmap/internal/pipeline"
	"github.com/dgallion1/bookmap/internal/report"
)

// upload is a document received as the multipart "file" field.
type upload struct {
	filename string
	docID    string
	data     []byte
}

// readUpload reads and validates the uploaded file. It writes the error
// response itself and returns false when the request cannot proceed.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return upload{}, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return upload{}, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return upload{}, false
	}

	return upload{
		filename: filename,
		docID:    pipeline.ContentHashHex(data)[:16],
		data:     data,
	}, true
}

func (s *Server) openUpload(w http.ResponseWriter, up upload) (parser.Document, bool) {
	doc, err := parser.OpenReader(bytes.NewReader(up.data), up.filename, s.runner.ParserOptions())
	if err != nil {
		s.log.Warn("parse failed", "doc_id", up.docID, "filename", up.filename, "error", err)
		jsonError(w, "failed to parse document: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return doc, true
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	doc, ok := s.openUpload(w, up)
	if !ok {
		return
	}
	defer doc.Close()

	bm := s.runner.MapDocument(doc, s.log.With("doc_id", up.docID, "filename", up.filename))

	w.Header().Set("Content-Type", report.ContentType(format))
	w.Header().Set("X-Document-ID", up.docID)
	if err := report.Encode(w, bm, format); err != nil {
		s.log.Error("encode book map", "doc_id", up.docID, "error", err)
	}
}

func (s *Server) handleChapters(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	doc, ok := s.openUpload(w, up)
	if !ok {
		return
	}
	defer doc.Close()

	res, err := s.runner.LocateDocument(doc, s.log.With("doc_id", up.docID, "filename", up.filename))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":      up.docID,
		"filename":    up.filename,
		"total_pages": res.TotalPages,
		"chapters":    res.Matches,
		"split_pages": res.SplitPages(),
		"missing":     res.Missing(),
		"total_found": len(res.Matches),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}

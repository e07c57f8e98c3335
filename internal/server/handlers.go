package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bilal790042/Document-QA-System/internal/domain"
)

// acceptedExtensions mirrors the upload contract: anything else is
// rejected per file with a warning, not a request-level failure.
var acceptedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".docx": true,
	".doc":  true,
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer   string          `json:"answer"`
	Sources  []domain.Source `json:"sources"`
	Question string          `json:"question"`
}

type uploadResponse struct {
	Message        string   `json:"message"`
	FilesProcessed int      `json:"files_processed"`
	Filenames      []string `json:"filenames"`
	Warnings       []string `json:"warnings,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Document QA Service",
		"endpoints": map[string]string{
			"health": "/api/health/",
			"ask":    "/api/ask/ (POST)",
			"upload": "/api/upload/ (POST)",
			"stats":  "/api/stats/",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.svc == nil {
		s.writeError(w, http.StatusServiceUnavailable, "QA service not initialized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "ready"})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.svc == nil {
		s.writeError(w, http.StatusServiceUnavailable, "QA service not initialized")
		return
	}
	var req askRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := s.svc.Ask(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuestion) {
			s.writeError(w, http.StatusBadRequest, "Question cannot be empty")
			return
		}
		s.logger.Error("ask failed", "error", err)
		s.writeError(w, statusFor(err), "Error processing question")
		return
	}

	sources := answer.Sources
	if sources == nil {
		sources = []domain.Source{}
	}
	writeJSON(w, http.StatusOK, askResponse{
		Answer:   answer.Text,
		Sources:  sources,
		Question: req.Question,
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.svc == nil {
		s.writeError(w, http.StatusServiceUnavailable, "QA service not initialized")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.writeError(w, http.StatusBadRequest, "No files provided")
		return
	}

	tempDir, err := os.MkdirTemp("", "docqa-upload-")
	if err != nil {
		s.logger.Error("temp dir creation failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Error processing files")
		return
	}
	defer os.RemoveAll(tempDir)

	var paths []string
	var warnings []string
	for _, fh := range files {
		name := filepath.Base(fh.Filename)
		if !acceptedExtensions[strings.ToLower(filepath.Ext(name))] {
			warnings = append(warnings, name+": Unsupported file type")
			continue
		}
		path, err := saveUpload(fh, tempDir, name)
		if err != nil {
			s.logger.Warn("upload save failed", "file", name, "error", err)
			warnings = append(warnings, name+": could not save upload")
			continue
		}
		paths = append(paths, path)
	}

	report, err := s.svc.IngestFiles(r.Context(), paths)
	if err != nil {
		s.logger.Error("ingest failed", "error", err)
		s.writeError(w, statusFor(err), "Error processing files")
		return
	}
	warnings = append(warnings, report.Warnings...)

	if len(report.Processed) == 0 {
		s.writeError(w, http.StatusBadRequest,
			"No files were processed successfully. Errors: "+strings.Join(warnings, "; "))
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		Message:        "Files processed successfully",
		FilesProcessed: len(report.Processed),
		Filenames:      report.Processed,
		Warnings:       warnings,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ready := s.svc != nil
	var indexed int
	if ready {
		stats, err := s.svc.Stats(r.Context())
		if err != nil {
			s.logger.Error("stats failed", "error", err)
			s.writeError(w, statusFor(err), "Error reading stats")
			return
		}
		indexed = stats.ChunksIndexed
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "operational",
		"version":           Version,
		"features":          []string{"qa", "file_upload"},
		"supported_formats": []string{"txt", "pdf", "docx"},
		"documents_indexed": indexed,
		"qa_service_ready":  ready,
	})
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func saveUpload(fh *multipart.FileHeader, dir, name string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

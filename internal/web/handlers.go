package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/table"
)

// maxJSONBody bounds /update-groups payloads.
const maxJSONBody = 1 << 20

// uploadResponse is the body of a successful upload.
type uploadResponse struct {
	Success bool `json:"success"`
	core.DatasetInfo
}

// updateGroupsResponse is the body of a successful group update.
type updateGroupsResponse struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload replaces the dataset with the file in the "file" form part.
// A request without a usable file is rejected before the store is touched.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		if isTooLarge(err) {
			respondError(w, r, err, http.StatusRequestEntityTooLarge)
			return
		}
		logging.FromContext(r.Context()).Warn("upload without multipart body", "error", err)
		http.Error(w, "No file part", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if _, ok := r.MultipartForm.Value["file"]; ok {
			http.Error(w, "No selected file", http.StatusBadRequest)
			return
		}
		http.Error(w, "No file part", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		http.Error(w, "No selected file", http.StatusBadRequest)
		return
	}

	ctx := core.ContextWithClient(r.Context(), clientIP(r), r.UserAgent())
	info, err := s.service.Upload(ctx, header.Filename, file)
	if err != nil {
		respondError(w, r, err, uploadStatus(err))
		return
	}

	writeJSON(w, r, http.StatusOK, uploadResponse{Success: true, DatasetInfo: *info})
}

// uploadStatus picks the response status for a failed upload.
func uploadStatus(err error) int {
	switch {
	case errors.Is(err, table.ErrEmptyFile), errors.Is(err, table.ErrMalformedFile):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrTooManyUploads):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case isTooLarge(err):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

func (s *Server) handleUploadStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.service.UploadLimiterStatus())
}

// handleUsers lists rows matching the search and department query
// parameters. The response is always a JSON array.
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, r, http.StatusOK, s.service.Search(q.Get("search"), q.Get("department")))
}

// handleUpdateGroups applies a bulk group edit.
func (s *Server) handleUpdateGroups(w http.ResponseWriter, r *http.Request) {
	var req core.GroupUpdate
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(&req); err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", core.ErrInvalidRequest, err), http.StatusBadRequest)
		return
	}

	updated, err := s.service.UpdateGroups(req)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	logging.FromContext(r.Context()).Info("groups updated",
		"users", len(req.UserIDs),
		"rows", updated,
		"added", len(req.GroupsToAdd),
		"removed", len(req.GroupsToRemove),
	)
	writeJSON(w, r, http.StatusOK, updateGroupsResponse{Message: "Groups updated successfully", Updated: updated})
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.service.ListGroups())
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.service.Dataset())
}

// handleExport downloads the current dataset. The optional format query
// parameter overrides the format of the uploaded file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var format table.Format
	if raw := r.URL.Query().Get("format"); raw != "" {
		f, err := table.ParseFormat(raw)
		if err != nil {
			respondError(w, r, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, raw), http.StatusBadRequest)
			return
		}
		format = f
	}

	// Serialize fully before writing headers so a failure can still be
	// reported with a proper status.
	var buf bytes.Buffer
	result, err := s.service.Export(&buf, format)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrUnsupportedFormat) {
			status = http.StatusBadRequest
		}
		respondError(w, r, err, status)
		return
	}

	logging.FromContext(r.Context()).Info("export",
		"format", result.Format,
		"rows", result.Rows,
		"bytes", buf.Len(),
	)

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Error("export write failed", "error", err)
	}
}

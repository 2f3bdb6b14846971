package server

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/stevebcampbell/vsdx-extraction/internal/chart"
	"github.com/stevebcampbell/vsdx-extraction/internal/vsdx"
)

// extractRequest is the body of POST /api/v1/extract. OutputDir is optional; when
// empty the extraction lands under the configured root in a per-file directory.
type extractRequest struct {
	InputPath string `json:"input_path"`
	OutputDir string `json:"output_dir,omitempty"`
}

// extractResponse pairs the extraction result with its computed summary.
type extractResponse struct {
	Result  *vsdx.Result `json:"result"`
	Summary vsdx.Summary `json:"summary"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InputPath == "" {
		s.respondError(w, http.StatusBadRequest, "input_path is required")
		return
	}
	outputDir := req.OutputDir
	if outputDir == "" {
		base := strings.TrimSuffix(filepath.Base(req.InputPath), filepath.Ext(req.InputPath))
		outputDir = filepath.Join(s.extractCfg.OutputDir, base+"_extracted")
	}
	s.logger.Debug("extract request", zap.String("input", req.InputPath), zap.String("output", outputDir))

	result := s.extractor.Extract(req.InputPath, outputDir)
	if s.history != nil {
		if _, err := s.history.Add(r.Context(), req.InputPath, result); err != nil {
			s.logger.Warn("failed to record extraction history", zap.Error(err))
		}
	}
	s.mu.Lock()
	s.last = result
	s.mu.Unlock()

	status := http.StatusOK
	if !result.Success {
		s.logger.Warn("extraction failed", zap.String("input", req.InputPath), zap.String("error", result.Error))
		status = http.StatusUnprocessableEntity
	}
	s.respondJSON(w, status, extractResponse{Result: result, Summary: vsdx.Summarize(result)})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		s.respondError(w, http.StatusNotImplemented, "AI analysis is not configured")
		return
	}
	result := s.lastResult()
	if result == nil {
		s.respondError(w, http.StatusNotFound, "no extraction to analyze; run an extraction first")
		return
	}
	if !result.Success {
		// A failed extraction is never handed to the AI collaborator.
		s.respondError(w, http.StatusConflict, "last extraction failed: "+result.Error)
		return
	}
	analysis, err := s.analyzer.AnalyzeExtraction(r.Context(), result, vsdx.Summarize(result))
	if err != nil {
		s.logger.Error("analysis failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	result := s.lastResult()
	if result == nil {
		s.respondError(w, http.StatusNotFound, "no extraction to chart; run an extraction first")
		return
	}
	if !result.Success {
		s.respondError(w, http.StatusConflict, "last extraction failed: "+result.Error)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(chart.Render(result.Pages))
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.respondError(w, http.StatusNotImplemented, "history is not configured")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	records, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("history list failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.respondError(w, http.StatusNotImplemented, "history is not configured")
		return
	}
	id := chi.URLParam(r, "id")
	rec, err := s.history.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "record not found")
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) lastResult() *vsdx.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/logger"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	compileFailureMessage    = "LaTeX compilation failed. The LaTeX code may contain errors. Please download the .tex file and compile it locally, or check for special characters that need escaping."
	compileFailureSuggestion = "You can download the .tex file and compile it using Overleaf (overleaf.com) or a local LaTeX installation. The LaTeX code has been generated and is available for download."
)

// GenerateLatexResponse is returned by /api/generate-latex
type GenerateLatexResponse struct {
	LaTeX string `json:"latex"`
}

// CompileRequest is the body of /api/compile-pdf
type CompileRequest struct {
	LaTeX string `json:"latex"`
}

// CompileFailureResponse tells the client compilation failed and the
// source can still be compiled elsewhere
type CompileFailureResponse struct {
	Error       string `json:"error"`
	Details     string `json:"details"`
	Suggestion  string `json:"suggestion"`
	LatexLength int    `json:"latexLength"`
}

// KeywordsRequest is the body of /api/ai/extract-keywords
type KeywordsRequest struct {
	JobDescription string `json:"jobDescription"`
}

// handleGenerateLatex renders a record to LaTeX source
func (s *Server) handleGenerateLatex(w http.ResponseWriter, r *http.Request) {
	var record types.ResumeRecord
	if err := s.decodeJSON(w, r, &record); err != nil {
		s.failure(w, r, err, "")
		return
	}

	if strings.TrimSpace(record.PersonalInfo.FullName) == "" {
		s.errorResponse(w, http.StatusBadRequest, "Personal information is required")
		return
	}
	if err := record.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid record: "+err.Error())
		return
	}

	latex, err := rendering.Render(&record, s.layout)
	if err != nil {
		s.failure(w, r, err, "Failed to generate LaTeX code. Please check your input.")
		return
	}

	s.jsonResponse(w, http.StatusOK, GenerateLatexResponse{LaTeX: latex})
}

// handleCompilePDF compiles LaTeX source to a PDF
func (s *Server) handleCompilePDF(w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err, "")
		return
	}
	if strings.TrimSpace(req.LaTeX) == "" {
		s.errorResponse(w, http.StatusBadRequest, "LaTeX code is required")
		return
	}
	if s.compiler == nil {
		s.failure(w, r, &ErrNotConfigured{Feature: "PDF compilation"}, "")
		return
	}

	artifact, err := s.compiler.Compile(r.Context(), req.LaTeX)
	if err != nil {
		logger.Ctx(r.Context()).Warn().
			Err(err).
			Str("compiler", s.compiler.Name()).
			Int("latex_length", len(req.LaTeX)).
			Msg("LaTeX compilation failed")
		s.jsonResponse(w, http.StatusUnprocessableEntity, CompileFailureResponse{
			Error:       compileFailureMessage,
			Details:     err.Error(),
			Suggestion:  compileFailureSuggestion,
			LatexLength: len(req.LaTeX),
		})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=resume.pdf")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.PDF)))
	if artifact.Pages > 0 {
		w.Header().Set("X-PDF-Pages", strconv.Itoa(artifact.Pages))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.PDF); err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("writing PDF response failed")
	}
}

// handleGenerateSummary drafts a professional summary
func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req llm.SummaryRequest
	if !s.prepareGeneration(w, r, &req) {
		return
	}

	summary, err := s.generator.GenerateSummary(r.Context(), req)
	if err != nil {
		s.failure(w, r, err, "Failed to generate summary. Please try again.")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"summary": summary})
}

// handleGenerateBullets drafts bullet points for a position
func (s *Server) handleGenerateBullets(w http.ResponseWriter, r *http.Request) {
	var req llm.BulletsRequest
	if !s.prepareGeneration(w, r, &req) {
		return
	}

	bullets, err := s.generator.GenerateBullets(r.Context(), req)
	if err != nil {
		s.failure(w, r, err, "Failed to generate bullet points. Please try again.")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string][]string{"bulletPoints": bullets})
}

// handleGenerateProjectBullets drafts bullet points for a project
func (s *Server) handleGenerateProjectBullets(w http.ResponseWriter, r *http.Request) {
	var req llm.ProjectBulletsRequest
	if !s.prepareGeneration(w, r, &req) {
		return
	}

	bullets, err := s.generator.GenerateProjectBullets(r.Context(), req)
	if err != nil {
		s.failure(w, r, err, "Failed to generate project bullet points. Please try again.")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string][]string{"bulletPoints": bullets})
}

// handleExtractKeywords lists ATS keywords from a job description
func (s *Server) handleExtractKeywords(w http.ResponseWriter, r *http.Request) {
	var req KeywordsRequest
	if !s.prepareGeneration(w, r, &req) {
		return
	}

	keywords, err := s.generator.ExtractKeywords(r.Context(), req.JobDescription)
	if err != nil {
		s.failure(w, r, err, "Failed to extract keywords. Please try again.")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string][]string{"keywords": keywords})
}

// prepareGeneration checks a generator is configured and decodes the body.
// It writes the error response and returns false on failure.
func (s *Server) prepareGeneration(w http.ResponseWriter, r *http.Request, req any) bool {
	if s.generator == nil {
		s.failure(w, r, &ErrNotConfigured{Feature: "text generation"}, "")
		return false
	}
	if err := s.decodeJSON(w, r, req); err != nil {
		s.failure(w, r, err, "")
		return false
	}
	return true
}

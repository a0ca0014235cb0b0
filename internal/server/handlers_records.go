package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/form"
	"github.com/jonathan/resume-builder/internal/logger"
	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/types"
)

// Patch actions applied after the patch itself
const (
	ActionNone = ""
	ActionNext = "next"
	ActionPrev = "prev"
	ActionGoto = "goto"
)

// PatchRequest is the body of /api/records/patch
type PatchRequest struct {
	State  *form.State `json:"state,omitempty"` // nil starts a new form
	Patch  form.Patch  `json:"patch"`
	Action string      `json:"action,omitempty"`
	Step   string      `json:"step,omitempty"` // target for goto
}

// PatchResponse carries the new form state
type PatchResponse struct {
	State      form.State `json:"state"`
	CanAdvance bool       `json:"canAdvance"`
	Progress   float64    `json:"progress"`
}

// EnhanceRequest is the body of /api/records/enhance
type EnhanceRequest struct {
	Record  *types.ResumeRecord `json:"record"`
	Options *EnhanceSelection   `json:"options,omitempty"` // nil fills everything
}

// EnhanceSelection picks what enhancement fills
type EnhanceSelection struct {
	Summary        bool `json:"summary"`
	Keywords       bool `json:"keywords"`
	Bullets        bool `json:"bullets"`
	ProjectBullets bool `json:"projectBullets"`
}

// EnhanceResponse carries the enhanced record and what happened
type EnhanceResponse struct {
	Record *types.ResumeRecord      `json:"record"`
	Events []pipeline.ProgressEvent `json:"events"`
}

// handlePatchRecord applies a section patch and optional navigation to a form state
func (s *Server) handlePatchRecord(w http.ResponseWriter, r *http.Request) {
	var req PatchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err, "")
		return
	}

	if req.Patch.IsEmpty() && req.Action == ActionNone {
		s.failure(w, r, &ErrValidation{Field: "patch", Message: "patch or action is required"}, "")
		return
	}

	state := form.NewState()
	if req.State != nil {
		state = *req.State
	}
	state = state.Apply(req.Patch)

	switch req.Action {
	case ActionNone:
	case ActionNext:
		if !state.CanAdvance() {
			s.failure(w, r, &ErrValidation{Field: "state", Message: "current step is incomplete"}, "")
			return
		}
		state = state.Next()
	case ActionPrev:
		state = state.Prev()
	case ActionGoto:
		step, err := form.ParseStep(req.Step)
		if err != nil {
			s.failure(w, r, &ErrValidation{Field: "step", Message: err.Error()}, "")
			return
		}
		if state, err = state.Goto(step); err != nil {
			s.failure(w, r, &ErrValidation{Field: "step", Message: err.Error()}, "")
			return
		}
	default:
		s.failure(w, r, &ErrValidation{Field: "action", Message: "unknown action " + req.Action}, "")
		return
	}

	s.jsonResponse(w, http.StatusOK, PatchResponse{
		State:      state,
		CanAdvance: state.CanAdvance(),
		Progress:   state.Progress(),
	})
}

// enhanceOptions converts a request into pipeline options
func (s *Server) enhanceOptions(req EnhanceRequest) pipeline.EnhanceOptions {
	opts := pipeline.DefaultEnhanceOptions()
	if s.concurrency > 0 {
		opts.Concurrency = s.concurrency
	}
	if req.Options != nil {
		opts.Summary = req.Options.Summary
		opts.Keywords = req.Options.Keywords
		opts.Bullets = req.Options.Bullets
		opts.ProjectBullets = req.Options.ProjectBullets
	}
	return opts
}

// decodeEnhance reads and checks an enhance request.
// It writes the error response and returns false on failure.
func (s *Server) decodeEnhance(w http.ResponseWriter, r *http.Request) (EnhanceRequest, bool) {
	var req EnhanceRequest
	if !s.prepareGeneration(w, r, &req) {
		return req, false
	}
	if req.Record == nil {
		s.failure(w, r, &ErrValidation{Field: "record", Message: "is required"}, "")
		return req, false
	}
	if err := req.Record.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid record: "+err.Error())
		return req, false
	}
	return req, true
}

// handleEnhanceRecord fills missing summary, keywords and bullets
func (s *Server) handleEnhanceRecord(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeEnhance(w, r)
	if !ok {
		return
	}

	events := []pipeline.ProgressEvent{}
	opts := s.enhanceOptions(req)
	opts.OnProgress = func(event pipeline.ProgressEvent) {
		events = append(events, event)
	}

	enhanced, err := pipeline.Enhance(r.Context(), s.generator, req.Record, opts)
	if err != nil {
		s.failure(w, r, err, "Failed to enhance record. Please try again.")
		return
	}

	s.jsonResponse(w, http.StatusOK, EnhanceResponse{Record: enhanced, Events: events})
}

// handleEnhanceRecordStream is handleEnhanceRecord with progress sent as server-sent events
func (s *Server) handleEnhanceRecordStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeEnhance(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts := s.enhanceOptions(req)
	opts.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", event); err != nil {
			logger.Ctx(r.Context()).Debug().Err(err).Msg("client went away")
		}
	}

	enhanced, err := pipeline.Enhance(r.Context(), s.generator, req.Record, opts)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	sse.WriteComplete(enhanced)
}

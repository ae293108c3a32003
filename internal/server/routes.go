package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/masterypath/internal/decay"
	"github.com/abhisek/masterypath/internal/mastery"
	"github.com/abhisek/masterypath/internal/skillgraph"
)

type practiceRequest struct {
	NodeID     int64   `json:"node_id"`
	Success    *bool   `json:"success"`
	ErrorKind  *string `json:"error_kind"`
	DurationMs *int    `json:"duration_ms"`
}

// outcome validates the request body. An error kind sent with a success is
// ignored.
func (req practiceRequest) outcome(userID string) (mastery.Outcome, error) {
	if req.NodeID <= 0 {
		return mastery.Outcome{}, errors.New("node_id must be a positive integer")
	}
	if req.Success == nil {
		return mastery.Outcome{}, errors.New("success required")
	}
	if req.DurationMs != nil && *req.DurationMs < 0 {
		return mastery.Outcome{}, errors.New("duration_ms must not be negative")
	}

	out := mastery.Outcome{
		UserID:     userID,
		NodeID:     skillgraph.NodeID(req.NodeID),
		Success:    *req.Success,
		DurationMs: req.DurationMs,
	}
	if !out.Success && req.ErrorKind != nil && *req.ErrorKind != "" {
		k, err := mastery.ParseErrorKind(*req.ErrorKind)
		if err != nil {
			return mastery.Outcome{}, err
		}
		out.ErrorKind = &k
	}
	return out, nil
}

func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req practiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	in, err := req.outcome(userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.app.Tracker.RecordOutcome(r.Context(), in)
	if err != nil {
		if errors.Is(err, mastery.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.app.Progress.Tree(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit")
	if !ok {
		return
	}
	items, err := s.app.Progress.ReviewQueue(r.Context(), chi.URLParam(r, "userID"), limit)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.app.Progress.Stats(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rangeDays, ok := intParam(w, r, "range")
	if !ok {
		return
	}
	if rangeDays == 0 {
		rangeDays = 30
	}
	sum, err := s.app.Progress.Summary(r.Context(), chi.URLParam(r, "userID"), rangeDays)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	hm, err := s.app.Progress.Heatmap(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hm)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit")
	if !ok {
		return
	}
	var nodeID skillgraph.NodeID
	if v := r.URL.Query().Get("node_id"); v != "" {
		id, err := skillgraph.ParseNodeID(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		nodeID = id
	}

	events, err := s.app.Progress.History(r.Context(), chi.URLParam(r, "userID"), nodeID, limit)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cats, err := s.app.Store.Categories(ctx)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	g, err := s.app.Store.LoadGraph(ctx)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": cats,
		"nodes":      g.Nodes(),
		"edges":      g.Edges(),
	})
}

func (s *Server) handleDecayRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.app.Decay.RunPass(r.Context())
	if err != nil {
		if errors.Is(err, decay.ErrPassInProgress) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// intParam reads an optional non-negative integer query parameter. It
// writes a 400 and returns false when the value is malformed.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}

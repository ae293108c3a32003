package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/masterypath/internal/skillgraph"
)

type createPathRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	NodeIDs     []int64 `json:"node_ids"`
}

func (s *Server) handleListPaths(w http.ResponseWriter, r *http.Request) {
	paths, err := s.app.Store.ListPaths(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paths": paths})
}

func (s *Server) handleCreatePath(w http.ResponseWriter, r *http.Request) {
	var req createPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ids := make([]skillgraph.NodeID, len(req.NodeIDs))
	for i, id := range req.NodeIDs {
		ids[i] = skillgraph.NodeID(id)
	}

	p, err := s.app.Store.CreatePath(r.Context(), req.Name, req.Description, ids)
	if err != nil {
		if errors.Is(err, skillgraph.ErrNodeNotFound) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}
	s.logger.Info("path created", "path_id", p.ID, "name", p.Name, "nodes", len(p.NodeIDs))
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetPath(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r)
	if !ok {
		return
	}
	p, err := s.app.Store.GetPath(r.Context(), id)
	if err != nil {
		s.pathError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePathTree(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r)
	if !ok {
		return
	}
	tree, err := s.app.Progress.PathTree(r.Context(), chi.URLParam(r, "userID"), id)
	if err != nil {
		s.pathError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handlePathReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r)
	if !ok {
		return
	}
	limit, ok := intParam(w, r, "limit")
	if !ok {
		return
	}
	items, err := s.app.Progress.PathReviewQueue(r.Context(), chi.URLParam(r, "userID"), id, limit)
	if err != nil {
		s.pathError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handlePathStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r)
	if !ok {
		return
	}
	st, err := s.app.Progress.PathStats(r.Context(), chi.URLParam(r, "userID"), id)
	if err != nil {
		s.pathError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleProblems(w http.ResponseWriter, r *http.Request) {
	nodeID, err := skillgraph.ParseNodeID(chi.URLParam(r, "nodeID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid node id")
		return
	}
	ctx := r.Context()
	if _, err := s.app.Store.GetNode(ctx, nodeID); err != nil {
		if errors.Is(err, skillgraph.ErrNodeNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}
	problems, err := s.app.Store.ListProblems(ctx, nodeID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"problems": problems})
}

// pathError maps an unknown path to 404 and anything else to 500.
func (s *Server) pathError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, skillgraph.ErrPathNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.internalError(w, r, err)
}

func pathParam(w http.ResponseWriter, r *http.Request) (skillgraph.PathID, bool) {
	id, err := skillgraph.ParsePathID(chi.URLParam(r, "pathID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid path id")
		return 0, false
	}
	return id, true
}

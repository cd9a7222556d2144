/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package server

import (
	"fmt"
	"net/http"

	"github.com/gts-io/gts/gts"
)

func entityView(e *gts.Entity) map[string]any {
	id := e.RawID
	if e.ID != nil {
		id = e.ID.String()
	}
	return map[string]any{
		"id":        id,
		"is_schema": e.IsSchema,
		"anonymous": e.Anonymous,
		"schema_id": e.SchemaID,
		"source":    e.Source,
		"document":  e.Document,
	}
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	limit := s.queryParamInt(r, "limit", 100)
	if limit < 1 {
		limit = 1
	}
	if limit > 1000 {
		limit = 1000
	}

	ids := s.store.SortedIDs()
	views := make([]map[string]any, 0, limit)
	for _, id := range ids {
		if len(views) >= limit {
			break
		}
		views = append(views, entityView(s.store.Get(id)))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"count": len(views), "limit": limit, "results": views})
}

func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	entity := s.store.Get(id)
	if entity == nil {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("entity not found: %s", id))
		return
	}
	s.writeJSON(w, http.StatusOK, entityView(entity))
}

func (s *Server) handleValidateID(w http.ResponseWriter, r *http.Request) {
	id := s.queryParam(r, "id")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "missing id parameter")
		return
	}
	parsed, err := gts.Parse(id)
	if err != nil {
		s.writeJSON(w, http.StatusOK, map[string]any{"valid": false, "error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"valid": true, "is_schema": parsed.IsSchema(), "uuid": parsed.ToUUID().String()})
}

func (s *Server) handleParseID(w http.ResponseWriter, r *http.Request) {
	id := s.queryParam(r, "id")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "missing id parameter")
		return
	}
	parsed, err := gts.Parse(id)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, parsed)
}

func (s *Server) handleMatchPattern(w http.ResponseWriter, r *http.Request) {
	candidate := s.queryParam(r, "candidate")
	pattern := s.queryParam(r, "pattern")
	if candidate == "" || pattern == "" {
		s.writeError(w, http.StatusBadRequest, "missing candidate or pattern parameter")
		return
	}
	ok, err := gts.WildcardMatch(candidate, pattern)
	if err != nil {
		s.writeJSON(w, http.StatusOK, map[string]any{"match": false, "error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"match": ok})
}

func (s *Server) handleUUID(w http.ResponseWriter, r *http.Request) {
	id := s.queryParam(r, "id")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "missing id parameter")
		return
	}
	parsed, err := gts.Parse(id)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"id": id, "uuid": parsed.ToUUID().String()})
}

func (s *Server) handleValidateInstance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InstanceID string `json:"instance_id"`
	}
	if err := s.readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if s.validator == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no validator configured")
		return
	}
	if err := s.store.ValidateInstance(req.InstanceID, s.validator); err != nil {
		s.writeJSON(w, http.StatusOK, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	id := s.queryParam(r, "id")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "missing id parameter")
		return
	}
	graph, err := s.store.BuildSchemaGraph(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, graph)
}

func (s *Server) handleCompatibility(w http.ResponseWriter, r *http.Request) {
	from := s.queryParam(r, "from")
	to := s.queryParam(r, "to")
	if from == "" || to == "" {
		s.writeError(w, http.StatusBadRequest, "missing from or to parameter")
		return
	}
	report, err := s.store.CheckCompatibility(from, to)
	if err != nil {
		s.writeJSON(w, http.StatusOK, map[string]any{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleCast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InstanceID string `json:"instance_id"`
		ToSchemaID string `json:"to_schema_id"`
	}
	if err := s.readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	result, err := s.store.Cast(req.InstanceID, req.ToSchemaID)
	if err != nil {
		s.writeJSON(w, http.StatusOK, map[string]any{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	expr := s.queryParam(r, "expr")
	if expr == "" {
		s.writeError(w, http.StatusBadRequest, "missing expr parameter")
		return
	}
	limit := s.queryParamInt(r, "limit", 100)
	matches, err := s.store.Query(expr, limit)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views := make([]map[string]any, 0, len(matches))
	for _, e := range matches {
		views = append(views, entityView(e))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"count": len(views), "results": views})
}

func (s *Server) handleAttribute(w http.ResponseWriter, r *http.Request) {
	id := s.queryParam(r, "id")
	path := s.queryParam(r, "path")
	if id == "" || path == "" {
		s.writeError(w, http.StatusBadRequest, "missing id or path parameter")
		return
	}
	entity := s.store.Get(id)
	if entity == nil {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("entity not found: %s", id))
		return
	}
	res := entity.ResolvePath(path)
	if res.Err != nil {
		s.writeJSON(w, http.StatusOK, map[string]any{"resolved": false, "error": res.Err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"resolved": res.Resolved, "value": res.Value})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"duplicates":        s.store.Duplicates(),
		"broken_references": s.store.BrokenReferences(),
		"entity_count":      s.store.Count(),
	})
}

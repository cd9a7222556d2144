/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

// Package server exposes a loaded gts.Store as a read-only HTTP API. The
// store is immutable once loaded (spec §5 "Concurrency & resource model"),
// so unlike a typical CRUD service this server never registers or mutates
// entities — it only answers queries against the snapshot it started with.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gts-io/gts/gts"
)

// Server is the GTS read-only HTTP server.
type Server struct {
	store     *gts.Store
	validator gts.Validator
	host      string
	port      int
	verbose   int
	mux       *http.ServeMux
}

// NewServer wraps store behind an HTTP API bound to host:port.
func NewServer(store *gts.Store, validator gts.Validator, host string, port int, verbose int) *Server {
	s := &Server{
		store:     store,
		validator: validator,
		host:      host,
		port:      port,
		verbose:   verbose,
		mux:       http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /entities", s.handleListEntities)
	s.mux.HandleFunc("GET /entities/{id}", s.handleGetEntity)
	s.mux.HandleFunc("GET /validate-id", s.handleValidateID)
	s.mux.HandleFunc("GET /parse-id", s.handleParseID)
	s.mux.HandleFunc("GET /match-pattern", s.handleMatchPattern)
	s.mux.HandleFunc("GET /uuid", s.handleUUID)
	s.mux.HandleFunc("POST /validate-instance", s.handleValidateInstance)
	s.mux.HandleFunc("GET /graph", s.handleGraph)
	s.mux.HandleFunc("GET /compatibility", s.handleCompatibility)
	s.mux.HandleFunc("POST /cast", s.handleCast)
	s.mux.HandleFunc("GET /query", s.handleQuery)
	s.mux.HandleFunc("GET /attr", s.handleAttribute)
	s.mux.HandleFunc("GET /diagnostics", s.handleDiagnostics)
}

// Start blocks serving HTTP traffic until the process is terminated.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	log.Printf("gts: serving store of %d entities on http://%s", s.store.Count(), addr)
	return http.ListenAndServe(addr, s.withLogging(s.mux))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("gts: error encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) queryParam(r *http.Request, key string) string {
	return r.URL.Query().Get(key)
}

func (s *Server) queryParamInt(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

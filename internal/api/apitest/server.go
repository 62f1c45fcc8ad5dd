// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest runs a fake listings backend for tests.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/propdash/propdash-cli/internal/api/dto"
	"github.com/propdash/propdash-cli/internal/models"
)

// Token is the only bearer token the fake backend accepts
const Token = "pd_test_token_0123456789"

// Request is a request the server received
type Request struct {
	Method        string
	Path          string
	Body          string
	Authorization string
	RequestID     string
	UserAgent     string
}

type cannedResponse struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server

	mu              sync.Mutex
	listings        []models.RawListing
	requests        []Request
	statusOverride  *cannedResponse
	reviewsOverride *cannedResponse
	fetchFailures   int
}

// NewServer starts a backend serving listings. It is closed when t finishes.
func NewServer(t testing.TB, listings []models.RawListing) *Server {
	t.Helper()

	s := &Server{listings: append([]models.RawListing(nil), listings...)}

	r := mux.NewRouter()
	r.Use(s.record, s.authenticate)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/listings", s.handleListings).Methods(http.MethodGet)
	api.HandleFunc("/listings/status", s.handleStatus).Methods(http.MethodPatch)
	api.HandleFunc("/listings/reviews", s.handleReviews).Methods(http.MethodPatch)
	api.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// SetStatusResponse makes the status endpoint answer with status and body verbatim
func (s *Server) SetStatusResponse(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusOverride = &cannedResponse{status, body}
}

// SetReviewsResponse makes the reviews endpoint answer with status and body verbatim
func (s *Server) SetReviewsResponse(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviewsOverride = &cannedResponse{status, body}
}

// FailNextFetches answers the next n listing fetches with 503
func (s *Server) FailNextFetches(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchFailures = n
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the recorded requests for path
func (s *Server) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) Listings() []models.RawListing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.RawListing(nil), s.listings...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Body:          string(body),
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			UserAgent:     r.Header.Get("User-Agent"),
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"success": false,
				"code":    "INVALID_TOKEN",
				"message": "invalid session token",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.fetchFailures > 0 {
		s.fetchFailures--
		s.mu.Unlock()
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"success": false,
			"message": "listings temporarily unavailable",
		})
		return
	}
	listings := append([]models.RawListing(nil), s.listings...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    listings,
		"message": "",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	override := s.statusOverride
	s.mu.Unlock()
	if override != nil {
		writeRaw(w, override.status, override.body)
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"success": false,
			"code":    "VALIDATION_ERROR",
			"message": "ids are required",
		})
		return
	}

	var active bool
	switch req.Action {
	case "activate":
		active = true
	case "inactivate":
		active = false
	default:
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "unknown action " + req.Action,
		})
		return
	}

	n := s.apply(req.IDs, func(l *models.RawListing) { l.IsActive = active })
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]interface{}{"success": true, "updated": n},
		"message": "Listing status updated",
	})
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	override := s.reviewsOverride
	s.mu.Unlock()
	if override != nil {
		writeRaw(w, override.status, override.body)
		return
	}

	var req dto.UpdateReviewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"success": false,
			"code":    "VALIDATION_ERROR",
			"message": "ids are required",
		})
		return
	}

	n := s.apply(req.IDs, func(l *models.RawListing) { l.ReviewEnabled = req.EnableReviews })
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]interface{}{"success": true, "updated": n},
		"message": "Review settings updated",
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"id":    "usr_1",
			"email": "host@example.com",
			"name":  "Test Host",
			"role":  "owner",
		},
	})
}

func (s *Server) apply(ids []string, fn func(*models.RawListing)) int {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for i := range s.listings {
		if _, ok := want[s.listings[i].GetIDString()]; ok {
			fn(&s.listings[i])
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

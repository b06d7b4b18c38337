package handlers

import (
	"errors"
	"strconv"
	"time"

	"encoding/json"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campuscheers/cheerd/internal/app"
	"github.com/campuscheers/cheerd/internal/metrics"
	"github.com/campuscheers/cheerd/internal/models"
)

type PollHandler struct {
	service *app.Service
}

func NewPollHandler(service *app.Service) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
}

type submitRequest struct {
	ChosenOption   string `json:"chosen_option"`
	SelfieMediaRef string `json:"selfie_media_ref"`
}

func (h *PollHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Identity.CreateOrGet(req.Identifier)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			http.Error(w, "Invalid identifier", http.StatusBadRequest)
			return
		}
		logger.Error.Printf("Login failed: %v", err)
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(user); err != nil {
		logger.Error.Printf("Failed to encode user: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (h *PollHandler) HandleListSchools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusNotFound)
		return
	}

	schools, err := h.service.Store.ListSchools()
	if err != nil {
		logger.Error.Printf("Failed to list schools: %v", err)
		http.Error(w, "Failed to fetch schools", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"schools": schools,
	}); err != nil {
		logger.Error.Printf("Failed to encode schools: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (h *PollHandler) HandleTodaysPoll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusNotFound)
		return
	}

	schoolID := r.PathValue("school")
	if schoolID == "" {
		logger.Error.Printf("Failed to extract school from path: %s", r.URL.Path)
		http.Error(w, "Invalid school", http.StatusBadRequest)
		return
	}

	school, err := h.service.Store.GetSchool(schoolID)
	if err != nil {
		logger.Error.Printf("Failed to look up school %s: %v", schoolID, err)
		http.Error(w, "Failed to fetch poll", http.StatusInternalServerError)
		return
	}
	if school == nil {
		http.Error(w, "School not found", http.StatusNotFound)
		return
	}

	poll, err := h.service.Catalog.TodaysPoll(schoolID)
	if err != nil {
		logger.Error.Printf("Failed to fetch today's poll for %s: %v", schoolID, err)
		http.Error(w, "Failed to fetch poll", http.StatusInternalServerError)
		return
	}
	if poll == nil {
		http.Error(w, "No poll scheduled for today", http.StatusNotFound)
		return
	}

	status, err := h.service.Catalog.Status(poll, time.Now())
	if err != nil {
		logger.Error.Printf("Failed to derive poll status: %v", err)
		http.Error(w, "Failed to fetch poll", http.StatusInternalServerError)
		return
	}
	opens, closes, _ := h.service.Catalog.Window(poll)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"poll":             poll,
		"status":           status,
		"window_opens_at":  opens.Unix(),
		"window_closes_at": closes.Unix(),
	}); err != nil {
		logger.Error.Printf("Failed to encode poll: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (h *PollHandler) HandleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusCreated
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			strconv.Itoa(status),
		).Observe(duration)
	}()

	if r.Method != http.MethodPost {
		status = http.StatusMethodNotAllowed
		http.Error(w, "Method not allowed", status)
		return
	}

	if !h.service.ValidateHeaders(r.Header) {
		status = http.StatusForbidden
		http.Error(w, "these are not the droids you are looking for", status)
		return
	}

	pollID := r.PathValue("poll")
	if pollID == "" {
		status = http.StatusBadRequest
		http.Error(w, "Invalid poll", status)
		return
	}

	responder := r.Header.Get(h.service.Config.API.ResponderIDHeader)
	if responder == "" {
		status = http.StatusUnauthorized
		http.Error(w, "Invalid responder id specified", status)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = http.StatusBadRequest
		http.Error(w, "Invalid request body", status)
		return
	}

	resp, err := h.service.Ledger.Submit(pollID, responder, req.ChosenOption, req.SelfieMediaRef)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrPollNotFound):
			status = http.StatusNotFound
			http.Error(w, "Poll not found", status)
		case errors.Is(err, models.ErrInvalidOption), errors.Is(err, models.ErrValidation):
			status = http.StatusBadRequest
			http.Error(w, "Invalid option", status)
		case errors.Is(err, models.ErrDuplicateVote):
			status = http.StatusConflict
			http.Error(w, "Already voted in this poll", status)
		default:
			logger.Error.Printf("Failed to submit response: %v", err)
			status = http.StatusInternalServerError
			http.Error(w, "Failed to save response", status)
		}
		return
	}

	if poll, err := h.service.Store.GetPoll(pollID); err == nil && poll != nil {
		metrics.VotesTotal.WithLabelValues(poll.SchoolID, resp.ChosenOption).Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

func (h *PollHandler) HandleHasVoted(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusNotFound)
		return
	}

	pollID := r.PathValue("poll")
	responder := r.Header.Get(h.service.Config.API.ResponderIDHeader)
	if pollID == "" || responder == "" {
		http.Error(w, "Invalid poll or responder", http.StatusBadRequest)
		return
	}

	voted, err := h.service.Ledger.HasVoted(pollID, responder)
	if err != nil {
		logger.Error.Printf("Failed to check vote: %v", err)
		http.Error(w, "Failed to check vote", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"has_voted": voted,
	}); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (h *PollHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusNotFound)
		return
	}

	pollID := r.PathValue("poll")
	if pollID == "" {
		http.Error(w, "Invalid poll", http.StatusBadRequest)
		return
	}

	results, err := h.service.Tally.Results(pollID)
	if err != nil {
		if errors.Is(err, models.ErrPollNotFound) {
			http.Error(w, "Poll not found", http.StatusNotFound)
			return
		}
		logger.Error.Printf("Failed to compute results for %s: %v", pollID, err)
		http.Error(w, "Failed to compute results", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		logger.Error.Printf("Failed to encode results: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/outmind-app/outmind/internal/fault"
	"github.com/outmind-app/outmind/internal/model"
	"github.com/outmind-app/outmind/internal/realtime"
	"github.com/outmind-app/outmind/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const maxAge = 120

type ProfileHandler struct {
	profiles    *store.ProfileStore
	assignments *store.AssignmentStore
	hub         *realtime.Hub
	logger      *slog.Logger
}

func NewProfileHandler(profiles *store.ProfileStore, assignments *store.AssignmentStore, hub *realtime.Hub, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, assignments: assignments, hub: hub, logger: logger}
}

type profileRequest struct {
	Name           string  `json:"name"`
	Age            int     `json:"age"`
	ProfilePicture *string `json:"profile_picture"`
}

func (req *profileRequest) validate() (string, bool) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required", false
	}
	if req.Age < 0 || req.Age > maxAge {
		return "age is out of range", false
	}
	return "", true
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List()
	if err != nil {
		h.logger.Error("list profiles", "error", err)
		writeFailure(w, err)
		return
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	profile, err := h.profiles.Create(req.Name, req.Age, req.ProfilePicture)
	if err != nil {
		h.logger.Error("create profile", "error", err)
		writeFailure(w, err)
		return
	}

	h.hub.Notify("profile", "created", profile.ID)
	writeJSON(w, http.StatusCreated, profile)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	profile, err := h.profiles.GetByID(id)
	if err != nil {
		h.logger.Error("get profile", "id", id, "error", err)
		writeFailure(w, err)
		return
	}
	if profile == nil {
		writeFailure(w, fmt.Errorf("profile %d: %w", id, fault.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.profiles.GetByID(id)
	if err != nil {
		h.logger.Error("get profile", "id", id, "error", err)
		writeFailure(w, err)
		return
	}
	if existing == nil {
		writeFailure(w, fmt.Errorf("profile %d: %w", id, fault.ErrNotFound))
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	profile, err := h.profiles.Update(id, req.Name, req.Age, req.ProfilePicture)
	if err != nil {
		h.logger.Error("update profile", "id", id, "error", err)
		writeFailure(w, err)
		return
	}

	h.hub.Notify("profile", "updated", profile.ID)
	writeJSON(w, http.StatusOK, profile)
}

// Delete removes a profile. Its assignments are removed first; if that
// cleanup fails the failure is logged and the profile deletion is still
// attempted, which surfaces its own error if the rows are in the way.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.profiles.GetByID(id)
	if err != nil {
		h.logger.Error("get profile", "id", id, "error", err)
		writeFailure(w, err)
		return
	}
	if existing == nil {
		writeFailure(w, fmt.Errorf("profile %d: %w", id, fault.ErrNotFound))
		return
	}

	if err := h.assignments.DeleteForProfile(id); err != nil {
		h.logger.Warn("assignment cleanup before profile delete", "id", id, "error", err)
	}

	if err := h.profiles.Delete(id); err != nil {
		h.logger.Error("delete profile", "id", id, "error", err)
		writeFailure(w, err)
		return
	}

	h.hub.Notify("profile", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// Tasks lists the profile's assignments joined with their tasks.
func (h *ProfileHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.profiles.GetByID(id)
	if err != nil {
		h.logger.Error("get profile", "id", id, "error", err)
		writeFailure(w, err)
		return
	}
	if existing == nil {
		writeFailure(w, fmt.Errorf("profile %d: %w", id, fault.ErrNotFound))
		return
	}

	items, err := h.assignments.ListForProfile(id)
	if err != nil {
		h.logger.Error("list profile tasks", "id", id, "error", err)
		writeFailure(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(items))
	for _, it := range items {
		resp = append(resp, map[string]any{
			"assignment": it.Assignment,
			"task":       it.Task,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ProfileHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.profiles.GetByID(id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if existing == nil {
		writeFailure(w, fmt.Errorf("profile %d: %w", id, fault.ErrNotFound))
		return
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.PIN) != 4 || !isDigits(req.PIN) {
		writeError(w, http.StatusBadRequest, "PIN must be exactly 4 digits")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := h.profiles.SetPIN(id, string(hash)); err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "pin set"})
}

func (h *ProfileHandler) ClearPIN(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.profiles.ClearPIN(id); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pin cleared"})
}

func (h *ProfileHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	hash, err := h.profiles.GetPINHash(id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if hash == "" {
		writeError(w, http.StatusBadRequest, "no PIN set for this profile")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.PIN)); err != nil {
		writeError(w, http.StatusUnauthorized, "incorrect PIN")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

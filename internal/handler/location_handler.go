package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"adrelay/internal/entity"
	"adrelay/internal/middleware"
	"adrelay/internal/service"
)

type LocationHandler struct {
	locationService service.LocationService
}

func NewLocationHandler(locationService service.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.CallerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createLocationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	loc, err := h.locationService.Create(callerID, pick(req.Name, req.Nome),
		entity.LocationScope(req.Scope), req.Latitude, req.Longitude,
		pickF(req.RadiusM, req.Raio), req.SSIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"status":   "success",
		"location": loc,
	})
}

func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.CallerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	locs, err := h.locationService.ListByCreator(callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"locations": locs,
	})
}

func (h *LocationHandler) DeactivateLocation(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.CallerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.locationService.Deactivate(id, callerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

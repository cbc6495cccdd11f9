package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"adrelay/internal/entity"
	"adrelay/internal/middleware"
	"adrelay/internal/service"
)

// MuleHandler serves the relay-agent surface. Every route acts on behalf of
// the authenticated caller; a mule can only touch its own assignments and
// config.
type MuleHandler struct {
	muleService service.MuleService
}

func NewMuleHandler(muleService service.MuleService) *MuleHandler {
	return &MuleHandler{muleService: muleService}
}

func (h *MuleHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.CallerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	pending, err := h.muleService.ListPending(callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	if pending == nil {
		pending = []*entity.MuleAssignment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"assignments": pending,
	})
}

func (h *MuleHandler) AcceptAssignment(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.CallerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	accepted, err := h.muleService.Accept(id, callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"assignment": accepted,
	})
}

func (h *MuleHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.CallerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cfg, err := h.muleService.GetConfig(callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"config": cfg,
	})
}

func (h *MuleHandler) UpsertConfig(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.CallerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req muleConfigRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cfg, err := h.muleService.UpsertConfig(callerID, req.Capacity, req.Active)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"config": cfg,
	})
}

func (h *MuleHandler) RemoveConfig(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.CallerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.muleService.RemoveConfig(callerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *MuleHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.CallerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, err := h.muleService.Stats(callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"stats":  stats,
	})
}

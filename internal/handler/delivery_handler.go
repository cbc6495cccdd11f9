package handler

import (
	"net/http"

	"adrelay/internal/apperr"
	"adrelay/internal/middleware"
	"adrelay/internal/service"
)

// DeliveryHandler serves the recipient-facing routes: position reports,
// delivery confirmations and the received list.
type DeliveryHandler struct {
	deliveryService service.DeliveryService
}

func NewDeliveryHandler(deliveryService service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

func (h *DeliveryHandler) ReportPosition(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.CallerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req reportPositionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	pos := req.normalize()
	if !pos.HasGPS && len(pos.SSIDs) == 0 {
		writeError(w, apperr.New(apperr.KindValidation, "a position needs coordinates or SSIDs"))
		return
	}

	feed, err := h.deliveryService.ReportPosition(callerID, pos)
	if err != nil {
		writeError(w, err)
		return
	}
	if feed == nil {
		feed = []service.FeedItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"messages": feed,
	})
}

func (h *DeliveryHandler) ReceiveMessage(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.CallerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req receiveMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.MessageID == "" {
		writeError(w, apperr.New(apperr.KindValidation, "message_id is required"))
		return
	}

	if err := h.deliveryService.Receive(req.MessageID, callerID, req.DeviceID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *DeliveryHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.CallerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	received, err := h.deliveryService.ListReceived(callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"messages": received,
	})
}

package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"adrelay/internal/middleware"
)

// NewRouter wires every boundary route behind the session middleware.
func NewRouter(store *sessions.CookieStore, messages *MessageHandler, deliveries *DeliveryHandler, locations *LocationHandler, mules *MuleHandler) *mux.Router {
	r := mux.NewRouter()
	auth := func(next func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
		return middleware.Auth(store, next)
	}

	r.HandleFunc("/messages", auth(messages.CreateMessage)).Methods("POST")
	r.HandleFunc("/messages/sent", auth(messages.ListSent)).Methods("GET")
	r.HandleFunc("/messages/received", auth(deliveries.ListReceived)).Methods("GET")
	r.HandleFunc("/messages/receive", auth(deliveries.ReceiveMessage)).Methods("POST")
	r.HandleFunc("/messages/{id}", auth(messages.DeleteMessage)).Methods("DELETE")

	r.HandleFunc("/position", auth(deliveries.ReportPosition)).Methods("POST")

	r.HandleFunc("/locations", auth(locations.CreateLocation)).Methods("POST")
	r.HandleFunc("/locations", auth(locations.ListLocations)).Methods("GET")
	r.HandleFunc("/locations/{id}", auth(locations.DeactivateLocation)).Methods("DELETE")

	r.HandleFunc("/mule/assignments", auth(mules.ListAssignments)).Methods("GET")
	r.HandleFunc("/mule/assignments/{id}/accept", auth(mules.AcceptAssignment)).Methods("POST")
	r.HandleFunc("/mule/config", auth(mules.GetConfig)).Methods("GET")
	r.HandleFunc("/mule/config", auth(mules.UpsertConfig)).Methods("PUT")
	r.HandleFunc("/mule/config", auth(mules.RemoveConfig)).Methods("DELETE")
	r.HandleFunc("/mule/stats", auth(mules.GetStats)).Methods("GET")

	return r
}

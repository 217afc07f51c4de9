package api

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"patient-scheduler/appointment"
)

type API struct {
	router *mux.Router
	store  *appointment.Store
}

func NewAPI(store *appointment.Store) *API {
	return &API{
		router: mux.NewRouter(),
		store:  store,
	}
}

func (a *API) Router() *mux.Router {
	return a.router
}

func (a *API) Handler() http.Handler {
	// Use Gorilla's built-in logging handler
	return handlers.LoggingHandler(os.Stdout, a.router)
}

func (a *API) RegisterRoutes() {
	s := a.router.PathPrefix("/api").Subrouter()
	s.HandleFunc("/health", a.health).Methods(http.MethodGet)
	s.HandleFunc("/appointments", a.getAppointments).Methods(http.MethodGet)
	s.HandleFunc("/appointments", a.createAppointment).Methods(http.MethodPost)
	s.HandleFunc("/appointments", a.deleteAppointment).Methods(http.MethodDelete)
	a.router.HandleFunc("/download", a.download).Methods(http.MethodGet)
}

// respond writes the envelope every endpoint shares.
func (a *API) respond(w http.ResponseWriter, status int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (a *API) ok(w http.ResponseWriter, status int, extra map[string]any) {
	payload := map[string]any{"ok": true}
	for k, v := range extra {
		payload[k] = v
	}
	a.respond(w, status, payload)
}

func (a *API) fail(w http.ResponseWriter, status int, msg string) {
	a.respond(w, status, map[string]any{"ok": false, "error": msg})
}

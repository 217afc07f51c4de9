package api

import "net/http"

// health is a plain-text liveness probe; it bypasses the JSON envelope.
func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"patient-scheduler/appointment"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (a *API) getAppointments(w http.ResponseWriter, r *http.Request) {
	appts := a.store.Search(r.URL.Query().Get("name"))
	a.ok(w, http.StatusOK, map[string]any{"appointments": appts})
}

type createAppointmentRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Reason   string `json:"reason"`
	Datetime string `json:"datetime"`
}

func (a *API) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appt, err := a.store.Insert(req.Name, req.Address, req.Reason, req.Datetime)
	if err != nil {
		a.fail(w, statusFor(err), err.Error())
		return
	}
	a.ok(w, http.StatusCreated, map[string]any{"appointment": appt})
}

type deleteAppointmentRequest struct {
	ID string `json:"id"`
}

func (a *API) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	var req deleteAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := a.store.Delete(req.ID); err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			a.fail(w, http.StatusNotFound, "Appointment not found")
			return
		}
		a.fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.ok(w, http.StatusOK, nil)
}

func (a *API) download(w http.ResponseWriter, r *http.Request) {
	path, err := a.store.ExportPath()
	if err != nil {
		a.fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}

func statusFor(err error) int {
	var ve *appointment.ValidationError
	var ce *appointment.CapacityError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ce):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

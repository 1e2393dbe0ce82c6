package http

import (
	"net/http"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/domain"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/service"
	"github.com/aussiebroadwan/mindcare/pkg/httpx"
	"github.com/aussiebroadwan/mindcare/pkg/mindsdk"
)

type AppointmentsHandler struct {
	AppointmentService *service.AppointmentService
}

// HandleBook handles POST /api/appointments
//
//	@Summary		Book appointment
//	@Tags			Appointments
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		mindsdk.AppointmentRequest	true	"doctorName, appointmentDate (YYYY-MM-DD), timeSlot"
//	@Success		201		{object}	mindsdk.Appointment
//	@Failure		400		{object}	mindsdk.ErrorResponse	"validation_error"
//	@Failure		401		{object}	mindsdk.ErrorResponse	"unauthorized"
//	@Router			/api/appointments [post].
func (h *AppointmentsHandler) HandleBook(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	var req mindsdk.AppointmentRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	appt, err := h.AppointmentService.Book(r.Context(), who, service.AppointmentInput{
		DoctorName:      req.DoctorName,
		Specialization:  req.Specialization,
		AppointmentDate: req.AppointmentDate,
		TimeSlot:        req.TimeSlot,
		Note:            req.Note,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAppointment(appt))
}

// HandleList handles GET /api/appointments
//
//	@Summary		List appointments
//	@Description	Returns the caller's appointments by date, soonest first.
//	@Tags			Appointments
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		mindsdk.Appointment
//	@Failure		401	{object}	mindsdk.ErrorResponse	"unauthorized"
//	@Router			/api/appointments [get].
func (h *AppointmentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	appts, err := h.AppointmentService.List(r.Context(), who)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]mindsdk.Appointment, len(appts))
	for i, a := range appts {
		out[i] = toAppointment(a)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCancel handles DELETE /api/appointments/{id}
//
//	@Summary		Cancel appointment
//	@Tags			Appointments
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Appointment ID"
//	@Success		200	{object}	mindsdk.MessageResponse
//	@Failure		401	{object}	mindsdk.ErrorResponse	"unauthorized"
//	@Failure		404	{object}	mindsdk.ErrorResponse	"not_found"
//	@Router			/api/appointments/{id} [delete].
func (h *AppointmentsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	who, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.AppointmentService.Cancel(r.Context(), who, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mindsdk.MessageResponse{Message: "appointment cancelled"})
}

func toAppointment(a domain.Appointment) mindsdk.Appointment {
	return mindsdk.Appointment{
		ID:              a.ID,
		UserID:          a.UserID,
		DoctorName:      a.DoctorName,
		Specialization:  a.Specialization,
		AppointmentDate: a.AppointmentDate.Format(domain.DateLayout),
		TimeSlot:        a.TimeSlot,
		Note:            a.Note,
		CreatedAt:       a.CreatedAt,
	}
}

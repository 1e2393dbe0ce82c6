package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/domain"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/store"
	"github.com/aussiebroadwan/mindcare/pkg/httpx"
	"github.com/aussiebroadwan/mindcare/pkg/idx"
	"github.com/aussiebroadwan/mindcare/pkg/slogx"
)

const (
	MaxDoctorNameLength = 128
	MaxTimeSlotLength   = 32
	MaxNoteBytes        = 4000
)

type AppointmentService struct {
	Store store.Store
	Now   func() time.Time
}

type AppointmentInput struct {
	DoctorName      string
	Specialization  string
	AppointmentDate string // YYYY-MM-DD
	TimeSlot        string
	Note            string
}

// Book creates an appointment for the caller.
func (s *AppointmentService) Book(ctx context.Context, who httpx.Identity, in AppointmentInput) (domain.Appointment, error) {
	log := slogx.FromContext(ctx)

	doctor := strings.TrimSpace(in.DoctorName)
	slot := strings.TrimSpace(in.TimeSlot)
	switch {
	case doctor == "":
		return domain.Appointment{}, validationError("doctorName is required")
	case strings.TrimSpace(in.AppointmentDate) == "":
		return domain.Appointment{}, validationError("appointmentDate is required")
	case slot == "":
		return domain.Appointment{}, validationError("timeSlot is required")
	case utf8.RuneCountInString(doctor) > MaxDoctorNameLength:
		return domain.Appointment{}, validationError("doctorName must be at most %d characters", MaxDoctorNameLength)
	case utf8.RuneCountInString(slot) > MaxTimeSlotLength:
		return domain.Appointment{}, validationError("timeSlot must be at most %d characters", MaxTimeSlotLength)
	case len(in.Note) > MaxNoteBytes:
		return domain.Appointment{}, validationError("note must be at most %d bytes", MaxNoteBytes)
	}

	date, err := time.Parse(domain.DateLayout, strings.TrimSpace(in.AppointmentDate))
	if err != nil {
		return domain.Appointment{}, validationError("appointmentDate must be YYYY-MM-DD")
	}

	appt := domain.Appointment{
		ID:              idx.New().String(),
		UserID:          who.UserID,
		DoctorName:      doctor,
		Specialization:  strings.TrimSpace(in.Specialization),
		AppointmentDate: date,
		TimeSlot:        slot,
		Note:            strings.TrimSpace(in.Note),
		CreatedAt:       now(s.Now).UTC(),
	}

	if err := s.Store.Appointments().CreateAppointment(ctx, appt); err != nil {
		log.Error("failed to book appointment", slog.Any("error", err))
		return domain.Appointment{}, err
	}

	log.Info("appointment booked",
		slog.String("appointment_id", appt.ID),
		slog.String("date", in.AppointmentDate),
	)
	return appt, nil
}

func (s *AppointmentService) List(ctx context.Context, who httpx.Identity) ([]domain.Appointment, error) {
	return s.Store.Appointments().ListAppointments(ctx, who.UserID)
}

// Cancel removes an appointment owned by the caller.
func (s *AppointmentService) Cancel(ctx context.Context, who httpx.Identity, id string) error {
	err := s.Store.Appointments().DeleteAppointment(ctx, who.UserID, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("appointment cancelled", slog.String("appointment_id", id))
	return nil
}

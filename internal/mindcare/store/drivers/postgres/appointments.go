package postgres

import (
	"context"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/domain"

	"github.com/samber/oops"
)

type appointmentsRepo struct {
	pool Pool
}

func (r *appointmentsRepo) CreateAppointment(ctx context.Context, a domain.Appointment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO appointments
		   (id, user_id, doctor_name, specialization, appointment_date, time_slot, note, created_at)
		 VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8)`,
		a.ID, a.UserID, a.DoctorName, a.Specialization,
		a.AppointmentDate.Format(domain.DateLayout), a.TimeSlot, a.Note,
		a.CreatedAt.UTC(),
	)
	if err != nil {
		return oops.Code("APPOINTMENT_CREATE_FAILED").With("operation", "insert appointment").With("user_id", a.UserID).Wrap(err)
	}
	return nil
}

func (r *appointmentsRepo) ListAppointments(ctx context.Context, userID string) ([]domain.Appointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, doctor_name, specialization, appointment_date, time_slot, note, created_at
		 FROM appointments
		 WHERE user_id = $1
		 ORDER BY appointment_date ASC, time_slot ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, oops.Code("APPOINTMENT_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	defer rows.Close()

	out := make([]domain.Appointment, 0)
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.DoctorName, &a.Specialization,
			&a.AppointmentDate, &a.TimeSlot, &a.Note, &a.CreatedAt,
		); err != nil {
			return nil, oops.Code("APPOINTMENT_SCAN_FAILED").With("user_id", userID).Wrap(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("APPOINTMENT_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	return out, nil
}

func (r *appointmentsRepo) DeleteAppointment(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM appointments WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return oops.Code("APPOINTMENT_DELETE_FAILED").With("appointment_id", id).Wrap(err)
	}
	return affected(tag)
}

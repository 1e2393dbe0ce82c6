package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/domain"
)

type appointmentsRepo struct {
	db *sql.DB
}

func (r *appointmentsRepo) CreateAppointment(ctx context.Context, a domain.Appointment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO appointments
		   (id, user_id, doctor_name, specialization, appointment_date, time_slot, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.DoctorName, a.Specialization,
		a.AppointmentDate.Format(domain.DateLayout), a.TimeSlot, a.Note,
		a.CreatedAt.UTC(),
	)
	return err
}

func (r *appointmentsRepo) ListAppointments(ctx context.Context, userID string) ([]domain.Appointment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, doctor_name, specialization, appointment_date, time_slot, note, created_at
		 FROM appointments
		 WHERE user_id = ?
		 ORDER BY appointment_date ASC, time_slot ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Appointment, 0)
	for rows.Next() {
		var (
			a    domain.Appointment
			date string
		)
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.DoctorName, &a.Specialization,
			&date, &a.TimeSlot, &a.Note, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		if a.AppointmentDate, err = time.Parse(domain.DateLayout, date); err != nil {
			return nil, fmt.Errorf("appointment %s: bad stored date %q: %w", a.ID, date, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *appointmentsRepo) DeleteAppointment(ctx context.Context, userID, id string) error {
	return mapAffected(r.db.ExecContext(ctx,
		`DELETE FROM appointments WHERE id = ? AND user_id = ?`,
		id, userID,
	))
}

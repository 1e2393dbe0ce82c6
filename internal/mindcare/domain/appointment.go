package domain

import "time"

// DateLayout is the wire and storage format of AppointmentDate.
const DateLayout = "2006-01-02"

type Appointment struct {
	ID              string
	UserID          string
	DoctorName      string
	Specialization  string
	AppointmentDate time.Time // calendar date, UTC midnight
	TimeSlot        string    // free-form, e.g. "10:00-10:30"
	Note            string
	CreatedAt       time.Time
}

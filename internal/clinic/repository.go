package clinic

import (
	"context"
	"errors"
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrScheduleNotFound    = errors.New("no schedule for that doctor and date")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	ListDepartments(ctx context.Context) ([]Department, error)
	ListRooms(ctx context.Context, deptID string) ([]Room, error)
	ListDoctors(ctx context.Context, deptID string) ([]Doctor, error)
	ListSchedules(ctx context.Context, f ScheduleFilter) ([]ScheduleDetail, error)

	InsertPatient(ctx context.Context, p Patient) error
	FindPatientByIdentity(ctx context.Context, identity, birth string) (*Patient, error)
	// LastPatientID returns the largest pat_id, or "" when the table is empty.
	LastPatientID(ctx context.Context) (string, error)

	// FindScheduleForBooking resolves the slot for a doctor on a date,
	// preferring the smallest shift label when several match.
	FindScheduleForBooking(ctx context.Context, docID, workDate string) (string, error)
	MaxSequenceForSlot(ctx context.Context, schID string) (int, error)
	CountAppointments(ctx context.Context) (int, error)
	InsertAppointment(ctx context.Context, a Appointment) error
	CancelAppointment(ctx context.Context, apptID string) error
	ListAppointments(ctx context.Context, f AppointmentFilter) ([]AppointmentDetail, error)
}

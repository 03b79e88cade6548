package clinic

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a missing or unusable request field.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// BookingRequest carries both input shapes for CreateAppointment. When
// ApptID, SchID and PatID are all present the record is inserted as given
// (direct mode); otherwise the slot, sequence and id are derived.
type BookingRequest struct {
	ApptID string
	SchID  string
	PatID  string
	Seq    int
	Status string

	DocID       string
	ApptDate    string
	PatIdentity string
	PatBirth    string
}

type RegisterPatientRequest struct {
	PatID    string
	Name     string
	Phone    string
	Identity string
	Gender   string
	Birth    string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateAppointment books a patient into a schedule slot. Field values are
// not semantically validated; malformed dates and unknown ids surface as
// storage errors.
func (s *Service) CreateAppointment(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if req.ApptID != "" && req.SchID != "" && req.PatID != "" {
		return s.createDirect(ctx, req)
	}
	return s.createDerived(ctx, req)
}

func (s *Service) createDirect(ctx context.Context, req BookingRequest) (*Appointment, error) {
	appt := Appointment{
		ID:     req.ApptID,
		SchID:  req.SchID,
		PatID:  req.PatID,
		Seq:    req.Seq,
		Status: AppointmentStatus(req.Status),
	}
	if appt.Seq == 0 {
		appt.Seq = 1
	}
	if appt.Status == "" {
		appt.Status = StatusBooked
	}

	// The caller owns id and sequence uniqueness in this mode.
	if err := s.repo.InsertAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	return &appt, nil
}

func (s *Service) createDerived(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if req.DocID == "" {
		return nil, &ValidationError{Msg: "doc_id is required"}
	}
	if req.ApptDate == "" {
		return nil, &ValidationError{Msg: "appt_date is required"}
	}

	patID := req.PatID
	if patID == "" {
		if req.PatIdentity == "" || req.PatBirth == "" {
			return nil, &ValidationError{Msg: "pat_id, or pat_identity with pat_birth, is required"}
		}
		p, err := s.repo.FindPatientByIdentity(ctx, req.PatIdentity, req.PatBirth)
		if err != nil {
			if errors.Is(err, ErrPatientNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("look up patient: %w", err)
		}
		patID = p.ID
	}

	schID, err := s.repo.FindScheduleForBooking(ctx, req.DocID, req.ApptDate)
	if err != nil {
		if errors.Is(err, ErrScheduleNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("look up schedule: %w", err)
	}

	// Sequence and id come from unguarded aggregate reads; concurrent
	// bookings can observe the same values. Known limitation.
	maxSeq, err := s.repo.MaxSequenceForSlot(ctx, schID)
	if err != nil {
		return nil, fmt.Errorf("max sequence for slot: %w", err)
	}

	count, err := s.repo.CountAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}

	appt := Appointment{
		ID:     NextAppointmentID(count),
		SchID:  schID,
		PatID:  patID,
		Seq:    maxSeq + 1,
		Status: StatusBooked,
	}

	if err := s.repo.InsertAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	return &appt, nil
}

// CancelAppointment sets the status to cancelled. Cancelling an already
// cancelled appointment succeeds again as long as the row exists.
func (s *Service) CancelAppointment(ctx context.Context, apptID string) error {
	if err := s.repo.CancelAppointment(ctx, apptID); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return err
		}
		return fmt.Errorf("cancel appointment: %w", err)
	}
	return nil
}

// RegisterPatient stores a new patient, generating an identifier when the
// caller does not supply one.
func (s *Service) RegisterPatient(ctx context.Context, req RegisterPatientRequest) (*Patient, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Msg: "pat_name is required"}
	}

	id := req.PatID
	if id == "" {
		last, err := s.repo.LastPatientID(ctx)
		if err != nil {
			return nil, fmt.Errorf("last patient id: %w", err)
		}
		id = NextPatientID(last)
	}

	p := Patient{
		ID:       id,
		Name:     req.Name,
		Phone:    optional(req.Phone),
		Identity: optional(req.Identity),
		Gender:   optional(req.Gender),
		Birth:    optional(req.Birth),
	}

	if err := s.repo.InsertPatient(ctx, p); err != nil {
		return nil, fmt.Errorf("insert patient: %w", err)
	}
	return &p, nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	depts, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return depts, nil
}

func (s *Service) ListRooms(ctx context.Context, deptID string) ([]Room, error) {
	rooms, err := s.repo.ListRooms(ctx, deptID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *Service) ListDoctors(ctx context.Context, deptID string) ([]Doctor, error) {
	doctors, err := s.repo.ListDoctors(ctx, deptID)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) ListSchedules(ctx context.Context, f ScheduleFilter) ([]ScheduleDetail, error) {
	schedules, err := s.repo.ListSchedules(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

func (s *Service) ListAppointments(ctx context.Context, f AppointmentFilter) ([]AppointmentDetail, error) {
	appts, err := s.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/booking-api/internal/api"
	"github.com/clinicore/booking-api/internal/clinic"
	"github.com/clinicore/booking-api/internal/sqlconsole"
)

// -- Fake repository backing the real service --

type fakeRepo struct {
	departments  []clinic.Department
	schedules    []clinic.Schedule
	patients     []clinic.Patient
	appointments []clinic.Appointment
}

func (f *fakeRepo) ListDepartments(_ context.Context) ([]clinic.Department, error) {
	return f.departments, nil
}

func (f *fakeRepo) ListRooms(_ context.Context, _ string) ([]clinic.Room, error) { return nil, nil }

func (f *fakeRepo) ListDoctors(_ context.Context, _ string) ([]clinic.Doctor, error) {
	return nil, nil
}

func (f *fakeRepo) ListSchedules(_ context.Context, _ clinic.ScheduleFilter) ([]clinic.ScheduleDetail, error) {
	return nil, nil
}

func (f *fakeRepo) InsertPatient(_ context.Context, p clinic.Patient) error {
	f.patients = append(f.patients, p)
	return nil
}

func (f *fakeRepo) FindPatientByIdentity(_ context.Context, identity, birth string) (*clinic.Patient, error) {
	for _, p := range f.patients {
		if p.Identity != nil && *p.Identity == identity && p.Birth != nil && *p.Birth == birth {
			found := p
			return &found, nil
		}
	}
	return nil, clinic.ErrPatientNotFound
}

func (f *fakeRepo) LastPatientID(_ context.Context) (string, error) {
	last := ""
	for _, p := range f.patients {
		if p.ID > last {
			last = p.ID
		}
	}
	return last, nil
}

func (f *fakeRepo) FindScheduleForBooking(_ context.Context, docID, workDate string) (string, error) {
	var matched []clinic.Schedule
	for _, s := range f.schedules {
		if s.DocID == docID && s.WorkDate == workDate {
			matched = append(matched, s)
		}
	}
	if len(matched) == 0 {
		return "", clinic.ErrScheduleNotFound
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Shift < matched[j].Shift })
	return matched[0].ID, nil
}

func (f *fakeRepo) MaxSequenceForSlot(_ context.Context, schID string) (int, error) {
	maxSeq := 0
	for _, a := range f.appointments {
		if a.SchID == schID && a.Seq > maxSeq {
			maxSeq = a.Seq
		}
	}
	return maxSeq, nil
}

func (f *fakeRepo) CountAppointments(_ context.Context) (int, error) {
	return len(f.appointments), nil
}

func (f *fakeRepo) InsertAppointment(_ context.Context, a clinic.Appointment) error {
	f.appointments = append(f.appointments, a)
	return nil
}

func (f *fakeRepo) CancelAppointment(_ context.Context, apptID string) error {
	for i, a := range f.appointments {
		if a.ID == apptID {
			f.appointments[i].Status = clinic.StatusCancelled
			return nil
		}
	}
	return clinic.ErrAppointmentNotFound
}

func (f *fakeRepo) ListAppointments(_ context.Context, _ clinic.AppointmentFilter) ([]clinic.AppointmentDetail, error) {
	return nil, nil
}

func newTestRouter(repo *fakeRepo) http.Handler {
	return api.NewRouter(api.RouterConfig{
		Service: clinic.NewService(repo),
		Console: sqlconsole.New(nil),
		Env:     "test",
		Version: "test",
	})
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	OK      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// -- Tests --

func TestCreateAppointmentDerived(t *testing.T) {
	repo := &fakeRepo{
		patients:  []clinic.Patient{{ID: "P001", Name: "Lin Mei"}},
		schedules: []clinic.Schedule{{ID: "S5", DocID: "D01", WorkDate: "2024-01-10", Shift: "morning", RoomID: "R01"}},
	}
	router := newTestRouter(repo)

	w := postJSON(t, router, "/api/appointments", map[string]any{
		"doc_id":    "D01",
		"pat_id":    "P001",
		"appt_date": "2024-01-10",
	})

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	require.True(t, env.OK)

	var data struct {
		ApptID string `json:"appt_id"`
		SchID  string `json:"sch_id"`
		PatID  string `json:"pat_id"`
		Seq    int    `json:"appt_seq"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "A001", data.ApptID)
	assert.Equal(t, "S5", data.SchID)
	assert.Equal(t, "P001", data.PatID)
	assert.Equal(t, 1, data.Seq)
	assert.Equal(t, "booked", data.Status)
}

func TestCreateAppointmentMissingFields(t *testing.T) {
	router := newTestRouter(&fakeRepo{})

	w := postJSON(t, router, "/api/appointments", map[string]any{
		"pat_id": "P001",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.OK)
	assert.Contains(t, env.Error, "doc_id")
}

func TestCreateAppointmentUnknownPatientIdentity(t *testing.T) {
	repo := &fakeRepo{
		schedules: []clinic.Schedule{{ID: "S5", DocID: "D01", WorkDate: "2024-01-10", Shift: "morning", RoomID: "R01"}},
	}
	router := newTestRouter(repo)

	w := postJSON(t, router, "/api/appointments", map[string]any{
		"doc_id":       "D01",
		"appt_date":    "2024-01-10",
		"pat_identity": "A123456789",
		"pat_birth":    "1990-05-05",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateAppointmentNoSchedule(t *testing.T) {
	repo := &fakeRepo{patients: []clinic.Patient{{ID: "P001", Name: "Lin Mei"}}}
	router := newTestRouter(repo)

	w := postJSON(t, router, "/api/appointments", map[string]any{
		"doc_id":    "D01",
		"pat_id":    "P001",
		"appt_date": "2024-01-10",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelAppointment(t *testing.T) {
	repo := &fakeRepo{
		appointments: []clinic.Appointment{{ID: "A001", SchID: "S5", PatID: "P001", Seq: 1, Status: clinic.StatusBooked}},
	}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPut, "/api/appointments/A001/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, clinic.StatusCancelled, repo.appointments[0].Status)
}

func TestCancelAppointmentNotFound(t *testing.T) {
	router := newTestRouter(&fakeRepo{})

	req := httptest.NewRequest(http.MethodPut, "/api/appointments/A404/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterPatient(t *testing.T) {
	repo := &fakeRepo{
		patients: []clinic.Patient{{ID: "P001", Name: "Lin Mei"}, {ID: "P002", Name: "Chen Yu"}},
	}
	router := newTestRouter(repo)

	w := postJSON(t, router, "/api/patients", map[string]any{
		"pat_name":  "Wang Fang",
		"pat_phone": "0912345678",
	})

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	require.True(t, env.OK)

	var data struct {
		PatID string `json:"pat_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "P003", data.PatID)
}

func TestRegisterPatientRequiresName(t *testing.T) {
	router := newTestRouter(&fakeRepo{})

	w := postJSON(t, router, "/api/patients", map[string]any{
		"pat_phone": "0912345678",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Contains(t, env.Error, "pat_name")
}

func TestListDepartments(t *testing.T) {
	repo := &fakeRepo{
		departments: []clinic.Department{{ID: "DE01", Name: "General Practice"}},
	}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/depts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	require.True(t, env.OK)

	var data []struct {
		DeptID   string `json:"dept_id"`
		DeptName string `json:"dept_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 1)
	assert.Equal(t, "DE01", data[0].DeptID)
}

func TestRunStatementForbidden(t *testing.T) {
	router := newTestRouter(&fakeRepo{})

	w := postJSON(t, router, "/api/sql", map[string]any{"sql": "DROP TABLE appointment"})

	require.Equal(t, http.StatusForbidden, w.Code)
	env := decodeEnvelope(t, w)
	assert.Contains(t, env.Error, "DROP")
}

func TestRunStatementMultiStatement(t *testing.T) {
	router := newTestRouter(&fakeRepo{})

	w := postJSON(t, router, "/api/sql", map[string]any{"sql": "SELECT 1; SELECT 2"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Contains(t, env.Error, "multi-statement")
}

func TestRunStatementEmpty(t *testing.T) {
	router := newTestRouter(&fakeRepo{})

	w := postJSON(t, router, "/api/sql", map[string]any{"sql": ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPing(t *testing.T) {
	router := newTestRouter(&fakeRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.OK)
	assert.Equal(t, "pong", env.Message)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicore/booking-api/internal/clinic"
	"github.com/clinicore/booking-api/internal/sqlconsole"
)

func pingHandler(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "pong")
}

func listDepartmentsHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		depts, err := svc.ListDepartments(r.Context())
		if err != nil {
			writeClinicError(w, err)
			return
		}

		resp := make([]DepartmentResponse, 0, len(depts))
		for _, d := range depts {
			resp = append(resp, DepartmentResponse{DeptID: d.ID, DeptName: d.Name})
		}
		writeData(w, http.StatusOK, resp)
	}
}

func listRoomsHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := svc.ListRooms(r.Context(), r.URL.Query().Get("dept_id"))
		if err != nil {
			writeClinicError(w, err)
			return
		}

		resp := make([]RoomResponse, 0, len(rooms))
		for _, rm := range rooms {
			resp = append(resp, RoomResponse{RoomID: rm.ID, RoomName: rm.Name, DeptID: rm.DeptID})
		}
		writeData(w, http.StatusOK, resp)
	}
}

func listDoctorsHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.ListDoctors(r.Context(), r.URL.Query().Get("dept_id"))
		if err != nil {
			writeClinicError(w, err)
			return
		}

		resp := make([]DoctorResponse, 0, len(doctors))
		for _, d := range doctors {
			resp = append(resp, DoctorResponse{DocID: d.ID, DocName: d.Name, DocRank: d.Rank, DeptID: d.DeptID})
		}
		writeData(w, http.StatusOK, resp)
	}
}

func listSchedulesHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := clinic.ScheduleFilter{
			DeptID:   q.Get("dept_id"),
			DocID:    q.Get("doc_id"),
			DocName:  q.Get("doc_name"),
			WorkDate: q.Get("work_date"),
			Shift:    q.Get("shift_name"),
		}

		schedules, err := svc.ListSchedules(r.Context(), filter)
		if err != nil {
			writeClinicError(w, err)
			return
		}

		resp := make([]ScheduleResponse, 0, len(schedules))
		for _, s := range schedules {
			resp = append(resp, ScheduleResponse{
				SchID:    s.ID,
				DocID:    s.DocID,
				WorkDate: s.WorkDate,
				Shift:    s.Shift,
				RoomID:   s.RoomID,
				DocName:  s.DocName,
				DocRank:  s.DocRank,
				RoomName: s.RoomName,
				DeptID:   s.DeptID,
				DeptName: s.DeptName,
			})
		}
		writeData(w, http.StatusOK, resp)
	}
}

func registerPatientHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}

		p, err := svc.RegisterPatient(r.Context(), clinic.RegisterPatientRequest{
			PatID:    req.PatID,
			Name:     req.Name,
			Phone:    req.Phone,
			Identity: req.Identity,
			Gender:   req.Gender,
			Birth:    req.Birth,
		})
		if err != nil {
			writeClinicError(w, err)
			return
		}

		writeData(w, http.StatusOK, PatientResponse{
			PatID:    p.ID,
			Name:     p.Name,
			Phone:    p.Phone,
			Identity: p.Identity,
			Gender:   p.Gender,
			Birth:    p.Birth,
		})
	}
}

func createAppointmentHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}

		appt, err := svc.CreateAppointment(r.Context(), clinic.BookingRequest{
			ApptID:      req.ApptID,
			SchID:       req.SchID,
			PatID:       req.PatID,
			Seq:         req.Seq,
			Status:      req.Status,
			DocID:       req.DocID,
			ApptDate:    req.ApptDate,
			PatIdentity: req.PatIdentity,
			PatBirth:    req.PatBirth,
		})
		if err != nil {
			writeClinicError(w, err)
			return
		}

		writeData(w, http.StatusOK, AppointmentResponse{
			ApptID: appt.ID,
			SchID:  appt.SchID,
			PatID:  appt.PatID,
			Seq:    appt.Seq,
			Status: string(appt.Status),
		})
	}
}

func listAppointmentsHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := clinic.AppointmentFilter{
			PatID:       q.Get("pat_id"),
			DocID:       q.Get("doc_id"),
			DeptID:      q.Get("dept_id"),
			WorkDate:    q.Get("work_date"),
			PatIdentity: q.Get("pat_identity"),
			PatBirth:    q.Get("pat_birth"),
		}

		appts, err := svc.ListAppointments(r.Context(), filter)
		if err != nil {
			writeClinicError(w, err)
			return
		}

		resp := make([]AppointmentDetailResponse, 0, len(appts))
		for _, a := range appts {
			resp = append(resp, AppointmentDetailResponse{
				ApptID:      a.ID,
				SchID:       a.SchID,
				PatID:       a.PatID,
				Seq:         a.Seq,
				Status:      string(a.Status),
				PatName:     a.PatName,
				PatIdentity: a.PatIdentity,
				PatBirth:    a.PatBirth,
				WorkDate:    a.WorkDate,
				Shift:       a.Shift,
				DocID:       a.DocID,
				DocName:     a.DocName,
				DeptID:      a.DeptID,
				DeptName:    a.DeptName,
				RoomName:    a.RoomName,
			})
		}
		writeData(w, http.StatusOK, resp)
	}
}

func cancelAppointmentHandler(svc *clinic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apptID := chi.URLParam(r, "appt_id")

		if err := svc.CancelAppointment(r.Context(), apptID); err != nil {
			writeClinicError(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "appointment cancelled")
	}
}

func runStatementHandler(console *sqlconsole.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RunStatementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}

		result, err := console.Run(r.Context(), req.SQL)
		if err != nil {
			writeConsoleError(w, err)
			return
		}
		writeData(w, http.StatusOK, result)
	}
}

func writeClinicError(w http.ResponseWriter, err error) {
	var ve *clinic.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, clinic.ErrPatientNotFound),
		errors.Is(err, clinic.ErrScheduleNotFound),
		errors.Is(err, clinic.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeConsoleError(w http.ResponseWriter, err error) {
	var fe *sqlconsole.ForbiddenError
	switch {
	case errors.Is(err, sqlconsole.ErrEmptyStatement),
		errors.Is(err, sqlconsole.ErrMultiStatement),
		errors.Is(err, sqlconsole.ErrUnknownKeyword):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &fe):
		writeError(w, http.StatusForbidden, fe.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

package api

type CreateAppointmentRequest struct {
	ApptID string `json:"appt_id"`
	SchID  string `json:"sch_id"`
	PatID  string `json:"pat_id"`
	Seq    int    `json:"appt_seq"`
	Status string `json:"status"`

	DocID       string `json:"doc_id"`
	ApptDate    string `json:"appt_date"`
	PatIdentity string `json:"pat_identity"`
	PatBirth    string `json:"pat_birth"`
}

type RegisterPatientRequest struct {
	PatID    string `json:"pat_id"`
	Name     string `json:"pat_name"`
	Phone    string `json:"pat_phone"`
	Identity string `json:"pat_identity"`
	Gender   string `json:"pat_gender"`
	Birth    string `json:"pat_birth"`
}

type RunStatementRequest struct {
	SQL string `json:"sql"`
}

type AppointmentResponse struct {
	ApptID string `json:"appt_id"`
	SchID  string `json:"sch_id"`
	PatID  string `json:"pat_id"`
	Seq    int    `json:"appt_seq"`
	Status string `json:"status"`
}

type PatientResponse struct {
	PatID    string  `json:"pat_id"`
	Name     string  `json:"pat_name"`
	Phone    *string `json:"pat_phone"`
	Identity *string `json:"pat_identity"`
	Gender   *string `json:"pat_gender"`
	Birth    *string `json:"pat_birth"`
}

type DepartmentResponse struct {
	DeptID   string `json:"dept_id"`
	DeptName string `json:"dept_name"`
}

type RoomResponse struct {
	RoomID   string `json:"room_id"`
	RoomName string `json:"room_name"`
	DeptID   string `json:"dept_id"`
}

type DoctorResponse struct {
	DocID   string  `json:"doc_id"`
	DocName string  `json:"doc_name"`
	DocRank *string `json:"doc_rank"`
	DeptID  string  `json:"dept_id"`
}

type ScheduleResponse struct {
	SchID    string  `json:"sch_id"`
	DocID    string  `json:"doc_id"`
	WorkDate string  `json:"work_date"`
	Shift    string  `json:"shift_name"`
	RoomID   string  `json:"room_id"`
	DocName  string  `json:"doc_name"`
	DocRank  *string `json:"doc_rank"`
	RoomName string  `json:"room_name"`
	DeptID   string  `json:"dept_id"`
	DeptName string  `json:"dept_name"`
}

type AppointmentDetailResponse struct {
	ApptID      string  `json:"appt_id"`
	SchID       string  `json:"sch_id"`
	PatID       string  `json:"pat_id"`
	Seq         int     `json:"appt_seq"`
	Status      string  `json:"status"`
	PatName     string  `json:"pat_name"`
	PatIdentity *string `json:"pat_identity"`
	PatBirth    *string `json:"pat_birth"`
	WorkDate    string  `json:"work_date"`
	Shift       string  `json:"shift_name"`
	DocID       string  `json:"doc_id"`
	DocName     string  `json:"doc_name"`
	DeptID      string  `json:"dept_id"`
	DeptName    string  `json:"dept_name"`
	RoomName    string  `json:"room_name"`
}

package clinic

type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "booked"
	StatusCancelled AppointmentStatus = "cancelled"
)

type Department struct {
	ID   string
	Name string
}

type Room struct {
	ID     string
	Name   string
	DeptID string
}

type Doctor struct {
	ID     string
	Name   string
	Rank   *string
	DeptID string
}

// Schedule is one doctor's availability window on one date and shift.
// Rows are created administratively; the booking flow only reads them.
type Schedule struct {
	ID       string
	DocID    string
	WorkDate string
	Shift    string
	RoomID   string
}

// ScheduleDetail is the joined view served by the schedule listing.
type ScheduleDetail struct {
	Schedule
	DocName  string
	DocRank  *string
	RoomName string
	DeptID   string
	DeptName string
}

type Patient struct {
	ID       string
	Name     string
	Phone    *string
	Identity *string
	Gender   *string
	Birth    *string
}

type Appointment struct {
	ID     string
	SchID  string
	PatID  string
	Seq    int
	Status AppointmentStatus
}

// AppointmentDetail is the joined view served by the appointment listing.
type AppointmentDetail struct {
	Appointment
	PatName     string
	PatIdentity *string
	PatBirth    *string
	WorkDate    string
	Shift       string
	DocID       string
	DocName     string
	DeptID      string
	DeptName    string
	RoomName    string
}

type ScheduleFilter struct {
	DeptID   string
	DocID    string
	DocName  string // substring match
	WorkDate string
	Shift    string
}

type AppointmentFilter struct {
	PatID       string
	DocID       string
	DeptID      string
	WorkDate    string
	PatIdentity string
	PatBirth    string
}

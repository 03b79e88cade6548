package clinic

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var dialect = goqu.Dialect("postgres")

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Phone,
		&p.Identity,
		&p.Gender,
		&p.Birth,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

// Interface methods

func (r *PgRepository) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT dept_id, dept_name
		FROM dept
		ORDER BY dept_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *PgRepository) ListRooms(ctx context.Context, deptID string) ([]Room, error) {
	sqlText := `SELECT room_id, room_name, dept_id FROM room`
	var args []any
	if deptID != "" {
		sqlText += ` WHERE dept_id = $1`
		args = append(args, deptID)
	}
	sqlText += ` ORDER BY room_id`

	rows, err := r.pool.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Room
	for rows.Next() {
		var rm Room
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.DeptID); err != nil {
			return nil, err
		}
		result = append(result, rm)
	}
	return result, rows.Err()
}

func (r *PgRepository) ListDoctors(ctx context.Context, deptID string) ([]Doctor, error) {
	sqlText := `SELECT doc_id, doc_name, doc_rank, dept_id FROM doctor`
	var args []any
	if deptID != "" {
		sqlText += ` WHERE dept_id = $1`
		args = append(args, deptID)
	}
	sqlText += ` ORDER BY doc_id`

	rows, err := r.pool.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Rank, &d.DeptID); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *PgRepository) ListSchedules(ctx context.Context, f ScheduleFilter) ([]ScheduleDetail, error) {
	q := dialect.From(goqu.T("schedule").As("s")).
		Join(goqu.T("doctor").As("d"), goqu.On(goqu.Ex{"s.doc_id": goqu.I("d.doc_id")})).
		Join(goqu.T("room").As("r"), goqu.On(goqu.Ex{"s.room_id": goqu.I("r.room_id")})).
		Join(goqu.T("dept").As("dp"), goqu.On(goqu.Ex{"d.dept_id": goqu.I("dp.dept_id")})).
		Select(
			goqu.I("s.sch_id"),
			goqu.I("s.doc_id"),
			goqu.L("s.work_date::text"),
			goqu.I("s.shift_name"),
			goqu.I("s.room_id"),
			goqu.I("d.doc_name"),
			goqu.I("d.doc_rank"),
			goqu.I("r.room_name"),
			goqu.I("dp.dept_id"),
			goqu.I("dp.dept_name"),
		).
		Order(goqu.I("s.work_date").Asc(), goqu.I("s.shift_name").Asc(), goqu.I("s.sch_id").Asc())

	if f.DeptID != "" {
		q = q.Where(goqu.Ex{"dp.dept_id": f.DeptID})
	}
	if f.DocID != "" {
		q = q.Where(goqu.Ex{"s.doc_id": f.DocID})
	}
	if f.DocName != "" {
		q = q.Where(goqu.I("d.doc_name").Like("%" + f.DocName + "%"))
	}
	if f.WorkDate != "" {
		q = q.Where(goqu.L("s.work_date").Eq(f.WorkDate))
	}
	if f.Shift != "" {
		q = q.Where(goqu.Ex{"s.shift_name": f.Shift})
	}

	sqlText, args, err := q.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build schedule query: %w", err)
	}

	rows, err := r.pool.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ScheduleDetail
	for rows.Next() {
		var s ScheduleDetail
		err := rows.Scan(
			&s.ID,
			&s.DocID,
			&s.WorkDate,
			&s.Shift,
			&s.RoomID,
			&s.DocName,
			&s.DocRank,
			&s.RoomName,
			&s.DeptID,
			&s.DeptName,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *PgRepository) InsertPatient(ctx context.Context, p Patient) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient (pat_id, pat_name, pat_phone, pat_identity, pat_gender, pat_birth)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.Name, p.Phone, p.Identity, p.Gender, p.Birth)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *PgRepository) FindPatientByIdentity(ctx context.Context, identity, birth string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT pat_id, pat_name, pat_phone, pat_identity, pat_gender, pat_birth::text
		FROM patient
		WHERE pat_identity = $1 AND pat_birth = $2
	`, identity, birth)
	return scanPatient(row)
}

func (r *PgRepository) LastPatientID(ctx context.Context) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		SELECT pat_id
		FROM patient
		ORDER BY pat_id DESC
		LIMIT 1
	`).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return id, nil
}

func (r *PgRepository) FindScheduleForBooking(ctx context.Context, docID, workDate string) (string, error) {
	var schID string
	err := r.pool.QueryRow(ctx, `
		SELECT sch_id
		FROM schedule
		WHERE doc_id = $1 AND work_date = $2
		ORDER BY shift_name
		LIMIT 1
	`, docID, workDate).Scan(&schID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrScheduleNotFound
		}
		return "", err
	}
	return schID, nil
}

func (r *PgRepository) MaxSequenceForSlot(ctx context.Context, schID string) (int, error) {
	var maxSeq int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(appt_seq), 0)
		FROM appointment
		WHERE sch_id = $1
	`, schID).Scan(&maxSeq)
	if err != nil {
		return 0, err
	}
	return maxSeq, nil
}

func (r *PgRepository) CountAppointments(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PgRepository) InsertAppointment(ctx context.Context, a Appointment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment (appt_id, sch_id, pat_id, appt_seq, status)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.SchID, a.PatID, a.Seq, a.Status)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *PgRepository) CancelAppointment(ctx context.Context, apptID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointment
		SET status = $1
		WHERE appt_id = $2
	`, StatusCancelled, apptID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) ListAppointments(ctx context.Context, f AppointmentFilter) ([]AppointmentDetail, error) {
	q := dialect.From(goqu.T("appointment").As("a")).
		Join(goqu.T("patient").As("p"), goqu.On(goqu.Ex{"a.pat_id": goqu.I("p.pat_id")})).
		Join(goqu.T("schedule").As("s"), goqu.On(goqu.Ex{"a.sch_id": goqu.I("s.sch_id")})).
		Join(goqu.T("doctor").As("d"), goqu.On(goqu.Ex{"s.doc_id": goqu.I("d.doc_id")})).
		Join(goqu.T("dept").As("dp"), goqu.On(goqu.Ex{"d.dept_id": goqu.I("dp.dept_id")})).
		Join(goqu.T("room").As("r"), goqu.On(goqu.Ex{"s.room_id": goqu.I("r.room_id")})).
		Select(
			goqu.I("a.appt_id"),
			goqu.I("a.sch_id"),
			goqu.I("a.pat_id"),
			goqu.I("a.appt_seq"),
			goqu.I("a.status"),
			goqu.I("p.pat_name"),
			goqu.I("p.pat_identity"),
			goqu.L("p.pat_birth::text"),
			goqu.L("s.work_date::text"),
			goqu.I("s.shift_name"),
			goqu.I("d.doc_id"),
			goqu.I("d.doc_name"),
			goqu.I("dp.dept_id"),
			goqu.I("dp.dept_name"),
			goqu.I("r.room_name"),
		).
		Order(goqu.I("s.work_date").Asc(), goqu.I("s.shift_name").Asc(), goqu.I("a.appt_seq").Asc())

	if f.PatID != "" {
		q = q.Where(goqu.Ex{"a.pat_id": f.PatID})
	}
	if f.DocID != "" {
		q = q.Where(goqu.Ex{"d.doc_id": f.DocID})
	}
	if f.DeptID != "" {
		q = q.Where(goqu.Ex{"dp.dept_id": f.DeptID})
	}
	if f.WorkDate != "" {
		q = q.Where(goqu.L("s.work_date").Eq(f.WorkDate))
	}
	if f.PatIdentity != "" {
		q = q.Where(goqu.Ex{"p.pat_identity": f.PatIdentity})
	}
	if f.PatBirth != "" {
		q = q.Where(goqu.L("p.pat_birth").Eq(f.PatBirth))
	}

	sqlText, args, err := q.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build appointment query: %w", err)
	}

	rows, err := r.pool.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AppointmentDetail
	for rows.Next() {
		var a AppointmentDetail
		err := rows.Scan(
			&a.ID,
			&a.SchID,
			&a.PatID,
			&a.Seq,
			&a.Status,
			&a.PatName,
			&a.PatIdentity,
			&a.PatBirth,
			&a.WorkDate,
			&a.Shift,
			&a.DocID,
			&a.DocName,
			&a.DeptID,
			&a.DeptName,
			&a.RoomName,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

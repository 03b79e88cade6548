package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/booking-api/internal/config"
	"github.com/clinicore/booking-api/internal/db"
	"github.com/clinicore/booking-api/internal/logging"
)

var shifts = []string{"morning", "afternoon", "evening"}

var departments = []struct {
	id   string
	name string
}{
	{"DE01", "General Practice"},
	{"DE02", "Cardiology"},
	{"DE03", "Dermatology"},
	{"DE04", "Orthopedics"},
	{"DE05", "Pediatrics"},
	{"DE06", "Ophthalmology"},
}

var ranks = []string{"Attending", "Resident", "Chief", "Consultant"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init("seed", "dev")
		log.Fatal().Err(err).Msg("config load error")
	}

	logging.Init("seed", cfg.Env)
	log.Info().Msg("seed starting")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedReferenceData(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("seed reference data")
	}
	if err := seedSchedules(context.Background(), pool, 14); err != nil {
		log.Fatal().Err(err).Msg("seed schedules")
	}
	if err := seedPatients(context.Background(), pool, 200); err != nil {
		log.Fatal().Err(err).Msg("seed patients")
	}

	log.Info().Msg("seed complete")
}

// seedReferenceData inserts departments, two rooms per department and three
// doctors per department in one transaction.
func seedReferenceData(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, dept := range departments {
		_, err := tx.Exec(ctx, `
			INSERT INTO dept (dept_id, dept_name)
			VALUES ($1, $2)
		`, dept.id, dept.name)
		if err != nil {
			return err
		}
	}

	roomNo := 0
	for _, dept := range departments {
		for i := 0; i < 2; i++ {
			roomNo++
			_, err := tx.Exec(ctx, `
				INSERT INTO room (room_id, room_name, dept_id)
				VALUES ($1, $2, $3)
			`, fmt.Sprintf("R%02d", roomNo), fmt.Sprintf("Room %d", 100+roomNo), dept.id)
			if err != nil {
				return err
			}
		}
	}

	docNo := 0
	for _, dept := range departments {
		for i := 0; i < 3; i++ {
			docNo++
			_, err := tx.Exec(ctx, `
				INSERT INTO doctor (doc_id, doc_name, doc_rank, dept_id)
				VALUES ($1, $2, $3, $4)
			`, fmt.Sprintf("D%02d", docNo), gofakeit.Name(), ranks[gofakeit.Number(0, len(ranks)-1)], dept.id)
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info().Int("departments", len(departments)).Int("rooms", roomNo).Int("doctors", docNo).Msg("reference data seeded")
	return nil
}

// seedSchedules gives every doctor one random shift per day for the next
// `days` days, in that doctor's department rooms.
func seedSchedules(ctx context.Context, pool *pgxpool.Pool, days int) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT d.doc_id, r.room_id
		FROM doctor d
		JOIN room r ON r.dept_id = d.dept_id
		ORDER BY d.doc_id, r.room_id
	`)
	if err != nil {
		return err
	}

	type docRoom struct {
		docID  string
		roomID string
	}
	rooms := make(map[string][]string)
	var order []string
	for rows.Next() {
		var dr docRoom
		if err := rows.Scan(&dr.docID, &dr.roomID); err != nil {
			rows.Close()
			return err
		}
		if _, ok := rooms[dr.docID]; !ok {
			order = append(order, dr.docID)
		}
		rooms[dr.docID] = append(rooms[dr.docID], dr.roomID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	schNo := 0
	start := time.Now()
	for day := 0; day < days; day++ {
		workDate := start.AddDate(0, 0, day).Format("2006-01-02")
		for _, docID := range order {
			schNo++
			shift := shifts[gofakeit.Number(0, len(shifts)-1)]
			roomIDs := rooms[docID]
			roomID := roomIDs[gofakeit.Number(0, len(roomIDs)-1)]

			_, err := tx.Exec(ctx, `
				INSERT INTO schedule (sch_id, doc_id, work_date, shift_name, room_id)
				VALUES ($1, $2, $3, $4, $5)
			`, fmt.Sprintf("S%04d", schNo), docID, workDate, shift, roomID)
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info().Int("schedules", schNo).Msg("schedules seeded")
	return nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	const batchSize = 100

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			id := fmt.Sprintf("P%03d", i+1)
			birth := gofakeit.DateRange(
				time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC),
			).Format("2006-01-02")
			gender := "M"
			if gofakeit.Bool() {
				gender = "F"
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO patient (pat_id, pat_name, pat_phone, pat_identity, pat_gender, pat_birth)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, id, gofakeit.Name(), gofakeit.Phone(), gofakeit.SSN(), gender, birth)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Info().Int("seeded", end).Int("total", count).Msg("patients seeded")
	}

	return nil
}

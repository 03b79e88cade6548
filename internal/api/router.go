package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/booking-api/internal/clinic"
	"github.com/clinicore/booking-api/internal/sqlconsole"
)

type RouterConfig struct {
	Service *clinic.Service
	Console *sqlconsole.Gateway
	PgPool  *pgxpool.Pool
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Env, cfg.Version)
	r.Get("/api/health", health.Health)
	r.Get("/api/ping", pingHandler)

	// Reference data
	r.Get("/api/depts", listDepartmentsHandler(cfg.Service))
	r.Get("/api/rooms", listRoomsHandler(cfg.Service))
	r.Get("/api/doctors", listDoctorsHandler(cfg.Service))
	r.Get("/api/schedules", listSchedulesHandler(cfg.Service))

	// Patients and appointments
	r.Post("/api/patients", registerPatientHandler(cfg.Service))
	r.Post("/api/appointments", createAppointmentHandler(cfg.Service))
	r.Get("/api/appointments", listAppointmentsHandler(cfg.Service))
	r.Put("/api/appointments/{appt_id}/cancel", cancelAppointmentHandler(cfg.Service))

	// Ad-hoc console
	r.Post("/api/sql", runStatementHandler(cfg.Console))

	return r
}

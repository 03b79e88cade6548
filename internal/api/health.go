package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthHandler struct {
	pgPool  *pgxpool.Pool
	env     string
	version string
}

func NewHealthHandler(pgPool *pgxpool.Pool, env, version string) *HealthHandler {
	return &HealthHandler{
		pgPool:  pgPool,
		env:     env,
		version: version,
	}
}

type HealthResponse struct {
	OK      bool   `json:"ok"`
	DB      bool   `json:"db"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Health reports server liveness and probes the database with SELECT 1.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		OK:      true,
		Version: h.version,
		Env:     h.env,
	}

	var one int
	if err := h.pgPool.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		resp.OK = false
		resp.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	resp.DB = one == 1
	writeJSON(w, http.StatusOK, resp)
}

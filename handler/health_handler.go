package handler

import (
	"context"
	"go-account-api/common"
	"go-account-api/logger"
	"net/http"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthCheck godoc
// @Summary      Show the status of server
// @Description  get the status of server and its database connection
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func HealthCheck(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "API is healthy and running"}
		if db == nil {
			common.WriteJSON(w, http.StatusOK, status)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			logger.Log.WithError(err).Error("Health check: database unreachable")
			status["status"] = "API is running but the database is unreachable"
			status["database"] = "down"
			common.WriteJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "up"
		common.WriteJSON(w, http.StatusOK, status)
	}
}

package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness plus a database ping so load balancers can tell a
// wedged pool from a healthy one.
func Health(db *sql.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := reqCtx(c)
		defer cancel()

		dbStatus := "ok"
		status := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			dbStatus = "down"
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, echo.Map{"status": "ok", "db": dbStatus})
	}
}

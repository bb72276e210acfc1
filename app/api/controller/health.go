package controller

import (
	"net/http"
)

// HandleHealth reports the reachability of Temporal and Redis.
func (c *Controller) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out := map[string]any{"status": "ok"}
	status := http.StatusOK

	if c.App.TemporalClient != nil {
		h, err := c.App.TemporalClient.Health(ctx)
		out["temporal"] = h
		if err != nil {
			status = http.StatusServiceUnavailable
			out["status"] = "degraded"
		}
	}
	if c.App.RedisClient != nil {
		redisOK := c.App.RedisClient.Health(ctx) == nil
		out["redis"] = redisOK
		if !redisOK {
			status = http.StatusServiceUnavailable
			out["status"] = "degraded"
		}
	}
	writeJSON(w, status, out)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TodayQueue handles GET /api/queue/today. Public, no auth.
func (h *Handler) TodayQueue(c *gin.Context) {
	view, err := h.engine.TodayQueue(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "queue retrieved", view)
}

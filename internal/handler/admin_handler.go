package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aadhaarqms/internal/middleware"
	"aadhaarqms/internal/model"
	"aadhaarqms/internal/store"
)

// ListAppointments handles GET /api/admin/appointments with optional
// date/status/serviceType query filters.
func (h *Handler) ListAppointments(c *gin.Context) {
	f := store.AppointmentFilter{
		Date:        c.Query("date"),
		Status:      model.Status(c.Query("status")),
		ServiceType: c.Query("serviceType"),
	}
	apts, err := h.engine.AdminList(c.Request.Context(), middleware.Principal(c), f)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "appointments retrieved", gin.H{"count": len(apts), "appointments": apts})
}

type statusInput struct {
	Status model.Status `json:"status"`
}

// UpdateStatus handles PUT /api/admin/appointment/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var in statusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failMsg(c, http.StatusBadRequest, "invalid request body")
		return
	}

	apt, err := h.engine.UpdateStatus(c.Request.Context(), middleware.Principal(c), c.Param("id"), in.Status)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "status updated successfully", apt)
}

// Analytics handles GET /api/admin/analytics.
func (h *Handler) Analytics(c *gin.Context) {
	overview, err := h.engine.Overview(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "analytics retrieved", overview)
}

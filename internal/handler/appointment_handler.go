package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aadhaarqms/internal/booking"
	"aadhaarqms/internal/middleware"
)

// BookAppointment handles POST /api/appointment.
func (h *Handler) BookAppointment(c *gin.Context) {
	var req booking.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failMsg(c, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.engine.Book(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, "appointment booked successfully", summary)
}

// MyAppointments handles GET /api/my-appointments.
func (h *Handler) MyAppointments(c *gin.Context) {
	apts, err := h.engine.ListForUser(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "appointments retrieved", apts)
}

// GetAppointment handles GET /api/appointment/:id for the owner or an admin.
func (h *Handler) GetAppointment(c *gin.Context) {
	apt, err := h.engine.Get(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "appointment retrieved", apt)
}

// CancelAppointment handles DELETE /api/appointment/:id.
func (h *Handler) CancelAppointment(c *gin.Context) {
	if err := h.engine.Cancel(c.Request.Context(), middleware.Principal(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "appointment cancelled successfully", nil)
}

// Availability handles GET /api/appointment/availability?date=YYYY-MM-DD,
// feeding the booking form's slot picker.
func (h *Handler) Availability(c *gin.Context) {
	date := c.Query("date")
	if slot := c.Query("timeSlot"); slot != "" {
		av, err := h.engine.CheckAvailability(c.Request.Context(), date, slot)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, http.StatusOK, "availability retrieved", av)
		return
	}

	slots, err := h.engine.DayAvailability(c.Request.Context(), date)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, "availability retrieved", gin.H{"date": date, "slots": slots})
}

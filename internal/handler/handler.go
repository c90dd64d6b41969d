package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aadhaarqms/internal/booking"
	"aadhaarqms/internal/config"
	"aadhaarqms/internal/store"
)

type Handler struct {
	engine *booking.Engine
	store  store.Store
	cfg    *config.Config
	log    *zap.SugaredLogger
}

func New(engine *booking.Engine, st store.Store, cfg *config.Config, log *zap.SugaredLogger) *Handler {
	return &Handler{engine: engine, store: st, cfg: cfg, log: log}
}

func ok(c *gin.Context, code int, message string, data any) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

// fail maps an engine error to its HTTP status and the response envelope.
func fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	msg := err.Error()
	switch booking.KindOf(err) {
	case booking.KindValidation, booking.KindConflict, booking.KindCapacity, booking.KindInvalidState:
		code = http.StatusBadRequest
	case booking.KindNotFound:
		code = http.StatusNotFound
	case booking.KindForbidden:
		code = http.StatusForbidden
	case booking.KindStore:
		msg = "internal error"
	}
	c.JSON(code, gin.H{"success": false, "message": msg})
}

func failMsg(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "message": message})
}
